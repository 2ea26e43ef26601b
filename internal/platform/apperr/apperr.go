// Package apperr define la taxonomía de errores que comparten los contratos,
// el storage y el host. Los paquetes envuelven estos sentinels con
// fmt.Errorf("%w: ...") y los consumidores comparan con errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidDenomination = errors.New("invalid denomination")
	ErrEmptyDeposit        = errors.New("empty deposit")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyDead         = errors.New("pet is already dead")
	ErrNotFeedingTime      = errors.New("not feeding time")
	ErrSerialization       = errors.New("serialization error")
	ErrOverflow            = errors.New("arithmetic overflow")
)

// Wrap agrega contexto a un sentinel sin perder errors.Is.
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// keepWrites marca un error cuyas escrituras el host igual debe commitear.
type keepWrites struct {
	err error
}

func (k *keepWrites) Error() string { return k.err.Error() }
func (k *keepWrites) Unwrap() error { return k.err }

// KeepWrites envuelve err para que el executor persista lo escrito en la
// llamada antes de devolver el error (p.ej. la muerte observada de una mascota).
func KeepWrites(err error) error {
	if err == nil {
		return nil
	}
	return &keepWrites{err: err}
}

// ShouldKeepWrites indica si err fue marcado con KeepWrites.
func ShouldKeepWrites(err error) bool {
	var k *keepWrites
	return errors.As(err, &k)
}
