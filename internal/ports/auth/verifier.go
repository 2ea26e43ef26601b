package auth

import (
	"context"
	"errors"
)

var ErrUnknownToken = errors.New("unknown token")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
