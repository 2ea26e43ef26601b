// Package amount implementa el entero sin signo de 128 bits que usan los
// montos de tokens. Serializa como string decimal ("1000"), igual que los
// Uint128 de los mensajes de los contratos.
package amount

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"pet-market-engine/internal/platform/apperr"
)

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Uint128 es inmutable: todas las operaciones devuelven un valor nuevo.
// El valor cero es 0 y es utilizable.
type Uint128 struct {
	v *big.Int
}

func Zero() Uint128 { return Uint128{} }

func FromUint64(n uint64) Uint128 {
	return Uint128{v: new(big.Int).SetUint64(n)}
}

// Parse lee un decimal sin signo; falla si no entra en 128 bits.
func Parse(s string) (Uint128, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Uint128{}, apperr.Wrap(apperr.ErrInvalidInput, "empty amount")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return Uint128{}, apperr.Wrap(apperr.ErrInvalidInput, "invalid amount %q", s)
	}
	if v.Cmp(maxUint128) > 0 {
		return Uint128{}, apperr.Wrap(apperr.ErrOverflow, "amount %s exceeds 128 bits", s)
	}
	return Uint128{v: v}, nil
}

// MustParse es para constantes y tests.
func MustParse(s string) Uint128 {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u Uint128) value() *big.Int {
	if u.v == nil {
		return new(big.Int)
	}
	return u.v
}

func (u Uint128) IsZero() bool { return u.value().Sign() == 0 }

func (u Uint128) Cmp(o Uint128) int { return u.value().Cmp(o.value()) }

func (u Uint128) Equal(o Uint128) bool { return u.Cmp(o) == 0 }

// Add suma con chequeo de overflow.
func (u Uint128) Add(o Uint128) (Uint128, error) {
	r := new(big.Int).Add(u.value(), o.value())
	if r.Cmp(maxUint128) > 0 {
		return Uint128{}, apperr.Wrap(apperr.ErrOverflow, "%s + %s", u, o)
	}
	return Uint128{v: r}, nil
}

// Mul multiplica con chequeo de overflow.
func (u Uint128) Mul(o Uint128) (Uint128, error) {
	r := new(big.Int).Mul(u.value(), o.value())
	if r.Cmp(maxUint128) > 0 {
		return Uint128{}, apperr.Wrap(apperr.ErrOverflow, "%s * %s", u, o)
	}
	return Uint128{v: r}, nil
}

func (u Uint128) String() string { return u.value().String() }

func (u Uint128) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *Uint128) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("uint128 must be a decimal string: %w", err)
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
