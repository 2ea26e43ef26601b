// Package apikey resuelve tokens Bearer a direcciones con un mapa estático
// cargado de la config (auth.api_keys).
package apikey

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"pet-market-engine/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// Key asocia un token a la dirección que firma las llamadas.
type Key struct {
	Name    string `yaml:"name"`
	Token   string `yaml:"token"`
	Address string `yaml:"address"`
}

// Verifier implementa auth.AuthVerifier comparando en tiempo constante.
type Verifier struct {
	keys []Key
}

func NewVerifier(keys []Key) (*Verifier, error) {
	out := make([]Key, 0, len(keys))
	seen := map[string]struct{}{}
	for i, k := range keys {
		k.Token = strings.TrimSpace(k.Token)
		k.Address = strings.TrimSpace(k.Address)
		k.Name = strings.TrimSpace(k.Name)
		if k.Token == "" || k.Address == "" {
			return nil, fmt.Errorf("api key %d: token and address are required", i)
		}
		if _, dup := seen[k.Token]; dup {
			return nil, fmt.Errorf("api key %d: duplicated token", i)
		}
		seen[k.Token] = struct{}{}
		if k.Name == "" {
			k.Name = fmt.Sprintf("key-%d", i)
		}
		out = append(out, k)
	}
	return &Verifier{keys: out}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}
	for _, k := range v.keys {
		if subtle.ConstantTimeCompare([]byte(k.Token), []byte(token)) == 1 {
			return auth.Claims{Address: k.Address, KeyName: k.Name}, nil
		}
	}
	return auth.Claims{}, auth.ErrUnknownToken
}

// Len es la cantidad de keys cargadas.
func (v *Verifier) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}
