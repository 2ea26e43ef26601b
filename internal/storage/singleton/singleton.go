// Package singleton guarda un único valor tipado bajo una clave fija
// (config del contrato, contadores).
package singleton

import (
	"context"
	"encoding/json"

	"pet-market-engine/internal/platform/apperr"
	"pet-market-engine/internal/storage/kv"
)

type Cell[T any] struct {
	key []byte
}

func New[T any](key string) Cell[T] {
	return Cell[T]{key: []byte(key)}
}

// Load falla con apperr.ErrNotFound si la celda nunca se guardó.
func (c Cell[T]) Load(ctx context.Context, r kv.Reader) (T, error) {
	v, ok, err := c.MayLoad(ctx, r)
	if err != nil {
		return v, err
	}
	if !ok {
		var zero T
		return zero, apperr.Wrap(apperr.ErrNotFound, "singleton %q", c.key)
	}
	return v, nil
}

// MayLoad devuelve ok=false en vez de error cuando no existe.
func (c Cell[T]) MayLoad(ctx context.Context, r kv.Reader) (T, bool, error) {
	var out T
	raw, ok, err := r.Get(ctx, c.key)
	if err != nil || !ok {
		return out, false, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, apperr.Wrap(apperr.ErrSerialization, "decode %q: %v", c.key, err)
	}
	return out, true, nil
}

func (c Cell[T]) Save(ctx context.Context, s kv.Store, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperr.Wrap(apperr.ErrSerialization, "encode %q: %v", c.key, err)
	}
	return s.Set(ctx, c.key, raw)
}

// Update lee, aplica fn y guarda. Si la celda no existe falla como Load.
func (c Cell[T]) Update(ctx context.Context, s kv.Store, fn func(T) (T, error)) (T, error) {
	cur, err := c.Load(ctx, s)
	if err != nil {
		return cur, err
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	if err := c.Save(ctx, s, next); err != nil {
		return cur, err
	}
	return next, nil
}
