package kv

import (
	"bytes"
	"context"
	"sort"
)

// Buffer acumula las escrituras de una llamada sobre un Store.
// Las lecturas ven lo pendiente; nada toca el store de abajo hasta Commit.
// No es seguro para uso concurrente: el executor lo usa dentro de su lock.
type Buffer struct {
	inner   Store
	pending map[string][]byte
	order   []string
}

func NewBuffer(inner Store) *Buffer {
	return &Buffer{
		inner:   inner,
		pending: make(map[string][]byte),
	}
}

func (b *Buffer) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	if v, ok := b.pending[string(key)]; ok {
		return cloneBytes(v), true, nil
	}
	return b.inner.Get(ctx, key)
}

func (b *Buffer) Set(ctx context.Context, key, value []byte) error {
	k := string(key)
	if _, ok := b.pending[k]; !ok {
		b.order = append(b.order, k)
	}
	b.pending[k] = cloneBytes(value)
	return nil
}

// Range mezcla lo que hay abajo con lo pendiente, manteniendo el orden de bytes.
func (b *Buffer) Range(ctx context.Context, start, end []byte, fn func(key, value []byte) error) error {
	merged := map[string][]byte{}
	if err := b.inner.Range(ctx, start, end, func(k, v []byte) error {
		merged[string(k)] = cloneBytes(v)
		return nil
	}); err != nil {
		return err
	}
	for k, v := range b.pending {
		kb := []byte(k)
		if start != nil && bytes.Compare(kb, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(kb, end) >= 0 {
			continue
		}
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := fn([]byte(k), cloneBytes(merged[k])); err != nil {
			return err
		}
	}
	return nil
}

// Writes devuelve las escrituras pendientes en el orden en que se hicieron.
func (b *Buffer) Writes() []Write {
	out := make([]Write, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, Write{Key: []byte(k), Value: cloneBytes(b.pending[k])})
	}
	return out
}

// Commit aplica todo lo pendiente sobre el store de abajo y vacía el buffer.
func (b *Buffer) Commit(ctx context.Context) error {
	if err := Apply(ctx, b.inner, b.Writes()); err != nil {
		return err
	}
	b.Discard()
	return nil
}

// Discard descarta lo pendiente.
func (b *Buffer) Discard() {
	b.pending = make(map[string][]byte)
	b.order = nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
