// Package appendlist implementa una lista secuencial append-only sobre un
// namespace kv.
//
// Layout dentro del namespace:
//
//	"len"          -> uint32 big-endian con la cantidad de elementos
//	<uint32 BE i>  -> elemento i (JSON), i en orden de inserción
//
// No hay remove ni reorder. La lectura paginada es siempre newest-first.
package appendlist

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"iter"
	"math"

	"pet-market-engine/internal/platform/apperr"
	"pet-market-engine/internal/storage/kv"
)

var lenKey = []byte("len")

type List[T any] struct {
	r      kv.Reader
	w      kv.Store // nil => solo lectura
	length uint32
}

// Attach abre una lista existente en modo lectura.
// Devuelve apperr.ErrNotFound si nunca se creó.
func Attach[T any](ctx context.Context, r kv.Reader) (*List[T], error) {
	n, ok, err := readLen(ctx, r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "no list stored under namespace")
	}
	return &List[T]{r: r, length: n}, nil
}

// AttachMut abre una lista existente con permiso de escritura.
func AttachMut[T any](ctx context.Context, s kv.Store) (*List[T], error) {
	l, err := Attach[T](ctx, s)
	if err != nil {
		return nil, err
	}
	l.w = s
	return l, nil
}

// AttachOrCreate abre la lista o la inicializa vacía.
func AttachOrCreate[T any](ctx context.Context, s kv.Store) (*List[T], error) {
	n, ok, err := readLen(ctx, s)
	if err != nil {
		return nil, err
	}
	l := &List[T]{r: s, w: s, length: n}
	if !ok {
		if err := l.writeLen(ctx, 0); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Len es O(1): se mantiene como metadata.
func (l *List[T]) Len() uint32 { return l.length }

// Push agrega al final. Nunca pisa un elemento existente.
func (l *List[T]) Push(ctx context.Context, v T) error {
	if l.w == nil {
		return apperr.Wrap(apperr.ErrInvalidInput, "list opened read-only")
	}
	if l.length == math.MaxUint32 {
		return apperr.Wrap(apperr.ErrInvalidInput, "list is full")
	}
	if err := l.put(ctx, l.length, v); err != nil {
		return err
	}
	return l.writeLen(ctx, l.length+1)
}

// Get lee la posición pos (orden de inserción, base cero).
func (l *List[T]) Get(ctx context.Context, pos uint32) (T, error) {
	var out T
	if pos >= l.length {
		return out, apperr.Wrap(apperr.ErrNotFound, "position %d out of range (len %d)", pos, l.length)
	}
	raw, ok, err := l.r.Get(ctx, indexKey(pos))
	if err != nil {
		return out, err
	}
	if !ok {
		return out, apperr.Wrap(apperr.ErrNotFound, "no element stored at position %d", pos)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, apperr.Wrap(apperr.ErrSerialization, "decode element %d: %v", pos, err)
	}
	return out, nil
}

// UpdateAt pisa el elemento en pos (orden de inserción).
// Falla con ErrNotFound si el slot no existe: pos tiene que venir de un
// recorrido previo (Find/Replace hacen ese scan O(n)).
func (l *List[T]) UpdateAt(ctx context.Context, pos uint32, v T) error {
	if l.w == nil {
		return apperr.Wrap(apperr.ErrInvalidInput, "list opened read-only")
	}
	if pos >= l.length {
		return apperr.Wrap(apperr.ErrNotFound, "position %d out of range (len %d)", pos, l.length)
	}
	if _, ok, err := l.r.Get(ctx, indexKey(pos)); err != nil {
		return err
	} else if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "no element stored at position %d", pos)
	}
	return l.put(ctx, pos, v)
}

// Iterate recorre newest-first, saltea skip y entrega hasta take elementos.
// Es lazy (lee un elemento por paso) y se puede recorrer varias veces.
// Si skip >= Len() entrega una secuencia vacía.
func (l *List[T]) Iterate(ctx context.Context, skip, take uint64) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		n := uint64(l.length)
		if skip >= n || take == 0 {
			return
		}
		// posiciones n-1-skip, n-2-skip, ... hasta agotar take o llegar a 0
		first := n - 1 - skip
		for i := uint64(0); i < take && i <= first; i++ {
			v, err := l.Get(ctx, uint32(first-i))
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Find devuelve el primer elemento (newest-first) que cumple pred.
func (l *List[T]) Find(ctx context.Context, pred func(T) bool) (T, error) {
	_, v, err := l.find(ctx, pred)
	return v, err
}

// Replace ubica el primer elemento (newest-first) que cumple pred y lo pisa con v.
func (l *List[T]) Replace(ctx context.Context, pred func(T) bool, v T) error {
	pos, _, err := l.find(ctx, pred)
	if err != nil {
		return err
	}
	return l.UpdateAt(ctx, pos, v)
}

func (l *List[T]) find(ctx context.Context, pred func(T) bool) (uint32, T, error) {
	var zero T
	for i := l.length; i > 0; i-- {
		pos := i - 1
		v, err := l.Get(ctx, pos)
		if err != nil {
			return 0, zero, err
		}
		if pred(v) {
			return pos, v, nil
		}
	}
	return 0, zero, apperr.Wrap(apperr.ErrNotFound, "no matching element")
}

func (l *List[T]) put(ctx context.Context, pos uint32, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperr.Wrap(apperr.ErrSerialization, "encode element %d: %v", pos, err)
	}
	return l.w.Set(ctx, indexKey(pos), raw)
}

func (l *List[T]) writeLen(ctx context.Context, n uint32) error {
	if err := l.w.Set(ctx, lenKey, binary.BigEndian.AppendUint32(nil, n)); err != nil {
		return err
	}
	l.length = n
	return nil
}

func readLen(ctx context.Context, r kv.Reader) (uint32, bool, error) {
	raw, ok, err := r.Get(ctx, lenKey)
	if err != nil || !ok {
		return 0, false, err
	}
	if len(raw) != 4 {
		return 0, false, apperr.Wrap(apperr.ErrSerialization, "corrupted list length (%d bytes)", len(raw))
	}
	return binary.BigEndian.Uint32(raw), true, nil
}

func indexKey(pos uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, pos)
}
