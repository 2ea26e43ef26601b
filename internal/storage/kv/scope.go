package kv

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
)

// Namespace arma el prefijo compuesto para una lista de componentes.
// Cada componente va precedido por su largo (uint16 big-endian), de modo que
// ("pets", owner) nunca colisiona con ("petso", wner) ni con otros niveles.
func Namespace(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += 2 + len(p)
	}
	out := make([]byte, 0, size)
	for _, p := range parts {
		if len(p) > math.MaxUint16 {
			// Un componente así no puede venir de una dirección ni de un prefijo fijo.
			panic(fmt.Sprintf("kv: namespace component too long (%d bytes)", len(p)))
		}
		out = binary.BigEndian.AppendUint16(out, uint16(len(p)))
		out = append(out, p...)
	}
	return out
}

// Scope devuelve un Store cuyas claves viven bajo Namespace(parts...) dentro de s.
func Scope(s Store, parts ...[]byte) Store {
	return &scoped{scopedReader: scopedReader{r: s, prefix: Namespace(parts...)}, w: s}
}

// ScopeRead es Scope para vistas de solo lectura.
func ScopeRead(r Reader, parts ...[]byte) Reader {
	return &scopedReader{r: r, prefix: Namespace(parts...)}
}

type scopedReader struct {
	r      Reader
	prefix []byte
}

type scoped struct {
	scopedReader
	w Store
}

func (s *scopedReader) key(k []byte) []byte {
	out := make([]byte, 0, len(s.prefix)+len(k))
	out = append(out, s.prefix...)
	return append(out, k...)
}

func (s *scopedReader) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	return s.r.Get(ctx, s.key(key))
}

func (s *scopedReader) Range(ctx context.Context, start, end []byte, fn func(key, value []byte) error) error {
	from := s.key(start)
	var to []byte
	if end != nil {
		to = s.key(end)
	} else {
		to = PrefixEnd(s.prefix)
	}
	n := len(s.prefix)
	return s.r.Range(ctx, from, to, func(k, v []byte) error {
		return fn(k[n:], v)
	})
}

func (s *scoped) Set(ctx context.Context, key, value []byte) error {
	return s.w.Set(ctx, s.key(key), value)
}

// ApplyBatch traduce las claves y delega en el store de abajo, conservando
// la atomicidad si éste es Batcher.
func (s *scoped) ApplyBatch(ctx context.Context, writes []Write) error {
	translated := make([]Write, 0, len(writes))
	for _, w := range writes {
		translated = append(translated, Write{Key: s.key(w.Key), Value: w.Value})
	}
	return Apply(ctx, s.w, translated)
}

// PrefixEnd devuelve la menor clave mayor que todas las que empiezan con
// prefix, o nil si no existe (prefix vacío o todo 0xff).
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
