// Package kv define la capacidad de almacenamiento clave/valor sobre la que
// corren los contratos. El host entrega un Store por instancia de contrato;
// los adapters (memory, postgres, sqlite) lo implementan.
package kv

import "context"

// Reader es la vista de solo lectura que reciben las queries.
type Reader interface {
	// Get devuelve el valor y ok=false si la clave no existe.
	Get(ctx context.Context, key []byte) (value []byte, ok bool, err error)

	// Range recorre en orden ascendente de bytes las claves en [start, end).
	// start nil = desde el principio, end nil = hasta el final.
	// Si fn devuelve error, el recorrido se corta y se propaga ese error.
	Range(ctx context.Context, start, end []byte, fn func(key, value []byte) error) error
}

type Store interface {
	Reader
	Set(ctx context.Context, key, value []byte) error
}

// Write es una escritura pendiente (ver Buffer).
type Write struct {
	Key   []byte
	Value []byte
}

// Batcher lo implementan los backends que pueden aplicar varias escrituras
// de forma atómica (una transacción SQL, un lock sobre el mapa, etc).
type Batcher interface {
	ApplyBatch(ctx context.Context, writes []Write) error
}

// Apply escribe writes en s, en una sola operación si s es Batcher.
func Apply(ctx context.Context, s Store, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	if b, ok := s.(Batcher); ok {
		return b.ApplyBatch(ctx, writes)
	}
	for _, w := range writes {
		if err := s.Set(ctx, w.Key, w.Value); err != nil {
			return err
		}
	}
	return nil
}
