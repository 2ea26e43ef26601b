package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"pet-market-engine/internal/storage/kv"
)

// Store es el backend en memoria: sirve para tests y modo dev (sin DB_DSN).
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var (
	_ kv.Store   = (*Store)(nil)
	_ kv.Batcher = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

func (s *Store) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[string(key)]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (s *Store) Set(ctx context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[string(key)] = clone(value)
	return nil
}

func (s *Store) ApplyBatch(ctx context.Context, writes []kv.Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		s.values[string(w.Key)] = clone(w.Value)
	}
	return nil
}

func (s *Store) Range(ctx context.Context, start, end []byte, fn func(key, value []byte) error) error {
	// Snapshot bajo lock; fn corre sin lock para que pueda leer el store.
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		kb := []byte(k)
		if start != nil && bytes.Compare(kb, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(kb, end) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	snapshot := make(map[string][]byte, len(keys))
	for _, k := range keys {
		snapshot[k] = clone(s.values[k])
	}
	s.mu.RUnlock()

	// Orden por bytes (string compara byte a byte)
	sort.Strings(keys)

	for _, k := range keys {
		if err := fn([]byte(k), snapshot[k]); err != nil {
			return err
		}
	}
	return nil
}

// Len devuelve la cantidad de claves (útil en tests).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
