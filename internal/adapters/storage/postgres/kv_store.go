package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pet-market-engine/internal/storage/kv"
)

// KVStore guarda el namespace de los contratos en la tabla kv_entries.
// bytea compara byte a byte, así que ORDER BY key respeta el orden de kv.Reader.
type KVStore struct {
	db *sql.DB
}

var (
	_ kv.Store   = (*KVStore)(nil)
	_ kv.Batcher = (*KVStore)(nil)
)

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("postgres: get: %w", err)
	}
	return v, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, nonNil(value)); err != nil {
		return fmt.Errorf("postgres: set: %w", err)
	}
	return nil
}

const upsertSQL = `
	INSERT INTO kv_entries (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
`

// ApplyBatch escribe todo en una transacción: o entra la llamada completa o nada.
func (s *KVStore) ApplyBatch(ctx context.Context, writes []kv.Write) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("postgres: prepare: %w", err)
	}
	defer stmt.Close()

	for _, w := range writes {
		if _, err := stmt.ExecContext(ctx, w.Key, nonNil(w.Value)); err != nil {
			return fmt.Errorf("postgres: batch set: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (s *KVStore) Range(ctx context.Context, start, end []byte, fn func(key, value []byte) error) error {
	query, args := rangeQuery(start, end)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: range: %w", err)
	}
	defer rows.Close()

	// Primero leemos todo: fn puede volver a consultar el store.
	type pair struct{ k, v []byte }
	out := make([]pair, 0)
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.k, &p.v); err != nil {
			return fmt.Errorf("postgres: range scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres: range: %w", err)
	}
	rows.Close()

	for _, p := range out {
		if err := fn(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

func rangeQuery(start, end []byte) (string, []any) {
	q := `SELECT key, value FROM kv_entries`
	var (
		conds []string
		args  []any
	)
	if len(start) > 0 {
		args = append(args, start)
		conds = append(conds, fmt.Sprintf("key >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, end)
		conds = append(conds, fmt.Sprintf("key < $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	return q + " ORDER BY key ASC", args
}

// bytea NOT NULL: pgx manda nil como NULL, así que normalizamos a vacío.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
