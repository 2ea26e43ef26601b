// Package sqlite es el backend de archivo: lo usan el CLI y los tests que
// quieren un store persistente sin levantar Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"pet-market-engine/internal/storage/kv"
)

type KVStore struct {
	db *sql.DB
}

var (
	_ kv.Store   = (*KVStore)(nil)
	_ kv.Batcher = (*KVStore)(nil)
)

// Open abre (o crea) la base en path y aplica el schema.
func Open(path string) (*KVStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite admite un solo writer; el executor ya serializa las llamadas.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %q: %w", p, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_entries (
			key   BLOB PRIMARY KEY,
			value BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &KVStore{db: db}, nil
}

func (s *KVStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *KVStore) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("sqlite: get: %w", err)
	}
	return v, true, nil
}

const upsertSQL = `
	INSERT INTO kv_entries (key, value) VALUES (?, ?)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value
`

func (s *KVStore) Set(ctx context.Context, key, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, nonNil(value)); err != nil {
		return fmt.Errorf("sqlite: set: %w", err)
	}
	return nil
}

func (s *KVStore) ApplyBatch(ctx context.Context, writes []kv.Write) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, w := range writes {
		if _, err := tx.ExecContext(ctx, upsertSQL, w.Key, nonNil(w.Value)); err != nil {
			return fmt.Errorf("sqlite: batch set: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func (s *KVStore) Range(ctx context.Context, start, end []byte, fn func(key, value []byte) error) error {
	query, args := rangeQuery(start, end)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: range: %w", err)
	}

	type pair struct{ k, v []byte }
	out := make([]pair, 0)
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.k, &p.v); err != nil {
			rows.Close()
			return fmt.Errorf("sqlite: range scan: %w", err)
		}
		out = append(out, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return fmt.Errorf("sqlite: range: %w", err)
	}

	for _, p := range out {
		if err := fn(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// rangeQuery omite los límites ausentes en vez de comparar contra un blob vacío.
func rangeQuery(start, end []byte) (string, []any) {
	q := `SELECT key, value FROM kv_entries`
	var (
		conds []string
		args  []any
	)
	if len(start) > 0 {
		conds = append(conds, "key >= ?")
		args = append(args, start)
	}
	if end != nil {
		conds = append(conds, "key < ?")
		args = append(args, end)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	return q + " ORDER BY key ASC", args
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
