package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-market-engine/internal/storage/kv"
	"pet-market-engine/internal/storage/kv/kvtest"
)

// Corre sólo con TEST_DB_DSN apuntando a una base descartable.
func TestKVStore(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	kvtest.Run(t, func(t *testing.T) kv.Store {
		_, err := db.ExecContext(context.Background(), `TRUNCATE kv_entries`)
		require.NoError(t, err)
		return NewKVStore(db)
	})
}

func TestRangeQuery(t *testing.T) {
	q, args := rangeQuery(nil, nil)
	assert.Equal(t, "SELECT key, value FROM kv_entries ORDER BY key ASC", q)
	assert.Empty(t, args)

	q, args = rangeQuery([]byte("a"), []byte("b"))
	assert.Equal(t, "SELECT key, value FROM kv_entries WHERE key >= $1 AND key < $2 ORDER BY key ASC", q)
	assert.Len(t, args, 2)

	q, args = rangeQuery(nil, []byte("b"))
	assert.Equal(t, "SELECT key, value FROM kv_entries WHERE key < $1 ORDER BY key ASC", q)
	assert.Len(t, args, 1)
}
