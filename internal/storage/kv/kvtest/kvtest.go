// Package kvtest tiene la batería común que corre contra cada backend kv.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-market-engine/internal/storage/kv"
)

// Run ejecuta la batería sobre stores recién creados por newStore.
func Run(t *testing.T, newStore func(t *testing.T) kv.Store) {
	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(context.Background(), []byte("nope"))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Set(ctx, []byte("k"), []byte("1")))
		require.NoError(t, s.Set(ctx, []byte("k"), []byte("2")))
		v, ok, err := s.Get(ctx, []byte("k"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "2", string(v))
	})

	t.Run("EmptyValue", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Set(ctx, []byte("k"), nil))
		v, ok, err := s.Get(ctx, []byte("k"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("RangeByteOrder", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		for _, k := range [][]byte{{0x02}, {0x00, 0x01}, {0xff}, {0x01}, {0x01, 0x00}} {
			require.NoError(t, s.Set(ctx, k, k))
		}

		var got [][]byte
		require.NoError(t, s.Range(ctx, []byte{0x01}, []byte{0xff}, func(k, _ []byte) error {
			got = append(got, append([]byte(nil), k...))
			return nil
		}))
		assert.Equal(t, [][]byte{{0x01}, {0x01, 0x00}, {0x02}}, got)

		got = nil
		require.NoError(t, s.Range(ctx, nil, nil, func(k, _ []byte) error {
			got = append(got, append([]byte(nil), k...))
			return nil
		}))
		assert.Len(t, got, 5)
	})

	t.Run("ApplyBatch", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		err := kv.Apply(ctx, s, []kv.Write{
			{Key: []byte("a"), Value: []byte("1")},
			{Key: []byte("b"), Value: []byte("2")},
			{Key: []byte("a"), Value: []byte("3")},
		})
		require.NoError(t, err)

		v, ok, err := s.Get(ctx, []byte("a"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "3", string(v))
		_, ok, err = s.Get(ctx, []byte("b"))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ScopedBuffer", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		buf := kv.NewBuffer(kv.Scope(s, []byte("contract"), []byte("secret1pet")))
		require.NoError(t, buf.Set(ctx, []byte("config"), []byte(`{"admin":"x"}`)))
		require.NoError(t, buf.Commit(ctx))

		ro := kv.ScopeRead(s, []byte("contract"), []byte("secret1pet"))
		v, ok, err := ro.Get(ctx, []byte("config"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `{"admin":"x"}`, string(v))

		other := kv.ScopeRead(s, []byte("contract"), []byte("secret1market"))
		_, ok, err = other.Get(ctx, []byte("config"))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
