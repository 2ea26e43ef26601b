package pets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "pet-market-engine/internal/adapters/storage/memory"
	"pet-market-engine/internal/platform/apperr"
)

func seedPets(t *testing.T, reg Registry, owner string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		id, err := reg.NextID(ctx, owner)
		require.NoError(t, err)
		require.NoError(t, reg.AppendPet(ctx, owner, Pet{
			ID:                  id,
			Name:                fmt.Sprintf("pet-%d", id),
			AllowedFeedTimespan: 10,
			TotalSaturationTime: 20,
			LifeState:           LifeAlive,
		}))
	}
}

func TestRegistry_EmptyOwner(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(mem.NewStore())

	items, total, err := reg.GetPets(ctx, "secret1nobody", 0, 30)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Equal(t, uint64(0), total)

	_, err = reg.GetPet(ctx, "secret1nobody", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = reg.UpdatePet(ctx, "secret1nobody", 1, Pet{ID: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRegistry_IDsFollowCreationOrder(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(mem.NewStore())

	seedPets(t, reg, "alice", 3)
	seedPets(t, reg, "bob", 1)

	for id := uint64(1); id <= 3; id++ {
		p, err := reg.GetPet(ctx, "alice", id)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("pet-%d", id), p.Name)
	}

	p, err := reg.GetPet(ctx, "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), p.ID)

	_, err = reg.GetPet(ctx, "bob", 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	next, err := reg.NextID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), next)
}

func TestRegistry_Pagination(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(mem.NewStore())
	seedPets(t, reg, "alice", 35)

	first, total, err := reg.GetPets(ctx, "alice", 0, 30)
	require.NoError(t, err)
	assert.Equal(t, uint64(35), total)
	require.Len(t, first, 30)
	assert.Equal(t, uint64(35), first[0].ID)
	assert.Equal(t, uint64(6), first[29].ID)

	second, total, err := reg.GetPets(ctx, "alice", 1, 30)
	require.NoError(t, err)
	assert.Equal(t, uint64(35), total)
	require.Len(t, second, 5)
	assert.Equal(t, []uint64{5, 4, 3, 2, 1}, ids(second))

	empty, total, err := reg.GetPets(ctx, "alice", 2, 30)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, uint64(35), total)

	// page*page_size enorme no desborda
	huge, _, err := reg.GetPets(ctx, "alice", ^uint32(0), ^uint32(0))
	require.NoError(t, err)
	assert.Empty(t, huge)
}

func TestRegistry_UpdatePet(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(mem.NewStore())
	seedPets(t, reg, "alice", 3)

	p, err := reg.GetPet(ctx, "alice", 2)
	require.NoError(t, err)
	p.LastFed = 99
	require.NoError(t, reg.UpdatePet(ctx, "alice", 2, p))

	got, err := reg.GetPet(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), got.LastFed)

	// el orden no cambia
	items, total, err := reg.GetPets(ctx, "alice", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Equal(t, []uint64{3, 2, 1}, ids(items))

	err = reg.UpdatePet(ctx, "alice", 7, p)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRegistry_ReadOnly(t *testing.T) {
	ctx := context.Background()
	store := mem.NewStore()
	seedPets(t, NewRegistry(store), "alice", 1)

	ro := ReadRegistry(store)
	_, err := ro.GetPet(ctx, "alice", 1)
	require.NoError(t, err)

	err = ro.AppendPet(ctx, "alice", Pet{ID: 2})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func ids(ps []Pet) []uint64 {
	out := make([]uint64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
