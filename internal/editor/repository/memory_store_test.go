package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noder-app/noder-backend/internal/editor/domain"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := sampleSession()
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	got.Graph.Nodes[0].Title = "mutated"

	again, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Event BeginPlay", again.Graph.Nodes[0].Title)

	ids, err := store.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, ids)

	ok, _ := store.AcquireLock(ctx, "s-1", time.Minute)
	assert.True(t, ok)
	ok, _ = store.AcquireLock(ctx, "s-1", time.Minute)
	assert.False(t, ok)
	require.NoError(t, store.ReleaseLock(ctx, "s-1"))
	locked, _ := store.Locked(ctx, "s-1")
	assert.False(t, locked)

	require.NoError(t, store.Delete(ctx, "s-1"))
	_, err = store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStore_ImplementsStore(t *testing.T) {
	var _ Store = NewMemoryStore()
	var _ Store = (*RedisStore)(nil)
}
