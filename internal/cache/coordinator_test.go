package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_RefreshWritesKey(t *testing.T) {
	store := NewMemoryStore()
	coord := NewCoordinator(store)
	defer coord.Stop()

	coord.Refresh(KeyUsers, CollectionTTL, func(ctx context.Context) (interface{}, error) {
		return []string{"a", "b"}, nil
	})
	coord.Flush()

	var got []string
	found, err := store.GetJSON(context.Background(), KeyUsers, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, int64(0), coord.Failures())
}

func TestCoordinator_RetriesBeforeSucceeding(t *testing.T) {
	store := NewMemoryStore()
	coord := NewCoordinator(store)
	defer coord.Stop()

	var calls atomic.Int64
	coord.Refresh(KeyStacks, CollectionTTL, func(ctx context.Context) (interface{}, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	})
	coord.Flush()

	assert.Equal(t, int64(3), calls.Load())
	assert.Equal(t, int64(0), coord.Failures())

	var got string
	found, err := store.GetJSON(context.Background(), KeyStacks, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ok", got)
}

func TestCoordinator_CountsExhaustedRefreshes(t *testing.T) {
	store := NewMemoryStore()
	coord := NewCoordinator(store)
	defer coord.Stop()

	var calls atomic.Int64
	coord.Refresh(KeyCompanies, CollectionTTL, func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return nil, errors.New("down")
	})
	coord.Flush()

	assert.Equal(t, int64(refreshAttempts), calls.Load())
	assert.Equal(t, int64(1), coord.Failures())

	found, err := store.Exists(context.Background(), KeyCompanies)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCoordinator_RefreshAfterStopIsDropped(t *testing.T) {
	store := NewMemoryStore()
	coord := NewCoordinator(store)
	coord.Stop()

	coord.Refresh(KeyUsers, CollectionTTL, func(ctx context.Context) (interface{}, error) {
		t.Fatal("build should not run after Stop")
		return nil, nil
	})
	coord.Flush()

	found, err := store.Exists(context.Background(), KeyUsers)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_TTLExpires(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, "ephemeral", 1, 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	found, err := store.Exists(ctx, "ephemeral")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSimpleViewKey(t *testing.T) {
	assert.Equal(t, "user_abc_simple_dict", SimpleViewKey("user", "abc"))
	assert.Equal(t, "post_p1_simple_dict", SimpleViewKey("post", "p1"))
}
