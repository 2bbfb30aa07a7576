package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamnet/internal/cache"
)

func TestAdmin_ClearCaches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := seedUser(t, f, "Ada", "ada@example.com")

	// prime the simple view and the collection listing
	_, err := f.h.Users.GetByUID(ctx, ada)
	require.NoError(t, err)
	_, err = f.h.Users.ListAll(ctx)
	require.NoError(t, err)
	f.coord.Flush()

	exists, err := f.cache.Exists(ctx, cache.SimpleViewKey("user", ada))
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, f.h.Admin.ClearCaches(ctx))

	exists, err = f.cache.Exists(ctx, cache.SimpleViewKey("user", ada))
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = f.cache.Exists(ctx, cache.KeyUsers)
	require.NoError(t, err)
	assert.False(t, exists)

	// views rebuild on the next read
	view, err := f.h.Users.GetByUID(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.Name)
}
