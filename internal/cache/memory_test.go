package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryExistenceCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryExistenceCache()

	_, ok, err := c.Lookup(ctx, 0, "Foo")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Remember(ctx, 0, "Foo", 42))
	require.NoError(t, c.Remember(ctx, 1, "Foo", 7))

	id, ok, err := c.Lookup(ctx, 0, "Foo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	require.NoError(t, c.Forget(ctx, 1, "Foo"))
	_, ok, err = c.Lookup(ctx, 1, "Foo")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Clear(ctx))

	_, ok, err = c.Lookup(ctx, 0, "Foo")
	require.NoError(t, err)
	assert.False(t, ok)
}
