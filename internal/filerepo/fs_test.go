package filerepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSBackend(t *testing.T) {
	ctx := context.Background()

	backend, err := NewFSBackend(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, backend.Put(ctx, "public/a/ab/File.txt", []byte("data")))

	exists, err := backend.Exists(ctx, "public/a/ab/File.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, backend.Move(ctx, "public/a/ab/File.txt", "deleted/k/e/y/key.txt"))

	exists, err = backend.Exists(ctx, "public/a/ab/File.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	data, err := backend.Read(ctx, "deleted/k/e/y/key.txt")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, backend.Delete(ctx, []string{"deleted/k/e/y/key.txt", "missing"}))

	_, err = backend.Read(ctx, "deleted/k/e/y/key.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	assert.ErrorIs(t, backend.Move(ctx, "missing", "elsewhere"), ErrObjectNotFound)
}
