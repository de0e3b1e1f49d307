package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/emrgen/pagepurge/internal/compress"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/emrgen/pagepurge/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExternal struct {
	deleted map[string][]string
	err     error
}

func (r *recordingExternal) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	if r.deleted == nil {
		r.deleted = make(map[string][]string)
	}
	r.deleted[bucket] = append(r.deleted[bucket], keys...)
	return r.err
}

func TestStore_PutGetDelete(t *testing.T) {
	db := tester.Setup(t)
	gs := store.NewGormStore(db)
	ctx := context.Background()

	blobs := NewStore(nil, compress.NewGZip())

	address, err := blobs.Put(ctx, gs, []byte("hello wiki"))
	require.NoError(t, err)

	data, err := blobs.Get(ctx, gs, address)
	require.NoError(t, err)
	assert.Equal(t, "hello wiki", string(data))

	loc, err := blobs.Delete(ctx, gs, address)
	require.NoError(t, err)
	assert.Nil(t, loc)
	assert.Zero(t, tester.Count(t, db, &model.Text{}, map[string]any{}))

	// deleting again is a no-op
	loc, err = blobs.Delete(ctx, gs, address)
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestStore_DeleteExternalDeferred(t *testing.T) {
	db := tester.Setup(t)
	gs := store.NewGormStore(db)
	ctx := context.Background()

	external := &recordingExternal{}
	blobs := NewStore(external, nil)

	loc, err := blobs.Delete(ctx, gs, "es:s3://blobs/a/1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Empty(t, external.deleted)

	require.NoError(t, blobs.DeleteExternal(ctx, []Location{*loc, *loc}))
	assert.Equal(t, []string{"a/1"}, external.deleted["blobs"])
}

func TestStore_DeleteUnmappable(t *testing.T) {
	blobs := NewStore(nil, nil)

	_, err := blobs.Delete(context.Background(), nil, "bad:1")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestStore_DeleteExternalErrors(t *testing.T) {
	ctx := context.Background()
	locs := []Location{{Scheme: SchemeExternal, Bucket: "b", Key: "k"}}

	assert.ErrorIs(t, NewStore(nil, nil).DeleteExternal(ctx, locs), ErrNoExternalStore)

	failing := &recordingExternal{err: errors.New("boom")}
	assert.Error(t, NewStore(failing, nil).DeleteExternal(ctx, locs))
	assert.NoError(t, NewStore(nil, nil).DeleteExternal(ctx, nil))
}
