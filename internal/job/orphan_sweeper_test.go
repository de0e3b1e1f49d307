package job

import (
	"context"
	"testing"

	"github.com/emrgen/pagepurge/internal/blob"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/emrgen/pagepurge/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrphanSweeper_Sweep(t *testing.T) {
	db := tester.Setup(t)
	fx := tester.NewFixture(t, db)
	ctx := context.Background()

	fx.Page(1, model.NamespaceMain, "Foo")
	used := fx.TextContent("used")
	fx.Revision(1, 1, used)
	fx.TextContent("orphan one")
	fx.TextContent("orphan two")
	fx.Content("bogus:address")

	sweeper := NewOrphanSweeper(store.NewGormStore(db), blob.NewStore(nil, nil), 0, 2)

	n, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, int64(1), tester.Count(t, db, &model.Content{}, nil))
	assert.Equal(t, int64(1), tester.Count(t, db, &model.Text{}, nil))
}
