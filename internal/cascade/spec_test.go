package cascade

import (
	"context"
	"testing"

	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/emrgen/pagepurge/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteSpec_Match(t *testing.T) {
	ref := model.PageRef{ID: 42, Namespace: model.NamespaceMain, Title: "Foo"}

	tests := []struct {
		name   string
		spec   DeleteSpec
		ref    model.PageRef
		cond   Conditions
		want   map[string]any
		wantOk bool
	}{
		{
			name:   "by id",
			spec:   DeleteSpec{Source: ByPageID, IDColumn: "rd_from"},
			ref:    ref,
			want:   map[string]any{"rd_from": int64(42)},
			wantOk: true,
		},
		{
			name: "by id without id",
			spec: DeleteSpec{Source: ByPageID, IDColumn: "rd_from"},
			ref:  model.PageRef{Title: "Foo"},
		},
		{
			name:   "by title",
			spec:   DeleteSpec{Source: ByTitle, NamespaceColumn: "wl_namespace", TitleColumn: "wl_title"},
			ref:    ref,
			want:   map[string]any{"wl_namespace": 0, "wl_title": "Foo"},
			wantOk: true,
		},
		{
			name:   "associated talk",
			spec:   DeleteSpec{Source: ByAssociatedTitle, NamespaceColumn: "wl_namespace", TitleColumn: "wl_title"},
			ref:    ref,
			want:   map[string]any{"wl_namespace": 1, "wl_title": "Foo"},
			wantOk: true,
		},
		{
			name:   "associated subject",
			spec:   DeleteSpec{Source: ByAssociatedTitle, NamespaceColumn: "wl_namespace", TitleColumn: "wl_title"},
			ref:    model.PageRef{ID: 1, Namespace: model.NamespaceFileTalk, Title: "Logo.png"},
			want:   map[string]any{"wl_namespace": 6, "wl_title": "Logo.png"},
			wantOk: true,
		},
		{
			name: "no associated namespace",
			spec: DeleteSpec{Source: ByAssociatedTitle, NamespaceColumn: "wl_namespace", TitleColumn: "wl_title"},
			ref:  model.PageRef{ID: 1, Namespace: model.NamespaceMedia, Title: "Foo"},
		},
		{
			name: "condition off",
			spec: DeleteSpec{Source: ByPageID, IDColumn: "si_page", When: searchIndexMaintained},
			ref:  ref,
		},
		{
			name:   "condition on",
			spec:   DeleteSpec{Source: ByPageID, IDColumn: "si_page", When: searchIndexMaintained},
			ref:    ref,
			cond:   Conditions{SearchIndex: true},
			want:   map[string]any{"si_page": int64(42)},
			wantOk: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.spec.Match(tt.ref, tt.cond)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRun_DirectAndIndirect(t *testing.T) {
	db := tester.Setup(t)
	fx := tester.NewFixture(t, db)
	gs := store.NewGormStore(db)
	ctx := context.Background()

	page := fx.Page(42, model.NamespaceMain, "Foo")
	other := fx.Page(99, model.NamespaceMain, "Bar")
	fx.Links(page)
	fx.Links(other)
	fx.History(model.NamespaceMain, "Foo", 5)
	fx.History(model.NamespaceMain, "Bar", 5)

	counts := Counts{}
	plans := [][]DeleteSpec{DirectPlan, RevisionPlan, IndirectPlan, PagePlan}
	for _, plan := range plans {
		require.NoError(t, Run(ctx, gs, page.Ref(), Conditions{SearchIndex: true}, plan, counts))
	}

	assert.Equal(t, int64(1), counts["redirect"])
	assert.Equal(t, int64(1), counts["searchindex"])
	assert.Equal(t, int64(1), counts["imagelinks"])
	assert.Equal(t, int64(2), counts["watchlist"])
	assert.Equal(t, int64(1), counts["page"])

	for _, table := range []any{&model.Redirect{}, &model.ExternalLink{}, &model.LangLink{}, &model.SearchIndex{},
		&model.PageRestriction{}, &model.PageLink{}, &model.TemplateLink{}, &model.ImageLink{}} {
		var total int64
		require.NoError(t, db.Model(table).Count(&total).Error)
		assert.Equal(t, int64(1), total, "%T rows of the other page must survive", table)
	}

	assert.Zero(t, tester.Count(t, db, &model.Watchlist{}, map[string]any{"wl_title": "Foo"}))
	assert.Equal(t, int64(2), tester.Count(t, db, &model.Watchlist{}, map[string]any{"wl_title": "Bar"}))
	assert.Zero(t, tester.Count(t, db, &model.RecentChange{}, map[string]any{"rc_title": "Foo"}))
	assert.Zero(t, tester.Count(t, db, &model.LogEntry{}, map[string]any{"log_title": "Foo"}))
	assert.Zero(t, tester.Count(t, db, &model.Page{}, map[string]any{"page_id": 42}))

	// a second pass finds nothing and does not fail
	again := Counts{}
	for _, plan := range plans {
		require.NoError(t, Run(ctx, gs, page.Ref(), Conditions{SearchIndex: true}, plan, again))
	}
	for name, n := range again {
		assert.Zero(t, n, name)
	}
}

func TestRun_SearchIndexKeptWhenNotMaintained(t *testing.T) {
	db := tester.Setup(t)
	fx := tester.NewFixture(t, db)
	gs := store.NewGormStore(db)

	page := fx.Page(42, model.NamespaceMain, "Foo")
	fx.Links(page)

	require.NoError(t, Run(context.Background(), gs, page.Ref(), Conditions{}, DirectPlan, nil))
	assert.Equal(t, int64(1), tester.Count(t, db, &model.SearchIndex{}, map[string]any{"si_page": 42}))
	assert.Zero(t, tester.Count(t, db, &model.Redirect{}, map[string]any{"rd_from": 42}))
}
