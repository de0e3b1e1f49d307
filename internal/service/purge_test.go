package service

import (
	"context"
	"testing"

	"github.com/emrgen/pagepurge/internal/filerepo"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeService_DeletePermanently(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(42, model.NamespaceMain, "Foo")
	c1 := e.fx.TextContent("first")
	e.fx.Revision(1, 42, c1)
	e.fx.Revision(2, 42, c1)
	e.fx.Links(page)
	e.fx.History(model.NamespaceMain, "Foo", 5)
	e.fx.Category(page, "Fruit", model.CategoryLinkPage)
	e.fx.Category(page, "Yellow", model.CategoryLinkPage)

	svc := e.service(defaultOptions(), nil)
	report, err := svc.DeletePermanently(ctx, page.Ref(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Revisions)
	assert.Equal(t, int64(1), report.ContentDeleted)
	assert.Equal(t, int64(2), report.Rows["revision"])
	assert.Equal(t, int64(2), report.Rows["slots"])
	assert.Equal(t, int64(2), report.Rows["watchlist"])
	assert.Equal(t, []string{"Fruit", "Yellow"}, report.Categories)
	assert.Equal(t, []string{"Fruit", "Yellow"}, e.scheduler.categories())

	byID := map[any]map[string]any{
		&model.Revision{}:        {"rev_page": 42},
		&model.Redirect{}:        {"rd_from": 42},
		&model.ExternalLink{}:    {"el_from": 42},
		&model.LangLink{}:        {"ll_from": 42},
		&model.PageRestriction{}: {"pr_page": 42},
		&model.PageLink{}:        {"pl_from": 42},
		&model.CategoryLink{}:    {"cl_from": 42},
		&model.TemplateLink{}:    {"tl_from": 42},
		&model.ImageLink{}:       {"il_from": 42},
		&model.Page{}:            {"page_id": 42},
		&model.Slot{}:            {"slot_revision_id": []int64{1, 2}},
		&model.Content{}:         {"content_id": c1.ID},
		&model.Text{}:            {},
		&model.RecentChange{}:    {"rc_namespace": 0, "rc_title": "Foo"},
		&model.LogEntry{}:        {"log_namespace": 0, "log_title": "Foo"},
		&model.Watchlist{}:       {"wl_title": "Foo"},
	}
	for table, cond := range byID {
		assert.Zero(t, countRows(t, e, table, cond), "%T", table)
	}

	// the search index is not maintained by default
	assert.Equal(t, int64(1), countRows(t, e, &model.SearchIndex{}, map[string]any{"si_page": 42}))

	// the title now resolves to nothing
	ok, err := svc.IsDeletable(ctx, model.NamespaceMain, "Foo")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPurgeService_SharedContentSurvives(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(42, model.NamespaceMain, "Foo")
	e.fx.Page(99, model.NamespaceMain, "Bar")
	c1 := e.fx.TextContent("shared")
	e.fx.Revision(1, 42, c1)
	e.fx.Revision(2, 42, c1)
	e.fx.Revision(3, 99, c1)

	report, err := e.service(defaultOptions(), nil).DeletePermanently(ctx, page.Ref(), nil)
	require.NoError(t, err)

	assert.Zero(t, report.ContentDeleted)
	assert.Equal(t, int64(1), countRows(t, e, &model.Content{}, map[string]any{"content_id": c1.ID}))
	assert.Equal(t, int64(1), countRows(t, e, &model.Text{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.Slot{}, map[string]any{"slot_revision_id": []int64{1, 2}}))
	assert.Equal(t, int64(1), countRows(t, e, &model.Slot{}, map[string]any{"slot_revision_id": 3}))
	assert.Equal(t, int64(1), countRows(t, e, &model.Page{}, map[string]any{"page_id": 99}))
}

func TestPurgeService_ContentSwitchOff(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(42, model.NamespaceMain, "Foo")
	c1 := e.fx.TextContent("kept")
	e.fx.Revision(1, 42, c1)

	opts := defaultOptions()
	opts.DeleteContent = false

	report, err := e.service(opts, nil).DeletePermanently(ctx, page.Ref(), nil)
	require.NoError(t, err)

	assert.Zero(t, report.ContentDeleted)
	assert.Equal(t, int64(1), countRows(t, e, &model.Content{}, map[string]any{"content_id": c1.ID}))
	assert.Equal(t, int64(1), countRows(t, e, &model.Text{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.Slot{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.Revision{}, map[string]any{}))
}

func TestPurgeService_ArchivedRevisions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(42, model.NamespaceMain, "Foo")
	live := e.fx.TextContent("live")
	old := e.fx.TextContent("archived")
	e.fx.Revision(5, 42, live)
	e.fx.ArchivedRevision(3, model.NamespaceMain, "Foo", old)
	e.fx.ArchivedRevision(4, model.NamespaceMain, "Foo", live)

	report, err := e.service(defaultOptions(), nil).DeletePermanently(ctx, page.Ref(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Revisions)
	assert.Equal(t, 2, report.ArchivedRevisions)
	assert.Equal(t, int64(2), report.ContentDeleted)
	assert.Equal(t, int64(2), report.Rows["archive"])
	assert.Zero(t, countRows(t, e, &model.Content{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.Text{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.Slot{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.Archive{}, map[string]any{}))
}

func TestPurgeService_SearchIndex(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(42, model.NamespaceMain, "Foo")
	e.fx.Links(page)

	opts := defaultOptions()
	opts.SearchIndex = true

	_, err := e.service(opts, nil).DeletePermanently(ctx, page.Ref(), nil)
	require.NoError(t, err)
	assert.Zero(t, countRows(t, e, &model.SearchIndex{}, map[string]any{}))
}

func TestPurgeService_FilePage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(7, model.NamespaceFile, "Logo.png")
	e.fx.Revision(1, 7, e.fx.TextContent("file description"))

	repo := filerepo.New(e.backend)
	_, res := repo.Upload(ctx, e.store, "Logo.png", []byte("v1"), 1)
	require.True(t, res.IsOK())
	_, res = repo.Upload(ctx, e.store, "Logo.png", []byte("v2"), 1)
	require.True(t, res.IsOK())

	// an earlier deletion of the same name left an archived version
	require.NoError(t, e.backend.Put(ctx, filerepo.DeletedPath("old.png"), []byte("v0")))
	e.fx.FileArchive("Logo.png", "old.png")

	require.NoError(t, e.cache.Remember(ctx, model.NamespaceMain, "Other", 3))

	report, err := e.service(defaultOptions(), repo).DeletePermanently(ctx, page.Ref(), &model.Actor{ID: 9, Name: "Admin"})
	require.NoError(t, err)

	assert.Equal(t, filerepo.StatusOK.String(), report.FileStatus)
	assert.Len(t, report.FileKeysCleaned, 3)
	assert.Equal(t, int64(3), report.Rows["filearchive"])

	assert.Empty(t, e.backend.Paths())
	assert.Zero(t, countRows(t, e, &model.Image{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.OldImage{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.FileArchive{}, map[string]any{}))

	_, ok, err := e.cache.Lookup(ctx, model.NamespaceMain, "Other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPurgeService_FileKeySharedWithOtherFile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(7, model.NamespaceFile, "Logo.png")
	require.NoError(t, e.backend.Put(ctx, filerepo.DeletedPath("same.png"), []byte("bytes")))
	e.fx.FileArchive("Logo.png", "same.png")
	e.fx.FileArchive("Copy.png", "same.png")

	report, err := e.service(defaultOptions(), nil).DeletePermanently(ctx, page.Ref(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.FileKeysCleaned)
	assert.Equal(t, []string{filerepo.DeletedPath("same.png")}, e.backend.Paths())
	assert.Equal(t, int64(1), countRows(t, e, &model.FileArchive{}, map[string]any{"fa_name": "Copy.png"}))
}

func TestPurgeService_RollbackOnFileFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(7, model.NamespaceFile, "Logo.png")
	c1 := e.fx.TextContent("description")
	e.fx.Revision(1, 7, c1)
	e.fx.Links(page)
	e.fx.History(model.NamespaceFile, "Logo.png", 5)
	e.fx.Category(page, "Images", model.CategoryLinkFile)
	e.fx.Image("Logo.png", "abc")
	e.fx.FileArchive("Logo.png", "abc.png")

	_, err := e.service(defaultOptions(), &failingRepo{}).DeletePermanently(ctx, page.Ref(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeletionIncomplete)
	assert.ErrorIs(t, err, ErrFileDeletion)

	for table, want := range map[any]int64{
		&model.Page{}:         1,
		&model.Revision{}:     1,
		&model.Slot{}:         1,
		&model.Content{}:      1,
		&model.Text{}:         1,
		&model.Redirect{}:     1,
		&model.CategoryLink{}: 1,
		&model.ImageLink{}:    1,
		&model.Watchlist{}:    2,
		&model.RecentChange{}: 1,
		&model.Image{}:        1,
		&model.FileArchive{}:  1,
	} {
		assert.Equal(t, want, countRows(t, e, table, map[string]any{}), "%T", table)
	}

	assert.Empty(t, e.scheduler.categories())
}

func TestPurgeService_ReadOnlyRepository(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(7, model.NamespaceFile, "Logo.png")
	e.fx.Image("Logo.png", "abc")
	e.fx.OldImage("Logo.png", "20230101000000!Logo.png", "def")
	e.fx.FileArchive("Logo.png", "ghi.png")
	require.NoError(t, e.backend.Put(ctx, filerepo.DeletedPath("ghi.png"), []byte("x")))

	repo := filerepo.New(e.backend, filerepo.WithReadOnly(true))
	report, err := e.service(defaultOptions(), repo).DeletePermanently(ctx, page.Ref(), nil)
	require.NoError(t, err)

	assert.Equal(t, filerepo.StatusNotWritable.String(), report.FileStatus)
	assert.Empty(t, report.FileKeysCleaned)
	assert.Zero(t, countRows(t, e, &model.Page{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.Image{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.OldImage{}, map[string]any{}))
	assert.Zero(t, countRows(t, e, &model.FileArchive{}, map[string]any{}))

	// bytes are left for a later cleanup
	assert.Equal(t, []string{filerepo.DeletedPath("ghi.png")}, e.backend.Paths())
}

func TestPurgeService_IsDeletable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.fx.Page(42, model.NamespaceMain, "Foo")
	e.fx.Page(43, model.NamespaceUser, "Someone")
	e.fx.Page(44, model.NamespaceMain, "Two_words")

	svc := e.service(defaultOptions(), nil)

	tests := []struct {
		name  string
		ns    int
		title string
		want  bool
	}{
		{name: "eligible page", ns: model.NamespaceMain, title: "Foo", want: true},
		{name: "display title", ns: model.NamespaceMain, title: "Two words", want: true},
		{name: "missing page", ns: model.NamespaceMain, title: "Nope"},
		{name: "empty title", ns: model.NamespaceMain, title: " "},
		{name: "special namespace", ns: model.NamespaceSpecial, title: "Foo"},
		{name: "ineligible namespace", ns: model.NamespaceUser, title: "Someone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsDeletable(ctx, tt.ns, tt.title)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	id, ok, err := e.cache.Lookup(ctx, model.NamespaceMain, "Foo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestPurgeService_OptionsAreCopied(t *testing.T) {
	e := newEnv(t)

	opts := defaultOptions()
	svc := e.service(opts, nil)
	opts.Namespaces[2] = true

	assert.False(t, svc.Options().Eligible(2))
	assert.Equal(t, DefaultReason, svc.Options().Reason)
}

func TestPurgeService_Submit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.fx.Page(42, model.NamespaceMain, "Foo")
	e.fx.User(1, "Admin", "sysop")
	e.fx.User(2, "Editor")

	svc := e.service(defaultOptions(), nil)

	_, err := svc.Submit(ctx, "Nobody", model.NamespaceMain, "Foo")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Submit(ctx, "Editor", model.NamespaceMain, "Foo")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Submit(ctx, "Admin", model.NamespaceUser, "Foo")
	assert.ErrorIs(t, err, ErrNotDeletable)

	report, err := svc.Submit(ctx, "Admin", model.NamespaceMain, "Foo")
	require.NoError(t, err)
	assert.Equal(t, int64(42), report.Page.ID)
	assert.Zero(t, countRows(t, e, &model.Page{}, map[string]any{}))
}

func movePage(t *testing.T, e *env, id int64, title string) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Page{}).Where("page_id = ?", id).Update("page_title", title).Error)
}

func TestPurgeService_SubmitAfterMove(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.fx.Page(42, model.NamespaceMain, "Foo")
	e.fx.Revision(1, 42, e.fx.TextContent("article"))
	e.fx.User(1, "Admin", "sysop")

	svc := e.service(defaultOptions(), nil)

	ok, err := svc.IsDeletable(ctx, model.NamespaceMain, "Foo")
	require.NoError(t, err)
	require.True(t, ok)

	// the article moves away and a redirect takes its old title
	movePage(t, e, 42, "Bar")
	e.fx.Page(43, model.NamespaceMain, "Foo")

	report, err := svc.Submit(ctx, "Admin", model.NamespaceMain, "Foo")
	require.NoError(t, err)
	assert.Equal(t, int64(43), report.Page.ID)

	assert.Equal(t, int64(1), countRows(t, e, &model.Page{}, map[string]any{"page_id": 42}))
	assert.Equal(t, int64(1), countRows(t, e, &model.Revision{}, map[string]any{"rev_page": 42}))
	assert.Zero(t, countRows(t, e, &model.Page{}, map[string]any{"page_id": 43}))
}

func TestPurgeService_RefusesStaleRef(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(42, model.NamespaceMain, "Foo")
	e.fx.Revision(1, 42, e.fx.TextContent("article"))
	ref := page.Ref()

	movePage(t, e, 42, "Bar")
	svc := e.service(defaultOptions(), nil)

	_, err := svc.DeletePermanently(ctx, ref, nil)
	assert.ErrorIs(t, err, ErrNotDeletable)
	assert.NotErrorIs(t, err, ErrDeletionIncomplete)

	e.fx.Page(43, model.NamespaceMain, "Foo")
	_, err = svc.DeletePermanently(ctx, ref, nil)
	assert.ErrorIs(t, err, ErrNotDeletable)

	assert.Equal(t, int64(2), countRows(t, e, &model.Page{}, map[string]any{}))
	assert.Equal(t, int64(1), countRows(t, e, &model.Revision{}, map[string]any{}))
}

func TestPurgeService_RecreatedPageIsDeletable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page := e.fx.Page(42, model.NamespaceMain, "Foo")
	svc := e.service(defaultOptions(), nil)

	ok, err := svc.IsDeletable(ctx, model.NamespaceMain, "Foo")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.DeletePermanently(ctx, page.Ref(), nil)
	require.NoError(t, err)

	ok, err = svc.IsDeletable(ctx, model.NamespaceMain, "Foo")
	require.NoError(t, err)
	assert.False(t, ok)

	e.fx.Page(50, model.NamespaceMain, "Foo")

	ok, err = svc.IsDeletable(ctx, model.NamespaceMain, "Foo")
	require.NoError(t, err)
	assert.True(t, ok)

	ref, err := svc.Resolve(ctx, model.NamespaceMain, "Foo")
	require.NoError(t, err)
	assert.Equal(t, int64(50), ref.ID)
}

func TestPurgeService_RefusesIncompleteRef(t *testing.T) {
	e := newEnv(t)

	_, err := e.service(defaultOptions(), nil).DeletePermanently(context.Background(), model.PageRef{Title: "Foo"}, nil)
	assert.ErrorIs(t, err, ErrNotDeletable)
}

func countRows(t *testing.T, e *env, table any, cond map[string]any) int64 {
	t.Helper()

	var count int64
	query := e.db.Model(table)
	if len(cond) > 0 {
		query = query.Where(cond)
	}
	require.NoError(t, query.Count(&count).Error)
	return count
}
