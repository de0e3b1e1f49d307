package cascade

import (
	"context"
	"fmt"

	"github.com/emrgen/pagepurge/internal/model"
)

// KeySource selects which part of a page reference keys a delete.
type KeySource int

const (
	// ByPageID matches rows on one id column.
	ByPageID KeySource = iota
	// ByTitle matches rows on a (namespace, title) column pair.
	ByTitle
	// ByAssociatedTitle matches the title in the associated talk or subject
	// namespace. Pages without an associated namespace skip the delete.
	ByAssociatedTitle
)

// Conditions are the deployment facts some deletes depend on.
type Conditions struct {
	// SearchIndex is set when the searchindex table is maintained.
	SearchIndex bool
}

// DeleteSpec is one table scoped delete of a page's rows.
type DeleteSpec struct {
	// Name labels the delete in counts and logs.
	Name   string
	Table  any
	Source KeySource
	// IDColumn is used with ByPageID.
	IDColumn string
	// NamespaceColumn and TitleColumn are used with ByTitle and ByAssociatedTitle.
	NamespaceColumn string
	TitleColumn     string
	// When, if set, must hold for the delete to run.
	When func(Conditions) bool
}

// Match returns the row condition of the delete for ref. It reports false
// when the delete does not apply to ref.
func (s DeleteSpec) Match(ref model.PageRef, cond Conditions) (map[string]any, bool) {
	if s.When != nil && !s.When(cond) {
		return nil, false
	}

	switch s.Source {
	case ByPageID:
		if ref.ID == 0 {
			return nil, false
		}
		return map[string]any{s.IDColumn: ref.ID}, true
	case ByTitle:
		if !ref.HasKey() {
			return nil, false
		}
		return map[string]any{s.NamespaceColumn: ref.Namespace, s.TitleColumn: ref.Title}, true
	case ByAssociatedTitle:
		assoc, ok := model.Associated(ref.Namespace)
		if !ok || !ref.HasKey() {
			return nil, false
		}
		return map[string]any{s.NamespaceColumn: assoc, s.TitleColumn: ref.Title}, true
	default:
		return nil, false
	}
}

// Deleter deletes the rows of a table matching a condition.
type Deleter interface {
	DeleteWhere(ctx context.Context, table any, cond map[string]any) (int64, error)
}

// Counts holds removed rows per delete name.
type Counts map[string]int64

// Run executes the deletes in order. An empty match is not an error, so
// running a plan twice is a no-op the second time.
func Run(ctx context.Context, d Deleter, ref model.PageRef, cond Conditions, plan []DeleteSpec, counts Counts) error {
	for _, spec := range plan {
		match, ok := spec.Match(ref, cond)
		if !ok {
			continue
		}

		n, err := d.DeleteWhere(ctx, spec.Table, match)
		if err != nil {
			return fmt.Errorf("delete %s: %w", spec.Name, err)
		}

		if counts != nil {
			counts[spec.Name] += n
		}
	}

	return nil
}

func searchIndexMaintained(c Conditions) bool {
	return c.SearchIndex
}

// DirectPlan removes rows pointing at the page id, before the revisions go.
var DirectPlan = []DeleteSpec{
	{Name: "redirect", Table: &model.Redirect{}, Source: ByPageID, IDColumn: "rd_from"},
	{Name: "externallinks", Table: &model.ExternalLink{}, Source: ByPageID, IDColumn: "el_from"},
	{Name: "langlinks", Table: &model.LangLink{}, Source: ByPageID, IDColumn: "ll_from"},
	{Name: "searchindex", Table: &model.SearchIndex{}, Source: ByPageID, IDColumn: "si_page", When: searchIndexMaintained},
	{Name: "page_restrictions", Table: &model.PageRestriction{}, Source: ByPageID, IDColumn: "pr_page"},
	{Name: "pagelinks", Table: &model.PageLink{}, Source: ByPageID, IDColumn: "pl_from"},
	{Name: "categorylinks", Table: &model.CategoryLink{}, Source: ByPageID, IDColumn: "cl_from"},
	{Name: "templatelinks", Table: &model.TemplateLink{}, Source: ByPageID, IDColumn: "tl_from"},
}

// RevisionPlan removes the current revisions once their slots are handled.
var RevisionPlan = []DeleteSpec{
	{Name: "revision", Table: &model.Revision{}, Source: ByPageID, IDColumn: "rev_page"},
	{Name: "imagelinks", Table: &model.ImageLink{}, Source: ByPageID, IDColumn: "il_from"},
}

// IndirectPlan removes rows keyed by the page title rather than its id.
var IndirectPlan = []DeleteSpec{
	{Name: "recentchanges", Table: &model.RecentChange{}, Source: ByTitle, NamespaceColumn: "rc_namespace", TitleColumn: "rc_title"},
	{Name: "archive", Table: &model.Archive{}, Source: ByTitle, NamespaceColumn: "ar_namespace", TitleColumn: "ar_title"},
	{Name: "logging", Table: &model.LogEntry{}, Source: ByTitle, NamespaceColumn: "log_namespace", TitleColumn: "log_title"},
	{Name: "watchlist", Table: &model.Watchlist{}, Source: ByTitle, NamespaceColumn: "wl_namespace", TitleColumn: "wl_title"},
	{Name: "watchlist", Table: &model.Watchlist{}, Source: ByAssociatedTitle, NamespaceColumn: "wl_namespace", TitleColumn: "wl_title"},
}

// PagePlan removes the page row. It runs last.
var PagePlan = []DeleteSpec{
	{Name: "page", Table: &model.Page{}, Source: ByPageID, IDColumn: "page_id"},
}
