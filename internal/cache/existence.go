package cache

import (
	"context"
	"fmt"
)

// ExistenceCache maps page titles to the ids of pages seen under them.
type ExistenceCache interface {
	// Lookup returns the cached id of a title and whether it was cached.
	Lookup(ctx context.Context, ns int, title string) (int64, bool, error)
	// Remember caches the id of a title.
	Remember(ctx context.Context, ns int, title string, id int64) error
	// Forget drops the cached id of a title.
	Forget(ctx context.Context, ns int, title string) error
	// Clear drops every cached title.
	Clear(ctx context.Context) error
}

func titleKey(ns int, title string) string {
	return fmt.Sprintf("%d:%s", ns, title)
}
