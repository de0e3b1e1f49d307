package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/pagepurge/internal/jobs"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/sirupsen/logrus"
)

// CategoryCounter recomputes the member counts of category rows.
type CategoryCounter struct {
	store store.Store
}

func NewCategoryCounter(store store.Store) *CategoryCounter {
	return &CategoryCounter{store: store}
}

// Register binds the counter to category refresh tasks.
func (c *CategoryCounter) Register(registry *jobs.Registry) {
	registry.Register(jobs.TaskCategoryRefresh, c.handle)
}

func (c *CategoryCounter) handle(ctx context.Context, task *jobs.Task) error {
	return c.Refresh(ctx, task.Category)
}

// Refresh recounts the members of a category. An empty category without a
// category page loses its row.
func (c *CategoryCounter) Refresh(ctx context.Context, name string) error {
	return c.store.Transaction(ctx, func(tx store.Store) error {
		cat, err := tx.GetCategory(ctx, name)
		if err != nil {
			return fmt.Errorf("refresh category %q: %w", name, err)
		}

		counts, err := tx.CountCategoryMembers(ctx, name)
		if err != nil {
			return err
		}

		var total int64
		for _, n := range counts {
			total += n
		}

		if total == 0 {
			_, err := tx.GetPageByTitle(ctx, model.NamespaceCategory, name)
			if errors.Is(err, store.ErrPageNotFound) {
				logrus.Infof("removing empty category %q", name)
				return tx.DeleteCategory(ctx, cat.ID)
			}
			if err != nil {
				return err
			}
		}

		cat.Pages = total
		cat.Subcats = counts[model.CategoryLinkSubcat]
		cat.Files = counts[model.CategoryLinkFile]

		return tx.UpdateCategory(ctx, cat)
	})
}
