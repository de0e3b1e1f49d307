package job

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/pagepurge/internal/blob"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/sirupsen/logrus"
)

// OrphanSweeper removes content rows that no slot references anymore,
// together with their blobs. Such rows are left behind by deletions that ran
// with content removal switched off.
type OrphanSweeper struct {
	store    store.Store
	blobs    *blob.Store
	interval time.Duration
	batch    int
	done     chan struct{}
}

// NewOrphanSweeper creates a new OrphanSweeper instance.
func NewOrphanSweeper(store store.Store, blobs *blob.Store, interval time.Duration, batch int) *OrphanSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if batch <= 0 {
		batch = 500
	}

	return &OrphanSweeper{
		store:    store,
		blobs:    blobs,
		interval: interval,
		batch:    batch,
		done:     make(chan struct{}),
	}
}

func (c *OrphanSweeper) Name() string {
	return "orphan-sweeper"
}

func (c *OrphanSweeper) Stop() {
	close(c.done)
}

func (c *OrphanSweeper) Run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			n, err := c.Sweep(context.Background())
			if err != nil {
				logrus.Errorf("sweep orphan content: %v", err)
				continue
			}
			if n > 0 {
				logrus.Infof("removed %d orphan content rows", n)
			}
		}
	}
}

// Sweep removes one batch of orphan content rows and returns how many were
// removed. Rows whose address cannot be mapped are removed without touching
// any bytes.
func (c *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	var (
		removed  int
		external []blob.Location
	)

	err := c.store.Transaction(ctx, func(tx store.Store) error {
		orphans, err := tx.ListOrphanContent(ctx, c.batch)
		if err != nil {
			return err
		}

		for _, content := range orphans {
			loc, err := c.blobs.Delete(ctx, tx, content.Address)
			switch {
			case err == nil:
			case errors.Is(err, blob.ErrAddressNotFound):
				logrus.Warnf("content %d has unmappable address %q", content.ID, content.Address)
			default:
				return err
			}
			if loc != nil {
				external = append(external, *loc)
			}

			n, err := tx.DeleteContent(ctx, content.ID)
			if err != nil {
				return err
			}
			removed += int(n)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := c.blobs.DeleteExternal(ctx, external); err != nil {
		logrus.Warnf("external blobs left behind: %v", err)
	}

	return removed, nil
}
