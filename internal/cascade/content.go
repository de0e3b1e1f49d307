package cascade

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/pagepurge/internal/blob"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/sirupsen/logrus"
)

// SlotCounter counts slots referencing a content row outside one revision.
type SlotCounter interface {
	CountOtherSlots(ctx context.Context, contentID int64, excludeRevID int64) (int64, error)
}

// Reachable reports whether any revision other than excludedRevID still has a
// slot pointing at contentID.
func Reachable(ctx context.Context, counter SlotCounter, contentID int64, excludedRevID int64) (bool, error) {
	n, err := counter.CountOtherSlots(ctx, contentID, excludedRevID)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// BlobDeleter removes the bytes behind a content address. External objects
// are returned for deletion after commit.
type BlobDeleter interface {
	Delete(ctx context.Context, tx store.ContentStore, address string) (*blob.Location, error)
}

// SlotResult accumulates what the slot cascade did.
type SlotResult struct {
	Slots          int64
	ContentDeleted int64
	ContentKept    int64
	Unmapped       int64
	External       []blob.Location
}

// SlotCascade deletes the slots of revisions and, when enabled, the content
// rows and bytes no other revision reaches.
type SlotCascade struct {
	blobs         BlobDeleter
	deleteContent bool
}

func NewSlotCascade(blobs BlobDeleter, deleteContent bool) *SlotCascade {
	return &SlotCascade{blobs: blobs, deleteContent: deleteContent}
}

// Revision handles every slot of rev, then drops the revision's slot rows.
// The slots go in any case; content goes only when unreachable.
func (c *SlotCascade) Revision(ctx context.Context, tx store.ContentStore, rev *model.RevisionRecord, res *SlotResult) error {
	if c.deleteContent {
		seen := mapset.NewThreadUnsafeSet[int64]()
		for _, slot := range rev.Slots {
			if !seen.Add(slot.ContentID) {
				continue
			}
			if err := c.content(ctx, tx, rev, slot, res); err != nil {
				return err
			}
		}
	} else {
		res.ContentKept += int64(len(rev.Slots))
	}

	n, err := tx.DeleteSlots(ctx, rev.ID)
	if err != nil {
		return fmt.Errorf("delete slots of revision %d: %w", rev.ID, err)
	}
	res.Slots += n

	return nil
}

func (c *SlotCascade) content(ctx context.Context, tx store.ContentStore, rev *model.RevisionRecord, slot *model.SlotRecord, res *SlotResult) error {
	reachable, err := Reachable(ctx, tx, slot.ContentID, rev.ID)
	if err != nil {
		return fmt.Errorf("check content %d: %w", slot.ContentID, err)
	}
	if reachable {
		res.ContentKept++
		return nil
	}

	if slot.Address != "" {
		loc, err := c.blobs.Delete(ctx, tx, slot.Address)
		switch {
		case errors.Is(err, blob.ErrAddressNotFound):
			res.Unmapped++
			logrus.WithFields(logrus.Fields{
				"content":  slot.ContentID,
				"revision": rev.ID,
			}).Warnf("content address %q maps to no storage location, treating bytes as absent", slot.Address)
		case err != nil:
			return fmt.Errorf("delete blob of content %d: %w", slot.ContentID, err)
		case loc != nil:
			res.External = append(res.External, *loc)
		}
	}

	n, err := tx.DeleteContent(ctx, slot.ContentID)
	if err != nil {
		return fmt.Errorf("delete content %d: %w", slot.ContentID, err)
	}
	res.ContentDeleted += n

	return nil
}
