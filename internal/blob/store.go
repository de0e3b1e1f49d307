package blob

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/pagepurge/internal/compress"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/sirupsen/logrus"
)

// External deletes objects of an external blob store.
type External interface {
	// DeleteObjects removes keys from a bucket. Missing keys are not an error.
	DeleteObjects(ctx context.Context, bucket string, keys []string) error
}

// Store resolves content addresses and deletes the bytes behind them.
// Text rows are deleted through the caller's transaction; external objects
// are returned to the caller, to be deleted once the transaction commits.
type Store struct {
	external External
	codec    compress.Compress
}

func NewStore(external External, codec compress.Compress) *Store {
	if codec == nil {
		codec = compress.NewNop()
	}

	return &Store{external: external, codec: codec}
}

// Put writes data into a new text row and returns its address.
func (s *Store) Put(ctx context.Context, tx store.Store, data []byte) (string, error) {
	encoded, err := s.codec.Encode(data)
	if err != nil {
		return "", err
	}

	text := &model.Text{Text: encoded, Flags: compress.Flags(s.codec)}
	if err := tx.Create(ctx, text); err != nil {
		return "", err
	}

	return Location{Scheme: SchemeText, TextID: text.ID}.String(), nil
}

// Get reads and decodes the text row behind address.
func (s *Store) Get(ctx context.Context, tx store.ContentStore, address string) ([]byte, error) {
	loc, err := AddressToStorageLocation(address)
	if err != nil {
		return nil, err
	}
	if loc.External() {
		return nil, fmt.Errorf("read %s: %w", loc, errors.ErrUnsupported)
	}

	text, err := tx.GetText(ctx, loc.TextID)
	if err != nil {
		return nil, err
	}

	return compress.FromFlags(text.Flags).Decode(text.Text)
}

// Delete removes the bytes behind address. A text row is deleted at once and
// a nil location is returned; an external location is returned undeleted.
func (s *Store) Delete(ctx context.Context, tx store.ContentStore, address string) (*Location, error) {
	loc, err := AddressToStorageLocation(address)
	if err != nil {
		return nil, err
	}

	if loc.External() {
		return &loc, nil
	}

	n, err := tx.DeleteText(ctx, loc.TextID)
	if err != nil {
		return nil, fmt.Errorf("delete text row %d: %w", loc.TextID, err)
	}
	if n == 0 {
		logrus.Warnf("text row %d behind %q was already gone", loc.TextID, address)
	}

	return nil, nil
}

// DeleteExternal deletes external objects, grouped per bucket. Failures are
// logged and returned joined; callers treat them as best effort.
func (s *Store) DeleteExternal(ctx context.Context, locs []Location) error {
	if len(locs) == 0 {
		return nil
	}
	if s.external == nil {
		return ErrNoExternalStore
	}

	buckets := make(map[string]mapset.Set[string])
	for _, loc := range locs {
		if _, ok := buckets[loc.Bucket]; !ok {
			buckets[loc.Bucket] = mapset.NewSet[string]()
		}
		buckets[loc.Bucket].Add(loc.Key)
	}

	var errs []error
	for bucket, keys := range buckets {
		if err := s.external.DeleteObjects(ctx, bucket, keys.ToSlice()); err != nil {
			logrus.Errorf("delete external blobs from %s: %v", bucket, err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
