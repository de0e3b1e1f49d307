package filerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "20060102150405"

// Repo is the binary repository holding uploaded files. Object writes are not
// covered by the caller's transaction and cannot be rolled back.
type Repo struct {
	backend  Backend
	readOnly bool
	now      func() time.Time
}

type Option func(*Repo)

// WithReadOnly makes every write return StatusNotWritable.
func WithReadOnly(readOnly bool) Option {
	return func(r *Repo) {
		r.readOnly = readOnly
	}
}

// WithClock overrides the clock used for archive timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) {
		r.now = now
	}
}

func New(backend Backend, opts ...Option) *Repo {
	r := &Repo{backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repo) ReadOnly() bool {
	return r.readOnly
}

func (r *Repo) timestamp() string {
	return r.now().UTC().Format(timestampFormat)
}

// Exists reports whether an object is stored at path.
func (r *Repo) Exists(ctx context.Context, path string) (bool, error) {
	return r.backend.Exists(ctx, path)
}

// Upload stores data as the current version of name. A previous current
// version is moved to the archive zone and recorded as an oldimage row.
func (r *Repo) Upload(ctx context.Context, tx store.Store, name string, data []byte, actor int64) (*model.Image, Result) {
	if r.readOnly {
		return nil, NotWritable()
	}

	ts := r.timestamp()

	prev, err := tx.GetImage(ctx, name)
	switch {
	case err == nil:
		archiveName := ts + "!" + name
		if err := r.backend.Move(ctx, PublicPath(name), ArchivePath(name, archiveName)); err != nil && !errors.Is(err, ErrObjectNotFound) {
			return nil, Failed(err)
		}
		old := &model.OldImage{
			Name:        name,
			ArchiveName: archiveName,
			Size:        prev.Size,
			MajorMime:   prev.MajorMime,
			MinorMime:   prev.MinorMime,
			Actor:       prev.Actor,
			Timestamp:   prev.Timestamp,
			Sha1:        prev.Sha1,
		}
		if err := tx.Create(ctx, old); err != nil {
			return nil, Failed(err)
		}
		if _, err := tx.DeleteImage(ctx, name); err != nil {
			return nil, Failed(err)
		}
	case errors.Is(err, store.ErrImageNotFound):
	default:
		return nil, Failed(err)
	}

	if err := r.backend.Put(ctx, PublicPath(name), data); err != nil {
		return nil, Failed(err)
	}

	img := &model.Image{
		Name:      name,
		Size:      int64(len(data)),
		Actor:     actor,
		Timestamp: ts,
		Sha1:      Sha1Base36(data),
	}
	if err := tx.Create(ctx, img); err != nil {
		return nil, Failed(err)
	}

	return img, OK()
}

// version is one file version on its way into the deleted zone.
type version struct {
	src     string
	archive *model.FileArchive
}

// DeleteLive moves the current and superseded versions of name into the
// deleted zone, records them as filearchive rows and drops their image and
// oldimage rows. A read-only repository reports StatusNotWritable and changes
// nothing.
func (r *Repo) DeleteLive(ctx context.Context, tx store.Store, name string, reason string, actor int64) Result {
	if r.readOnly {
		return NotWritable()
	}

	ts := r.timestamp()
	var versions []version

	img, err := tx.GetImage(ctx, name)
	switch {
	case err == nil:
		versions = append(versions, version{
			src: PublicPath(name),
			archive: &model.FileArchive{
				Name:      name,
				Size:      img.Size,
				MajorMime: img.MajorMime,
				MinorMime: img.MinorMime,
				Actor:     img.Actor,
				Timestamp: img.Timestamp,
				Sha1:      img.Sha1,
			},
		})
	case errors.Is(err, store.ErrImageNotFound):
	default:
		return Failed(err)
	}

	olds, err := tx.ListOldImages(ctx, name)
	if err != nil {
		return Failed(err)
	}
	for _, old := range olds {
		versions = append(versions, version{
			src: ArchivePath(name, old.ArchiveName),
			archive: &model.FileArchive{
				Name:        name,
				ArchiveName: old.ArchiveName,
				Size:        old.Size,
				MajorMime:   old.MajorMime,
				MinorMime:   old.MinorMime,
				Actor:       old.Actor,
				Timestamp:   old.Timestamp,
				Sha1:        old.Sha1,
			},
		})
	}

	for _, v := range versions {
		fa := v.archive
		if fa.Sha1 == "" {
			data, err := r.backend.Read(ctx, v.src)
			switch {
			case err == nil:
				fa.Sha1 = Sha1Base36(data)
			case errors.Is(err, ErrObjectNotFound):
				logrus.Warnf("file version %s has no stored object", v.src)
			default:
				return Failed(err)
			}
		}
		if fa.Sha1 != "" {
			fa.StorageKey = StorageKey(fa.Sha1, name)
		}
		fa.StorageGroup = model.StorageGroupDeleted
		fa.DeletedUser = actor
		fa.DeletedTimestamp = ts
		fa.DeletedReason = reason

		if err := tx.Create(ctx, fa); err != nil {
			return Failed(fmt.Errorf("archive %s: %w", v.src, err))
		}
	}

	for _, v := range versions {
		if v.archive.StorageKey == "" {
			continue
		}
		if err := r.moveToDeleted(ctx, v.src, DeletedPath(v.archive.StorageKey)); err != nil {
			return Failed(err)
		}
	}

	if _, err := tx.DeleteImage(ctx, name); err != nil {
		return Failed(err)
	}
	if _, err := tx.DeleteOldImages(ctx, name); err != nil {
		return Failed(err)
	}

	return OK()
}

// moveToDeleted moves src to dst. Identical bytes already at dst make the
// source redundant.
func (r *Repo) moveToDeleted(ctx context.Context, src string, dst string) error {
	exists, err := r.backend.Exists(ctx, dst)
	if err != nil {
		return err
	}

	if exists {
		return r.backend.Delete(ctx, []string{src})
	}

	err = r.backend.Move(ctx, src, dst)
	if errors.Is(err, ErrObjectNotFound) {
		logrus.Warnf("file version %s vanished before archiving", src)
		return nil
	}

	return err
}

// CleanupDeletedBatch removes deleted zone objects of keys that no filearchive
// row references anymore and returns the keys whose objects were removed.
func (r *Repo) CleanupDeletedBatch(ctx context.Context, tx store.FileStore, keys []string) ([]string, Result) {
	if r.readOnly {
		return nil, NotWritable()
	}

	var cleaned, paths []string
	for _, key := range mapset.NewSet(keys...).ToSlice() {
		refs, err := tx.CountFileArchiveKey(ctx, key)
		if err != nil {
			return nil, Failed(err)
		}
		if refs > 0 {
			logrus.Debugf("storage key %s is still referenced by %d archived files", key, refs)
			continue
		}
		cleaned = append(cleaned, key)
		paths = append(paths, DeletedPath(key))
	}

	if len(paths) == 0 {
		return nil, OK()
	}

	if err := r.backend.Delete(ctx, paths); err != nil {
		return nil, Failed(err)
	}

	return cleaned, OK()
}
