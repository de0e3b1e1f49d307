package service

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/pagepurge/internal/cache"
	"github.com/emrgen/pagepurge/internal/filerepo"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/sirupsen/logrus"
)

// FileRepository is the binary repository as seen by the file cleaner.
type FileRepository interface {
	DeleteLive(ctx context.Context, tx store.Store, name string, reason string, actor int64) filerepo.Result
	Exists(ctx context.Context, path string) (bool, error)
	CleanupDeletedBatch(ctx context.Context, tx store.FileStore, keys []string) ([]string, filerepo.Result)
}

// FileCleaner removes the stored versions of a file page and their archive
// index rows.
type FileCleaner struct {
	repo  FileRepository
	cache cache.ExistenceCache
}

func NewFileCleaner(repo FileRepository, cache cache.ExistenceCache) *FileCleaner {
	return &FileCleaner{repo: repo, cache: cache}
}

// Clean runs inside the deletion transaction. Only a failing live delete
// aborts; a read-only repository and batch cleanup failures do not.
func (c *FileCleaner) Clean(ctx context.Context, tx store.Store, name string, reason string, actor int64, report *Report) error {
	log := logrus.WithField("file", name)

	res := c.repo.DeleteLive(ctx, tx, name, reason, actor)
	report.FileStatus = res.Status.String()
	switch {
	case res.IsOK():
	case res.IsNotWritable():
		log.Warn("repository is not writable, dropping file rows only")
		if _, err := tx.DeleteImage(ctx, name); err != nil {
			return err
		}
		if _, err := tx.DeleteOldImages(ctx, name); err != nil {
			return err
		}
	default:
		log.Errorf("live file deletion failed: %v", res.Err)
		return fmt.Errorf("%w: %s: %v", ErrFileDeletion, name, res.Err)
	}

	keys, err := tx.ListFileArchiveKeys(ctx, name)
	if err != nil {
		return err
	}

	var existing []string
	for _, key := range mapset.NewSet(keys...).ToSlice() {
		ok, err := c.repo.Exists(ctx, filerepo.DeletedPath(key))
		if err != nil {
			log.Warnf("check deleted object %s: %v", key, err)
			continue
		}
		if ok {
			existing = append(existing, key)
		}
	}

	n, err := tx.DeleteFileArchive(ctx, name)
	if err != nil {
		return err
	}
	report.Rows["filearchive"] += n

	cleaned, res := c.repo.CleanupDeletedBatch(ctx, tx, existing)
	switch {
	case res.IsOK():
		report.FileKeysCleaned = cleaned
	case res.IsNotWritable():
		log.Warn("repository is not writable, deleted objects are kept")
	default:
		log.Warnf("deleted object cleanup failed: %v", res.Err)
	}

	if c.cache != nil {
		if err := c.cache.Clear(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warnf("clear existence cache: %v", err)
		}
	}

	return nil
}
