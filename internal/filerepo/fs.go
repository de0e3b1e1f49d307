package filerepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var _ Backend = (*FSBackend)(nil)

// FSBackend stores objects as files below a root directory.
type FSBackend struct {
	root string
}

func NewFSBackend(root string) (*FSBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create repository root: %w", err)
	}

	return &FSBackend{root: root}, nil
}

func (b *FSBackend) full(path string) string {
	return filepath.Join(b.root, filepath.FromSlash(path))
}

func (b *FSBackend) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(b.full(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

func (b *FSBackend) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(b.full(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrObjectNotFound)
	}

	return data, err
}

func (b *FSBackend) Put(ctx context.Context, path string, data []byte) error {
	full := b.full(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	return os.WriteFile(full, data, 0o644)
}

func (b *FSBackend) Move(ctx context.Context, src string, dst string) error {
	full := b.full(dst)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	err := os.Rename(b.full(src), full)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", src, ErrObjectNotFound)
	}

	return err
}

func (b *FSBackend) Delete(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := os.Remove(b.full(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
