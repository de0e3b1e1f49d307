package filerepo

import "context"

// Backend stores repository objects under slash separated paths.
type Backend interface {
	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)
	// Read returns the object at path or ErrObjectNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
	// Put stores data at path, replacing any object there.
	Put(ctx context.Context, path string, data []byte) error
	// Move renames src to dst, replacing any object at dst.
	Move(ctx context.Context, src string, dst string) error
	// Delete removes objects. Missing paths are not an error.
	Delete(ctx context.Context, paths []string) error
}
