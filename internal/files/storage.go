package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore is the narrow interface to object storage. The service only ever
// needs save, open and delete by opaque key.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// FSStore implements BlobStore on the local filesystem under a base dir.
type FSStore struct {
	baseDir string
}

// NewFSStore constructs an FSStore, creating the base directory if needed.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("files: create upload dir: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// Save writes the reader's contents under key and returns the byte count.
func (s *FSStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}

// Open returns a reader over the stored object.
func (s *FSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes the stored object. Missing objects are not an error; the
// metadata row is authoritative.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// path rejects keys that would escape the base directory.
func (s *FSStore) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("files: invalid object key %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}

var _ BlobStore = (*FSStore)(nil)
