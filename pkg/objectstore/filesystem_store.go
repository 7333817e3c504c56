package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore maps bucket/key pairs onto a local directory tree.
// Each bucket is a subdirectory of the configured root.
type FilesystemStore struct {
	root string
}

func NewFilesystemStore(root string) (*FilesystemStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("objectstore root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("objectstore root %s is not a directory", root)
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(bucket, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *FilesystemStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.resolve(bucket, key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolve joins bucket and key under the root and rejects keys that
// escape it.
func (s *FilesystemStore) resolve(bucket, key string) (string, error) {
	path := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	base := filepath.Clean(s.root) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(path)+string(os.PathSeparator), base) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return path, nil
}
