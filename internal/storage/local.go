package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes blobs into a directory on disk.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(ctx context.Context, name string, contentType string, r io.Reader, size int64) (string, error) {
	stored := objectName(name)
	dst := filepath.Join(s.dir, stored)

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", err
	}
	return dst, nil
}
