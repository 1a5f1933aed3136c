package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/collabhub/backend/internal/config"
	"github.com/google/uuid"
)

// BlobStore persists attachment blobs. Implementations never delete on post
// removal; reclamation of unlinked blobs is the backend operator's concern.
type BlobStore interface {
	// Put writes the blob and returns its stored path reference.
	Put(ctx context.Context, name string, contentType string, r io.Reader, size int64) (string, error)
}

// New builds the blob store selected by the configuration.
func New(cfg *config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.Local.Dir)
	case "minio":
		return NewMinIOStore(&cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// objectName builds a collision-free stored name, keeping the original
// extension so static serving gets the content type right.
func objectName(original string) string {
	return uuid.NewString() + path.Ext(original)
}
