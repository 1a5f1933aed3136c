package storage

import (
	"context"
	"io"

	"github.com/collabhub/backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore writes blobs into an S3-compatible bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(cfg *config.MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	s := &MinIOStore{client: client, bucket: cfg.Bucket}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MinIOStore) Put(ctx context.Context, name string, contentType string, r io.Reader, size int64) (string, error) {
	stored := objectName(name)
	_, err := s.client.PutObject(ctx, s.bucket, stored, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.bucket + "/" + stored, nil
}
