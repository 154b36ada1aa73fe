package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSSharer uploads exports to a Cloud Storage bucket and hands out V4
// signed URLs.
type GCSSharer struct {
	client *gcs.Client
	bucket string
	expiry time.Duration
}

func NewGCSSharer(ctx context.Context, bucket string, expiry time.Duration) (*GCSSharer, error) {
	if bucket == "" {
		return nil, errors.New("GCS bucket name is required")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSSharer{
		client: client,
		bucket: bucket,
		expiry: expiryOrDefault(expiry),
	}, nil
}

func (s *GCSSharer) Share(ctx context.Context, path, contentType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	key := objectKey(path)
	bucket := s.client.Bucket(s.bucket)

	// cancelling the writer's context is the only way to abandon an upload;
	// Close would commit whatever was written so far
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := bucket.Object(key).NewWriter(wctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, f); err != nil {
		cancel()
		_ = writer.Close()
		return "", fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS write: %w", err)
	}

	signed, err := bucket.SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(s.expiry),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign GCS object: %w", err)
	}
	return signed, nil
}

func (s *GCSSharer) Unshare(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(objectKey(path)).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete from GCS: %w", err)
	}
	return nil
}

func (s *GCSSharer) Close() error {
	return s.client.Close()
}
