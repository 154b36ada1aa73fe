package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Ductam7415vn/SumUp-sub002/internal/config"
)

// S3Storage keeps exports in an S3-compatible bucket and shares them
// through presigned GET URLs.
type S3Storage struct {
	client     *minio.Client
	bucketName string
	expiry     time.Duration
}

func NewS3Storage(ctx context.Context, cfg *config.Config) (*S3Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, cfg.S3BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.S3BucketName, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &S3Storage{
		client:     client,
		bucketName: cfg.S3BucketName,
		expiry:     expiryOrDefault(cfg.ShareURLExpiry),
	}, nil
}

// Share uploads the file under exports/ and returns a presigned URL.
func (s *S3Storage) Share(ctx context.Context, path, contentType string) (string, error) {
	key := objectKey(path)

	_, err := s.client.FPutObject(ctx, s.bucketName, key, path, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign S3 object: %w", err)
	}
	return u.String(), nil
}

// Unshare removes the object Share uploaded for path.
func (s *S3Storage) Unshare(ctx context.Context, path string) error {
	return s.Delete(ctx, objectKey(path))
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}
