package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/config"
)

var ErrUnknownBackend = errors.New("unknown share backend")

// DefaultURLExpiry applies when a backend is configured without an expiry.
const DefaultURLExpiry = 24 * time.Hour

// Sharer turns a produced export file into a reference a user can open.
type Sharer interface {
	Share(ctx context.Context, path, contentType string) (string, error)
}

// Unsharer withdraws what Share published for path. Withdrawing something
// that was never shared is not an error.
type Unsharer interface {
	Unshare(ctx context.Context, path string) error
}

type Backend interface {
	Sharer
	Unsharer
}

// NewSharer picks a backend from cfg.ShareBackend.
func NewSharer(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.ShareBackend {
	case "", config.ShareLocal:
		return NewLocalSharer(), nil
	case config.ShareS3:
		return NewS3Storage(ctx, cfg)
	case config.ShareGCS:
		return NewGCSSharer(ctx, cfg.GCSBucketName, cfg.ShareURLExpiry)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.ShareBackend)
	}
}

// objectKey places every shared file under the exports/ prefix.
func objectKey(path string) string {
	return "exports/" + filepath.Base(path)
}

func expiryOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultURLExpiry
	}
	return d
}
