// Package storage uploads rendered receipts to an object store and returns
// a public URL for them.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/pos-billing-api/internal/config"
)

// ErrDisabled is returned by the none provider.
var ErrDisabled = errors.New("storage: uploads are disabled")

// Uploader stores an object under key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Provider() string
}

// New selects an uploader from configuration.
func New(ctx context.Context, cfg *config.StorageConfig, baseURL string) (Uploader, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalUploader(cfg.Path, cfg.Bucket, baseURL+"/files"), nil
	case "gcs":
		return NewGCSUploader(ctx, cfg.Bucket, cfg.GCSCredentialsJSON, cfg.PublicURL)
	case "s3":
		return NewS3Uploader(cfg.Bucket, cfg.S3Region, cfg.S3Endpoint, cfg.PublicURL)
	case "none":
		return noneUploader{}, nil
	default:
		return nil, fmt.Errorf("storage: unknown provider %q (use local, gcs, s3 or none)", cfg.Provider)
	}
}

type noneUploader struct{}

func (noneUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "", ErrDisabled
}

func (noneUploader) Provider() string { return "none" }
