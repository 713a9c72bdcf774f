package storage

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSUploader stores objects in a Google Cloud Storage bucket.
type GCSUploader struct {
	client     *storage.Client
	bucket     string
	publicBase string
}

// NewGCSUploader creates a client from explicit JSON credentials when given,
// otherwise from application default credentials.
func NewGCSUploader(ctx context.Context, bucket, credentialsJSON, publicBase string) (*GCSUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage: STORAGE_BUCKET is required for gcs")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: gcs client: %w", err)
	}

	if publicBase == "" {
		publicBase = "https://storage.googleapis.com/" + bucket
	}
	return &GCSUploader{client: client, bucket: bucket, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (u *GCSUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	wc := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("storage: gcs write %s: %w", key, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("storage: gcs close %s: %w", key, err)
	}
	return u.publicBase + "/" + key, nil
}

func (u *GCSUploader) Provider() string { return "gcs" }

// Close releases the underlying client.
func (u *GCSUploader) Close() error {
	return u.client.Close()
}
