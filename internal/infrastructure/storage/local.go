package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalUploader writes objects below root/bucket and serves them from publicBase.
type LocalUploader struct {
	root       string
	bucket     string
	publicBase string
}

// NewLocalUploader creates an uploader writing to the local filesystem.
func NewLocalUploader(root, bucket, publicBase string) *LocalUploader {
	return &LocalUploader{root: root, bucket: bucket, publicBase: strings.TrimRight(publicBase, "/")}
}

// Root is the directory served as publicBase.
func (u *LocalUploader) Root() string {
	return u.root
}

func (u *LocalUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("storage: invalid object key %q", key)
	}

	dir := filepath.Join(u.root, u.bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create %s: %w", dir, err)
	}
	dst := filepath.Join(dir, key)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", dst, err)
	}
	return u.publicBase + "/" + path.Join(u.bucket, key), nil
}

func (u *LocalUploader) Provider() string { return "local" }
