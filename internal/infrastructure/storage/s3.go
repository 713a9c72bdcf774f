package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Uploader stores objects in an S3 (or S3-compatible) bucket.
type S3Uploader struct {
	uploader   *s3manager.Uploader
	bucket     string
	publicBase string
}

// NewS3Uploader creates an uploader using the default AWS credential chain.
// A non-empty endpoint targets an S3-compatible service with path-style URLs.
func NewS3Uploader(bucket, region, endpoint, publicBase string) (*S3Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage: STORAGE_BUCKET is required for s3")
	}

	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: aws session: %w", err)
	}

	if publicBase == "" {
		if endpoint != "" {
			publicBase = strings.TrimRight(endpoint, "/") + "/" + bucket
		} else {
			publicBase = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
		}
	}
	return &S3Uploader{
		uploader:   s3manager.NewUploader(sess),
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 upload %s: %w", key, err)
	}
	return u.publicBase + "/" + key, nil
}

func (u *S3Uploader) Provider() string { return "s3" }
