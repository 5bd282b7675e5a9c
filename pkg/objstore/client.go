// Package objstore wraps an S3-compatible object store for report uploads and
// signed download links.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
)

// MaxPresignTTL is the longest expiry S3 accepts for a presigned URL.
const MaxPresignTTL = 7 * 24 * time.Hour

// Client defines the object storage operations used by this application.
type Client interface {
	// Upload stores data under bucket/name.
	Upload(ctx context.Context, bucket, name string, data []byte, contentType string) error
	// PresignGet returns a time-limited GET URL for bucket/name.
	PresignGet(ctx context.Context, bucket, name string, ttl time.Duration) (string, error)
	// EnsureBucket creates bucket when it does not exist.
	EnsureBucket(ctx context.Context, bucket string) error
}

// Config holds connection settings for the store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Region skips the bucket location lookup when set.
	Region string
}

type minioClient struct {
	inner *minio.Client
}

// NewClient connects to the S3-compatible endpoint in cfg. No request is made
// until the first operation.
func NewClient(cfg Config) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, eris.New("objstore: endpoint is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	inner, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, eris.Wrap(err, "objstore: create client")
	}
	return &minioClient{inner: inner}, nil
}

func (c *minioClient) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) error {
	_, err := c.inner.PutObject(ctx, bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("objstore: upload %s/%s", bucket, name))
	}
	return nil
}

func (c *minioClient) PresignGet(ctx context.Context, bucket, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 || ttl > MaxPresignTTL {
		return "", eris.Errorf("objstore: presign ttl %s out of range", ttl)
	}
	u, err := c.inner.PresignedGetObject(ctx, bucket, name, ttl, url.Values{})
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("objstore: presign %s/%s", bucket, name))
	}
	return u.String(), nil
}

func (c *minioClient) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := c.inner.BucketExists(ctx, bucket)
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("objstore: check bucket %s", bucket))
	}
	if exists {
		return nil
	}
	if err := c.inner.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return eris.Wrap(err, fmt.Sprintf("objstore: create bucket %s", bucket))
	}
	return nil
}
