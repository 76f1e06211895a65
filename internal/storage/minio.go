package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps a MinIO client for admin-curated catalog ingredient images.
type Client struct {
	client     *minio.Client
	bucket     string
	endpoint   string
	presignTTL time.Duration
}

// New builds a client against MinIO or any S3-compatible endpoint.
func New(endpoint, accessKey, secretKey, bucket, region string, useSSL bool, presignTTL time.Duration) (*Client, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	}
	if region != "" {
		opts.Region = region
	}

	cli, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize minio client: %w", err)
	}

	return &Client{client: cli, bucket: bucket, endpoint: endpoint, presignTTL: presignTTL}, nil
}

// EnsureBucket creates the bucket if missing and turns on versioning, so an
// accidental image overwrite during curation can still be recovered.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("storage: failed to check bucket %q on %q: %w", c.bucket, c.endpoint, err)
	}

	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("storage: failed to create bucket %q on %q: %w", c.bucket, c.endpoint, err)
		}
	}

	versioning := minio.BucketVersioningConfiguration{Status: minio.Enabled}
	if err := c.client.SetBucketVersioning(ctx, c.bucket, versioning); err != nil {
		return fmt.Errorf("storage: failed to set bucket versioning for %q on %q: %w", c.bucket, c.endpoint, err)
	}

	return nil
}

// UploadIngredientImage uploads a catalog ingredient's image under a
// deterministic key and returns the storage location.
func (c *Client) UploadIngredientImage(ctx context.Context, objectName, contentType string, size int64, reader io.Reader) (string, error) {
	uploadInfo, err := c.client.PutObject(ctx, c.bucket, objectName, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}

	if uploadInfo.Location != "" {
		return uploadInfo.Location, nil
	}

	return fmt.Sprintf("s3://%s/%s", c.bucket, objectName), nil
}

// DeleteIngredientImage removes a previously uploaded image object.
func (c *Client) DeleteIngredientImage(ctx context.Context, objectName string) error {
	return c.client.RemoveObject(ctx, c.bucket, objectName, minio.RemoveObjectOptions{})
}

// PresignedURL returns a temporary access URL for the given object.
func (c *Client) PresignedURL(ctx context.Context, objectName string) (*url.URL, error) {
	return c.client.PresignedGetObject(ctx, c.bucket, objectName, c.presignTTL, nil)
}
