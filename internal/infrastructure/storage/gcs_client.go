package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"esekoir/internal/domain/service"
	"esekoir/pkg/logger"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

// NewCloudStorageClient opens bucketName with the same credentials the
// Firebase app uses.
func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	c := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}

	if err := c.setBucketCORS(ctx); err != nil {
		logger.Warn("Failed to set CORS configuration on bucket %s: %v", bucketName, err)
	}

	return c, nil
}

func (c *CloudStorageClient) setBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	corsConfig := storage.CORS{
		MaxAge:          3600,
		Methods:         []string{"GET", "HEAD"},
		Origins:         []string{"*"},
		ResponseHeaders: []string{"Content-Type"},
	}

	attrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %w", err)
	}

	if len(attrs.CORS) == 0 {
		if _, err := bucket.Update(ctx, storage.BucketAttrsToUpdate{CORS: []storage.CORS{corsConfig}}); err != nil {
			return fmt.Errorf("failed to update bucket CORS: %w", err)
		}
	}

	return nil
}

// Upload streams r to objectPath. Without overwrite the write carries a
// does-not-exist precondition, so a second upload to the same path fails
// with service.ErrBlobExists.
func (c *CloudStorageClient) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string, overwrite bool) error {
	obj := c.client.Bucket(c.bucketName).Object(strings.TrimPrefix(objectPath, "/"))
	if !overwrite {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}

	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=3600"

	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return fmt.Errorf("failed to copy file to GCS: %w", err)
	}

	if err := wc.Close(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
			return service.ErrBlobExists
		}
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return nil
}

func (c *CloudStorageClient) PublicURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, strings.TrimPrefix(objectPath, "/"))
}

func (c *CloudStorageClient) Delete(ctx context.Context, objectPath string) error {
	obj := c.client.Bucket(c.bucketName).Object(strings.TrimPrefix(objectPath, "/"))
	if err := obj.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
