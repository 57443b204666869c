package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"reuseu/pkg/errors"
)

// CloudStorageClient is a blob store on one Google Cloud Storage bucket.
type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *CloudStorageClient) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	name := objectName(key, contentType)

	wc := c.client.Bucket(c.bucketName).Object(name).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", errors.Upstream("Failed to upload object", err)
	}
	if err := wc.Close(); err != nil {
		return "", errors.Upstream("Failed to upload object", err)
	}
	return name, nil
}

func (c *CloudStorageClient) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := c.client.Bucket(c.bucketName).Object(key).NewReader(ctx)
	if stderrors.Is(err, storage.ErrObjectNotExist) {
		return nil, errors.NotFound("Object", err)
	}
	if err != nil {
		return nil, errors.Upstream("Failed to read object", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Upstream("Failed to read object", err)
	}
	return data, nil
}

func (c *CloudStorageClient) Delete(ctx context.Context, key string) error {
	err := c.client.Bucket(c.bucketName).Object(key).Delete(ctx)
	if err != nil && !stderrors.Is(err, storage.ErrObjectNotExist) {
		return errors.Upstream("Failed to delete object", err)
	}
	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
