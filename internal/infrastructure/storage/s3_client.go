package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"reuseu/pkg/errors"
)

type S3Options struct {
	Endpoint  string // empty for AWS itself
	Region    string
	AccessKey string
	SecretKey string
}

// S3Client is a blob store on an S3-compatible bucket (AWS, R2, MinIO).
type S3Client struct {
	client     *s3.Client
	bucketName string
}

func NewS3Client(ctx context.Context, bucketName string, o S3Options) (*S3Client, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if o.Endpoint != "" {
			opts.BaseEndpoint = aws.String(o.Endpoint)
			opts.UsePathStyle = true
		}
	})
	return &S3Client{client: client, bucketName: bucketName}, nil
}

func (c *S3Client) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	name := objectName(key, contentType)
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Upstream("Failed to upload object", err)
	}
	return name, nil
}

func (c *S3Client) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isMissingObject(err) {
			return nil, errors.NotFound("Object", err)
		}
		return nil, errors.Upstream("Failed to read object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Upstream("Failed to read object", err)
	}
	return data, nil
}

// Delete succeeds for absent keys; S3 reports no error for them.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil && !isMissingObject(err) {
		return errors.Upstream("Failed to delete object", err)
	}
	return nil
}

func isMissingObject(err error) bool {
	var noKey *types.NoSuchKey
	if stderrors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	return stderrors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound"
}
