package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"gmmbatch/internal/logger"
)

// S3Options configures an S3-compatible bucket such as R2 or MinIO
type S3Options struct {
	Bucket    string
	Endpoint  string // empty for AWS itself
	Region    string
	AccessKey string
	SecretKey string
}

// S3Client stores runs in an S3-compatible bucket
type S3Client struct {
	client *s3.Client
	bucket string
}

// NewS3Client creates a client. Static credentials are used when both keys
// are set, otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, o S3Options) (*S3Client, error) {
	region := o.Region
	if region == "" {
		region = "auto"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if o.AccessKey != "" && o.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if o.Endpoint != "" {
			opts.BaseEndpoint = aws.String(o.Endpoint)
			opts.UsePathStyle = true
		}
	})
	return &S3Client{client: client, bucket: o.Bucket}, nil
}

// Close is a no-op; the SDK client holds no resources to release
func (c *S3Client) Close() error {
	return nil
}

// StoreFile implements StorageClient
func (c *S3Client) StoreFile(ctx context.Context, folderPath, filename string, data []byte) error {
	key := folderPath + "/" + filename
	logger.Debug("Storing file to S3", map[string]interface{}{"bucket": c.bucket, "key": key})

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(GetContentType(filename)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return nil
}

// GetFile implements StorageClient
func (c *S3Client) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from S3: %w", filePath, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return data, nil
}

// ListRuns implements StorageClient
func (c *S3Client) ListRuns(ctx context.Context, limit int) ([]string, error) {
	var names []string
	pages := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{Bucket: aws.String(c.bucket)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			names = append(names, aws.ToString(obj.Key))
		}
	}
	return runsFromObjects(names, limit), nil
}
