package server

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-band-raytracer/pkg/ppm"
)

// RenderKeyHeader carries the object key of a published render
const RenderKeyHeader = "X-Render-Key"

// UploadTimeout bounds a single publish call
const UploadTimeout = 30 * time.Second

// Publisher stores finished images somewhere outside the server and returns where
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte) (key string, err error)
}

// S3Config holds the object store settings
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
}

// LoadS3Config reads the S3_* variables. An empty Bucket disables publishing.
func LoadS3Config(lookup func(string) (string, bool)) S3Config {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok {
			return value
		}
		return fallback
	}
	return S3Config{
		AccessKey: get("S3_ACCESS_KEY", ""),
		SecretKey: get("S3_SECRET_KEY", ""),
		Endpoint:  get("S3_ENDPOINT", ""),
		Region:    get("S3_REGION", "us-east-1"),
		Bucket:    get("S3_BUCKET", ""),
		Prefix:    get("S3_PREFIX", "renders"),
	}
}

// Enabled reports whether a bucket is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// S3Publisher uploads images to an S3-compatible bucket
type S3Publisher struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewS3Publisher creates a publisher from the configuration. Static credentials are used when
// given; otherwise the SDK's default credential chain applies.
func NewS3Publisher(cfg S3Config) (*S3Publisher, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewS3PublisherWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}

// NewS3PublisherWithClient creates a publisher on an existing client
func NewS3PublisherWithClient(client s3iface.S3API, bucket, prefix string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, prefix: prefix}
}

// Publish uploads data as name under the configured prefix and returns the object key
func (p *S3Publisher) Publish(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(p.prefix, name)

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ppm.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("Uploaded %s to s3://%s (%d bytes)", key, p.bucket, size)
	return key, nil
}
