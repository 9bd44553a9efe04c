// Package archive stores verified webhook payloads in S3-compatible object
// storage under events/YYYY/MM/DD/<svix-id>.json.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/sermonmate/sermonmate/internal/server/config"
)

// Archiver persists raw event payloads.
type Archiver interface {
	Store(ctx context.Context, id string, received time.Time, payload []byte) error
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client putObjectAPI
	bucket string
}

// NewS3Archiver builds an S3 client from c. Static credentials are used when
// configured, the default AWS chain otherwise.
func NewS3Archiver(ctx context.Context, c *sc.Config) (*S3Archiver, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.S3Region)}
	if c.S3RootUser != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archiver{client: client, bucket: c.S3Bucket}, nil
}

// Key returns the object key for an event received at t.
func Key(id string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("events/%04d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), id)
}

func (a *S3Archiver) Store(ctx context.Context, id string, received time.Time, payload []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(id, received)),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive event %s: %w", id, err)
	}
	return nil
}

// Nop discards payloads; used when no bucket is configured.
type Nop struct{}

func (Nop) Store(context.Context, string, time.Time, []byte) error { return nil }
