package s3infra

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store holds uploaded site images (blog covers, editor images, project shots).
type Store struct {
	client        objectAPI
	bucket        string
	publicBaseURL string
}

// NewClient creates an S3 client. A non-empty endpointURL (LocalStack)
// overrides the endpoint and switches to path-style addressing.
func NewClient(awsCfg aws.Config, endpointURL string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
			o.UsePathStyle = true
		}
	})
}

// NewStore creates a Store. publicBaseURL, when set, is the CDN or bucket
// website prefix under which uploaded keys are publicly reachable.
func NewStore(client *s3.Client, bucket, publicBaseURL string) *Store {
	return &Store{client: client, bucket: bucket, publicBaseURL: publicBaseURL}
}

// Upload streams r to S3 under key and returns the URL the site should embed.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return s.URL(key), nil
}

// URL returns the public URL of key.
func (s *Store) URL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// Delete removes an object from S3.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}
