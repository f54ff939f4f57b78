package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Sink stores uploads in an S3 bucket under books/<name>.
type S3Sink struct {
	client *s3.Client
	bucket string
}

func NewS3Sink(client *s3.Client, bucket string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket}
}

func (s *S3Sink) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	key := "books/" + uniqueName(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return key, nil
}

// URL returns the virtual-hosted-style object URL. The bucket is expected to
// front reads (public or via CDN); signed URLs are out of scope here.
func (s *S3Sink) URL(ref string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, ref)
}
