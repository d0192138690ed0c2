package storage

import (
	"bytes"
	"context"
	"io"

	"fieldlex-client/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Archive stores recordings in an S3-compatible bucket (typically a
// MinIO instance at the field office).
type S3Archive struct {
	client *s3.S3
	bucket string
}

func NewS3Archive(cfg *config.Config) (*S3Archive, error) {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.Archive.AccessKey, cfg.Archive.SecretKey, ""),
		Endpoint:         aws.String(cfg.Archive.Endpoint),
		Region:           aws.String(cfg.Archive.Region),
		DisableSSL:       aws.Bool(!cfg.Archive.UseSSL),
		S3ForcePathStyle: aws.Bool(true),
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}

	return &S3Archive{
		client: s3.New(sess),
		bucket: cfg.Archive.Bucket,
	}, nil
}

// AudioKey is the bucket layout for a submission's recording.
func AudioKey(submissionID string) string {
	return "audio/" + submissionID + ".m4a"
}

// ArchiveAudio stores one recording under the submission's key.
func (a *S3Archive) ArchiveAudio(ctx context.Context, submissionID string, data []byte) error {
	return a.Upload(ctx, AudioKey(submissionID), bytes.NewReader(data))
}

func (a *S3Archive) Upload(ctx context.Context, key string, data io.Reader) error {
	_, err := a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   aws.ReadSeekCloser(data),
	})
	return err
}

func (a *S3Archive) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := a.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

func (a *S3Archive) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (a *S3Archive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
