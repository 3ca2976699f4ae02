package cloud

import (
	"context"
	"errors"
	"io"

	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Client struct {
	c      *minio.Client
	bucket string
	log    *logger.Logger
}

func NewS3Client(ctx context.Context, endpoint, bucket, key, secret string, secure bool, log *logger.Logger) (*S3Client, error) {
	s3Client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	exists, err := s3Client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.New("bucket doesn't exist")
	}

	return &S3Client{bucket: bucket, c: s3Client, log: log}, nil
}

func (s *S3Client) Save(ctx context.Context, name string, r io.Reader, size int64, meta map[string]string) error {
	if s == nil || s.c == nil {
		return ErrNotInitialized
	}
	opts := minio.PutObjectOptions{ContentType: contentType(name)}
	if meta != nil {
		opts.UserMetadata = meta
	}
	info, err := s.c.PutObject(ctx, s.bucket, name, r, size, opts)
	if err != nil {
		return err
	}
	s.log.Debug().Msgf("uploaded: %v (%v bytes)", info.Key, info.Size)
	return nil
}

func (s *S3Client) Has(ctx context.Context, name string) bool {
	if s == nil || s.c == nil {
		return false
	}
	_, err := s.c.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	return err == nil
}

func (s *S3Client) String() string { return "s3://" + s.bucket }
