// Package cloud uploads finished recordings to remote storage.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/giongto35/screen-recorder/pkg/config"
	"github.com/giongto35/screen-recorder/pkg/logger"
)

var ErrNotInitialized = errors.New("cloud storage was not initialized")

type Storage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, meta map[string]string) error
	Has(ctx context.Context, name string) bool
}

// Store makes the storage of the config provider, nil without one.
func Store(ctx context.Context, conf config.Storage, log *logger.Logger) (Storage, error) {
	log = log.Component("cloud")
	switch conf.Provider {
	case "s3":
		return NewS3Client(ctx, conf.S3Endpoint, conf.Bucket, conf.S3AccessKeyId, conf.S3SecretAccessKey, !conf.S3Insecure, log)
	case "gcs":
		return NewGoogleCloudClient(ctx, conf.Bucket, log)
	case "http":
		return NewHTTPClient(conf.PutURL, log)
	case "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown storage provider: %v", conf.Provider)
}
