package cloud

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/giongto35/screen-recorder/pkg/logger"
)

type GoogleCloudClient struct {
	bucket *storage.BucketHandle
	name   string
	log    *logger.Logger
}

// NewGoogleCloudClient returns a Google Cloud Storage client
// with the default application credentials.
func NewGoogleCloudClient(ctx context.Context, bucket string, log *logger.Logger) (*GoogleCloudClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleCloudClient{bucket: client.Bucket(bucket), name: bucket, log: log}, nil
}

func (c *GoogleCloudClient) Save(ctx context.Context, name string, r io.Reader, _ int64, meta map[string]string) (err error) {
	if c == nil {
		return ErrNotInitialized
	}
	wc := c.bucket.Object(name).NewWriter(ctx)
	wc.ContentType = contentType(name)
	wc.Metadata = meta
	if _, err = io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return err
	}
	if err = wc.Close(); err != nil {
		return err
	}
	c.log.Debug().Msgf("uploaded: %v", name)
	return nil
}

func (c *GoogleCloudClient) Has(ctx context.Context, name string) bool {
	if c == nil {
		return false
	}
	_, err := c.bucket.Object(name).Attrs(ctx)
	return err == nil
}

func (c *GoogleCloudClient) String() string { return "gs://" + c.name }
