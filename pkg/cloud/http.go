package cloud

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/giongto35/screen-recorder/pkg/logger"
)

const httpTimeout = 10 * time.Minute

// HTTPClient uploads with PUT requests under a pre-authenticated URL,
// e.g. an Oracle object storage PAR or a presigned bucket prefix.
type HTTPClient struct {
	accessURL string
	client    *http.Client
	log       *logger.Logger
}

func NewHTTPClient(accessURL string, log *logger.Logger) (*HTTPClient, error) {
	if accessURL == "" {
		return nil, errors.New("pre-authenticated request was not specified")
	}
	return &HTTPClient{
		accessURL: accessURL,
		client:    &http.Client{Timeout: httpTimeout},
		log:       log,
	}, nil
}

func (s *HTTPClient) Save(ctx context.Context, name string, r io.Reader, size int64, meta map[string]string) error {
	if s == nil {
		return ErrNotInitialized
	}
	hash := md5.New()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.accessURL+name, io.TeeReader(r, hash))
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType(name))
	for k, v := range meta {
		req.Header.Set("Opc-Meta-"+k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.New(resp.Status)
	}

	if dstMD5 := resp.Header.Get("Opc-Content-Md5"); dstMD5 != "" {
		if srcMD5 := base64.StdEncoding.EncodeToString(hash.Sum(nil)); dstMD5 != srcMD5 {
			return fmt.Errorf("MD5 mismatch %v != %v", srcMD5, dstMD5)
		}
	}
	s.log.Debug().Msgf("uploaded: %v", name)
	return nil
}

func (s *HTTPClient) Has(ctx context.Context, name string) bool {
	if s == nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.accessURL+name, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (s *HTTPClient) String() string { return s.accessURL }
