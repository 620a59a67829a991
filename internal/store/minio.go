package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"storen/internal/core"
)

// MinioConfig holds the connection settings for the object store.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is the externally reachable root under which the bucket is
	// served, e.g. "https://cdn.example.com". Defaults to the endpoint.
	PublicBaseURL string
}

// Minio implements core.BlobStore on a MinIO (or S3-compatible) bucket. The
// bucket is expected to allow anonymous reads so PublicURL works without
// signing.
type Minio struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ core.BlobStore = (*Minio)(nil)

func NewMinio(cfg MinioConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}
	return &Minio{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (m *Minio) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("%w: upload %s: %v", ErrRemoteWrite, objectName, err)
	}
	return nil
}

func (m *Minio) PublicURL(objectName string) string {
	return m.baseURL + "/" + m.bucket + "/" + objectName
}
