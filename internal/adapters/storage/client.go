package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// LinkTTL bounds how long a presigned link stays valid.
	LinkTTL = 15 * time.Minute

	// Fixed so presigning never needs a bucket-location round trip.
	defaultRegion = "us-east-1"
)

// MinIOLinker presigns GET requests against one bucket.
type MinIOLinker struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// NewMinIOLinker creates a MinIO-backed linker for the resources bucket.
func NewMinIOLinker(cfg Config) (*MinIOLinker, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
		Region: defaultRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOLinker{
		client: client,
		bucket: cfg.GetMinioBucketResources(),
		ttl:    LinkTTL,
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOLinker) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: defaultRegion})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// DownloadURL creates a presigned URL for downloading a file.
func (s *MinIOLinker) DownloadURL(ctx context.Context, fileKey, fileName string) (*Link, error) {
	expiresAt := time.Now().Add(s.ttl)

	reqParams := make(url.Values)
	if fileName != "" {
		reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	}

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, s.ttl, reqParams)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return &Link{
		URL:       presignedURL.String(),
		Key:       fileKey,
		ExpiresAt: &expiresAt,
	}, nil
}

// StaticLinker serves objects from a fixed base URL, for sites that host
// the files next to the page.
type StaticLinker struct {
	baseURL string
}

func NewStaticLinker(baseURL string) *StaticLinker {
	return &StaticLinker{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *StaticLinker) DownloadURL(_ context.Context, fileKey, _ string) (*Link, error) {
	escaped := make([]string, 0)
	for _, part := range strings.Split(strings.TrimLeft(fileKey, "/"), "/") {
		escaped = append(escaped, url.PathEscape(part))
	}
	return &Link{
		URL:     s.baseURL + "/" + strings.Join(escaped, "/"),
		Key:     fileKey,
	}, nil
}

var (
	_ Linker = (*MinIOLinker)(nil)
	_ Linker = (*StaticLinker)(nil)
)
