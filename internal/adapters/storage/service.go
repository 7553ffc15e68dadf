// Package storage produces download links for gated resources, either as
// presigned S3-compatible URLs or as plain links under a static base URL.
package storage

import (
	"context"
	"time"
)

// Link is a download link for one stored object. ExpiresAt is nil for
// links that never expire.
type Link struct {
	URL       string     `json:"url"`
	Key       string     `json:"key"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the link is past its expiry at now.
func (l Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

// Linker builds download links for stored objects.
type Linker interface {
	// DownloadURL returns a link for the object key. fileName, when set,
	// is suggested to the browser as the saved file name.
	DownloadURL(ctx context.Context, fileKey, fileName string) (*Link, error)
}

// Config is the MinIO slice of the application config.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketResources() string
	IsMinIOEnabled() bool
}
