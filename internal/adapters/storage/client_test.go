package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"
)

type stubConfig struct{}

func (stubConfig) GetMinIOEndpoint() string        { return "localhost:9000" }
func (stubConfig) GetMinIOAccessKey() string       { return "minio" }
func (stubConfig) GetMinIOSecretKey() string       { return "minio-secret" }
func (stubConfig) GetMinIOUseSSL() bool            { return false }
func (stubConfig) GetMinioBucketResources() string { return "resources" }
func (stubConfig) IsMinIOEnabled() bool            { return true }

func TestMinIOLinkerPresignsWithoutNetwork(t *testing.T) {
	linker, err := NewMinIOLinker(stubConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	link, err := linker.DownloadURL(context.Background(), "whitepapers/ai-banking.pdf", "ai-banking.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(link.URL)
	if err != nil {
		t.Fatalf("invalid url %q: %v", link.URL, err)
	}
	if u.Path != "/resources/whitepapers/ai-banking.pdf" {
		t.Fatalf("unexpected path %s", u.Path)
	}
	if u.Query().Get("X-Amz-Signature") == "" {
		t.Fatalf("expected a signed url, got %s", link.URL)
	}
	if !strings.Contains(u.Query().Get("response-content-disposition"), "ai-banking.pdf") {
		t.Fatalf("expected content disposition with file name")
	}
	if link.ExpiresAt == nil {
		t.Fatalf("expected expiry")
	}
	if link.Expired(time.Now()) || !link.Expired(link.ExpiresAt.Add(time.Second)) {
		t.Fatalf("unexpected expiry window ending %s", link.ExpiresAt)
	}
}

func TestStaticLinkerJoinsAndEscapes(t *testing.T) {
	link, err := NewStaticLinker("/downloads/").DownloadURL(context.Background(), "case studies/mortgage.pdf", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.URL != "/downloads/case%20studies/mortgage.pdf" {
		t.Fatalf("unexpected url %s", link.URL)
	}
	if link.ExpiresAt != nil || link.Expired(time.Now().Add(24*time.Hour)) {
		t.Fatalf("static links do not expire")
	}
}
