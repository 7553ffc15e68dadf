package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsToDemoCRMAndCookieSessions(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("HUBSPOT_API_KEY", "demo-key")
	t.Setenv("SESSION_STORE", "cookie")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CORS_ORIGINS", "https://example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsCRMEnabled() {
		t.Fatalf("expected placeholder credential to disable the CRM")
	}
	if cfg.GetSessionSecret() == "" {
		t.Fatalf("expected a development session secret")
	}
	if cfg.GetCRMTimeout() <= 0 {
		t.Fatalf("expected a positive default CRM timeout")
	}
}

func TestLoadRejectsMissingSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_STORE", "cookie")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CORS_ORIGINS", "https://example.com")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing SESSION_SECRET in production")
	}
}

func TestLoadRejectsRedisStoreWithoutURL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_URL", "")
	t.Setenv("CORS_ORIGINS", "https://example.com")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for redis session store without REDIS_URL")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_STORE", "cookie")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for wildcard CORS with credentials")
	}
}

func TestIsPlaceholderCredential(t *testing.T) {
	cases := map[string]bool{
		"":              true,
		"demo-key":      true,
		" DEMO-KEY ":    true,
		"pat-eu1-12345": false,
	}
	for key, want := range cases {
		if got := IsPlaceholderCredential(key); got != want {
			t.Fatalf("IsPlaceholderCredential(%q) = %v, want %v", key, got, want)
		}
	}
}

func setValidBase(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_STORE", "cookie")
	t.Setenv("CORS_ORIGINS", "https://example.com")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	cases := map[string]string{
		"SESSION_TTL":             "1y",
		"CRM_TIMEOUT":             "soon",
		"PUBLIC_RATE_LIMIT_RPS":   "fast",
		"PUBLIC_RATE_LIMIT_BURST": "ten",
		"ASYNQ_CONCURRENCY":       "5.5",
		"DATABASE_MAX_CONNS":      "",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setValidBase(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error naming %s for %q, got %v", key, value, err)
			}
		})
	}
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	cases := map[string]string{
		"SESSION_TTL":             "0s",
		"PUBLIC_RATE_LIMIT_RPS":   "0",
		"PUBLIC_RATE_LIMIT_BURST": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setValidBase(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error naming %s for %q, got %v", key, value, err)
			}
		})
	}
}

func TestLoadParsesSessionTTL(t *testing.T) {
	setValidBase(t)
	t.Setenv("SESSION_TTL", "720h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetSessionTTL() != 720*time.Hour {
		t.Fatalf("expected 720h, got %s", cfg.GetSessionTTL())
	}
}
