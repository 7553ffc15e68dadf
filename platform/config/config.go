// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDatabaseMaxConns() int32
	IsDatabaseEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetPublicRateLimit() float64
	GetPublicRateBurst() int
}

// CRMConfig provides settings for the CRM gateway.
type CRMConfig interface {
	GetCRMAPIKey() string
	GetCRMBaseURL() string
	GetCRMTimeout() time.Duration
	IsCRMEnabled() bool
}

// SessionConfig provides settings for the visitor session store.
type SessionConfig interface {
	GetSessionStore() string
	GetSessionSecret() string
	GetSessionCookieName() string
	GetSessionCookieDomain() string
	GetSessionCookieSecure() bool
	GetSessionCookieSameSite() http.SameSite
	GetSessionTTL() time.Duration
}

// SchedulerConfig provides settings for the asynq queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketResources() string
	IsMinIOEnabled() bool
}

// AnalyticsConfig provides settings for the conversion analytics sinks.
type AnalyticsConfig interface {
	GetGA4MeasurementID() string
	GetGA4APISecret() string
	GetGA4Endpoint() string
	GetAnalyticsWebhookURL() string
	IsGA4Enabled() bool
}

// EmailConfig provides settings for consultant alert emails.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetConsultantEmail() string
	IsEmailEnabled() bool
}

// ContentConfig provides paths to optional rule and catalog overrides.
type ContentConfig interface {
	GetScoringRulesPath() string
	GetResourcesPath() string
	GetResourceBaseURL() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	PublicRateLimit       float64
	PublicRateBurst       int
	DatabaseURL           string
	DatabaseMaxConns      int32
	CRMAPIKey             string
	CRMBaseURL            string
	CRMTimeout            time.Duration
	SessionStore          string
	SessionSecret         string
	SessionCookieName     string
	SessionCookieDomain   string
	SessionCookieSecure   bool
	SessionCookieSameSite http.SameSite
	SessionTTL            time.Duration
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	MinIOEndpoint         string
	MinIOAccessKey        string
	MinIOSecretKey        string
	MinIOUseSSL           bool
	MinioBucketResources  string
	GA4MeasurementID      string
	GA4APISecret          string
	GA4Endpoint           string
	AnalyticsWebhookURL   string
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	EmailFromName         string
	EmailFromAddress      string
	ConsultantEmail       string
	ScoringRulesPath      string
	ResourcesPath         string
	ResourceBaseURL       string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string      { return c.DatabaseURL }
func (c *Config) GetDatabaseMaxConns() int32 { return c.DatabaseMaxConns }
func (c *Config) IsDatabaseEnabled() bool     { return c.DatabaseURL != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool       { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool     { return c.CORSAllowCreds }
func (c *Config) GetPublicRateLimit() float64 { return c.PublicRateLimit }
func (c *Config) GetPublicRateBurst() int     { return c.PublicRateBurst }

// CRMConfig implementation
func (c *Config) GetCRMAPIKey() string         { return c.CRMAPIKey }
func (c *Config) GetCRMBaseURL() string        { return c.CRMBaseURL }
func (c *Config) GetCRMTimeout() time.Duration { return c.CRMTimeout }
func (c *Config) IsCRMEnabled() bool           { return !IsPlaceholderCredential(c.CRMAPIKey) }

// SessionConfig implementation
func (c *Config) GetSessionStore() string                 { return c.SessionStore }
func (c *Config) GetSessionSecret() string                { return c.SessionSecret }
func (c *Config) GetSessionCookieName() string            { return c.SessionCookieName }
func (c *Config) GetSessionCookieDomain() string          { return c.SessionCookieDomain }
func (c *Config) GetSessionCookieSecure() bool            { return c.SessionCookieSecure }
func (c *Config) GetSessionCookieSameSite() http.SameSite { return c.SessionCookieSameSite }
func (c *Config) GetSessionTTL() time.Duration            { return c.SessionTTL }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketResources() string { return c.MinioBucketResources }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// AnalyticsConfig implementation
func (c *Config) GetGA4MeasurementID() string    { return c.GA4MeasurementID }
func (c *Config) GetGA4APISecret() string        { return c.GA4APISecret }
func (c *Config) GetGA4Endpoint() string         { return c.GA4Endpoint }
func (c *Config) GetAnalyticsWebhookURL() string { return c.AnalyticsWebhookURL }
func (c *Config) IsGA4Enabled() bool {
	return c.GA4MeasurementID != "" && c.GA4APISecret != ""
}

// EmailConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetConsultantEmail() string  { return c.ConsultantEmail }
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.ConsultantEmail != ""
}

// ContentConfig implementation
func (c *Config) GetScoringRulesPath() string { return c.ScoringRulesPath }
func (c *Config) GetResourcesPath() string    { return c.ResourcesPath }
func (c *Config) GetResourceBaseURL() string  { return c.ResourceBaseURL }

// IsPlaceholderCredential reports whether a CRM credential means "run in demo mode".
func IsPlaceholderCredential(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", "demo-key", "demo", "changeme":
		return true
	default:
		return false
	}
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	env := getEnv("APP_ENV", "development")
	var p envParser

	sessionCookieSecure := strings.EqualFold(getEnv("SESSION_COOKIE_SECURE", ""), "true")
	if getEnv("SESSION_COOKIE_SECURE", "") == "" {
		sessionCookieSecure = strings.EqualFold(env, "production")
	}

	cfg := &Config{
		Env:                   env,
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		PublicRateLimit:       p.decimal("PUBLIC_RATE_LIMIT_RPS", "2"),
		PublicRateBurst:       p.integer("PUBLIC_RATE_LIMIT_BURST", "10"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		DatabaseMaxConns:      int32(p.integer("DATABASE_MAX_CONNS", "8")),
		CRMAPIKey:             getEnv("HUBSPOT_API_KEY", ""),
		CRMBaseURL:            getEnv("HUBSPOT_BASE_URL", "https://api.hubapi.com"),
		CRMTimeout:            p.duration("CRM_TIMEOUT", "10s"),
		SessionStore:          strings.ToLower(getEnv("SESSION_STORE", "cookie")),
		SessionSecret:         getEnv("SESSION_SECRET", ""),
		SessionCookieName:     getEnv("SESSION_COOKIE_NAME", "lead_session"),
		SessionCookieDomain:   getEnv("SESSION_COOKIE_DOMAIN", ""),
		SessionCookieSecure:   sessionCookieSecure,
		SessionCookieSameSite: parseSameSite(getEnv("SESSION_COOKIE_SAMESITE", "Lax")),
		SessionTTL:            p.duration("SESSION_TTL", "8760h"),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "crm"),
		AsynqConcurrency:      p.integer("ASYNQ_CONCURRENCY", "5"),
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:           strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketResources:  getEnv("MINIO_BUCKET_RESOURCES", "resources"),
		GA4MeasurementID:      getEnv("GA4_MEASUREMENT_ID", ""),
		GA4APISecret:          getEnv("GA4_API_SECRET", ""),
		GA4Endpoint:           getEnv("GA4_ENDPOINT", "https://www.google-analytics.com/mp/collect"),
		AnalyticsWebhookURL:   getEnv("ANALYTICS_WEBHOOK_URL", ""),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              p.integer("SMTP_PORT", "587"),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "Website"),
		EmailFromAddress:      getEnv("EMAIL_FROM_ADDRESS", ""),
		ConsultantEmail:       getEnv("CONSULTANT_EMAIL", ""),
		ScoringRulesPath:      getEnv("SCORING_RULES_PATH", ""),
		ResourcesPath:         getEnv("RESOURCES_PATH", ""),
		ResourceBaseURL:       getEnv("RESOURCE_BASE_URL", "/downloads"),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	switch c.SessionStore {
	case "cookie":
		if c.SessionSecret == "" {
			if strings.EqualFold(c.Env, "production") {
				return fmt.Errorf("SESSION_SECRET is required when SESSION_STORE is cookie")
			}
			c.SessionSecret = "development-only-session-secret"
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE is redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be cookie or redis, got %q", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be a positive duration")
	}
	if c.PublicRateLimit <= 0 {
		return fmt.Errorf("PUBLIC_RATE_LIMIT_RPS must be positive")
	}
	if c.PublicRateBurst < 1 {
		return fmt.Errorf("PUBLIC_RATE_LIMIT_BURST must be at least 1")
	}
	if c.DatabaseMaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1")
	}
	if c.CRMTimeout <= 0 {
		return fmt.Errorf("CRM_TIMEOUT must be a positive duration")
	}
	if c.IsEmailEnabled() && c.EmailFromAddress == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// envParser reads typed variables and collects every malformed value so
// Load can report them together.
type envParser struct {
	errs []error
}

func (p *envParser) fail(key, value string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s: invalid value %q: %w", key, value, err))
}

func (p *envParser) duration(key, fallback string) time.Duration {
	value := strings.TrimSpace(getEnv(key, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
	}
	return d
}

func (p *envParser) integer(key, fallback string) int {
	value := strings.TrimSpace(getEnv(key, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
	}
	return n
}

func (p *envParser) decimal(key, fallback string) float64 {
	value := strings.TrimSpace(getEnv(key, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, err)
	}
	return f
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
