package http

import (
	"context"

	"portfolio_leads_backend/platform/config"
	"portfolio_leads_backend/platform/httpkit"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"
)

// HealthCheck pings one dependency for /api/health.
type HealthCheck func(ctx context.Context) error

// App is everything the router needs, assembled in cmd/api.
type App struct {
	Config  config.HTTPConfig
	Logger  *logger.Logger
	Metrics *metrics.Registry
	// Health is keyed by dependency name. Only configured dependencies are
	// listed, so an empty map means healthy.
	Health      map[string]HealthCheck
	RateLimiter *httpkit.IPRateLimiter
	Modules     []Module
}
