// Package http holds the contract between the router and the feature
// modules that mount routes on it.
package http

import (
	"portfolio_leads_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module mounts one feature's routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module may touch while registering. Public is
// /api/v1/public and is already rate limited per client IP.
type RouterContext struct {
	Public *gin.RouterGroup
	Config config.HTTPConfig
}
