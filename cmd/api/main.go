package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio_leads_backend/internal/adapters/storage"
	"portfolio_leads_backend/internal/analytics"
	"portfolio_leads_backend/internal/capture"
	"portfolio_leads_backend/internal/crm"
	"portfolio_leads_backend/internal/events"
	apphttp "portfolio_leads_backend/internal/http"
	"portfolio_leads_backend/internal/http/router"
	"portfolio_leads_backend/internal/leads/scoring"
	"portfolio_leads_backend/internal/notification"
	"portfolio_leads_backend/internal/resources"
	"portfolio_leads_backend/internal/scheduler"
	"portfolio_leads_backend/internal/session"
	"portfolio_leads_backend/internal/tracking"
	"portfolio_leads_backend/platform/config"
	"portfolio_leads_backend/platform/db"
	"portfolio_leads_backend/platform/httpkit"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"
	"portfolio_leads_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool := initLedgerPool(ctx, cfg, log)
	var ledger tracking.Ledger
	if pool != nil {
		defer pool.Close()
		ledger = tracking.NewPgLedger(pool)
	}

	var redisClient *redis.Client
	if cfg.GetRedisURL() != "" {
		opts, err := scheduler.RedisOptions(cfg)
		if err != nil {
			log.Error("invalid REDIS_URL", "error", err)
			panic("invalid REDIS_URL: " + err.Error())
		}
		redisClient = redis.NewClient(opts)
		defer func() { _ = redisClient.Close() }()
	}

	gateway := crm.New(cfg, log, m)
	if !cfg.IsCRMEnabled() {
		log.Warn("HUBSPOT_API_KEY not configured; CRM calls are recorded locally (demo mode)")
	}

	delivery, closeDelivery := initDelivery(cfg, gateway, log)
	if closeDelivery != nil {
		defer closeDelivery()
	}
	tracker := tracking.NewTracker(delivery, ledger, log, m)

	sessions, err := session.NewStore(cfg, redisClient, log)
	if err != nil {
		log.Error("failed to initialize session store", "error", err)
		panic("failed to initialize session store: " + err.Error())
	}

	rules, err := scoring.LoadRules(cfg.GetScoringRulesPath())
	if err != nil {
		log.Error("failed to load scoring rules", "error", err)
		panic("failed to load scoring rules: " + err.Error())
	}

	catalog, err := resources.LoadCatalog(cfg.GetResourcesPath())
	if err != nil {
		log.Error("failed to load resource catalog", "error", err)
		panic("failed to load resource catalog: " + err.Error())
	}
	resourceSvc := resources.NewService(catalog, initLinker(ctx, cfg, log))

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Event subscribers (not HTTP-facing)
	analytics.NewModule(cfg, log, m).RegisterHandlers(eventBus)
	notification.New(cfg, log).RegisterHandlers(eventBus)

	captureModule := capture.NewModule(
		scoring.NewCalculator(rules),
		gateway,
		tracker,
		resourceSvc,
		sessions,
		eventBus,
		val,
		log,
		m,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	limiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetPublicRateLimit()), cfg.GetPublicRateBurst(), log)
	go limiter.RunSweeper(ctx)

	app := &apphttp.App{
		Config:      cfg,
		Logger:      log,
		Metrics:     m,
		Health:      map[string]apphttp.HealthCheck{},
		RateLimiter: limiter,
		Modules: []apphttp.Module{
			captureModule,
		},
	}
	if pool != nil {
		app.Health["database"] = pool.Ping
	}
	if redisClient != nil {
		app.Health["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initLedgerPool connects to the activity ledger and migrates it. The
// ledger is optional; without DATABASE_URL it returns nil.
func initLedgerPool(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
	if !cfg.IsDatabaseEnabled() {
		log.Warn("DATABASE_URL not configured; activity ledger disabled")
		return nil
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return pool
}

// initDelivery queues CRM events through asynq when Redis is configured and
// calls the gateway inline otherwise.
func initDelivery(cfg config.SchedulerConfig, gateway crm.Gateway, log *logger.Logger) (tracking.Delivery, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; CRM events are delivered inline")
		return tracking.NewInlineDelivery(gateway), nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client; delivering CRM events inline", "error", err)
		return tracking.NewInlineDelivery(gateway), nil
	}

	return tracking.NewQueuedDelivery(client), func() {
		_ = client.Close()
	}
}

// initLinker presigns MinIO links when storage is configured and falls back
// to the static base URL.
func initLinker(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.Linker {
	if !cfg.IsMinIOEnabled() {
		log.Info("MinIO not configured; serving resources from static base URL", "baseUrl", cfg.GetResourceBaseURL())
		return storage.NewStaticLinker(cfg.GetResourceBaseURL())
	}

	linker, err := storage.NewMinIOLinker(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure resources bucket", 5, 2*time.Second, func() error {
		return linker.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketResources())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "resourcesBucket", cfg.GetMinioBucketResources())

	return linker
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
