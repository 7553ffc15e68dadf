package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"portfolio_leads_backend/internal/crm"
	"portfolio_leads_backend/internal/scheduler"
	"portfolio_leads_backend/platform/config"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	gateway := crm.New(cfg, log, m)
	if !cfg.IsCRMEnabled() {
		log.Warn("HUBSPOT_API_KEY not configured; queued CRM events are recorded locally (demo mode)")
	}

	worker, err := scheduler.NewWorker(cfg, gateway, log, m)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
