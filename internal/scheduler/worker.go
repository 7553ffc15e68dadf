package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio_leads_backend/internal/crm"
	"portfolio_leads_backend/platform/config"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"

	"github.com/hibiken/asynq"
)

const (
	defaultConcurrency = 10
	retryBaseDelay     = 10 * time.Second
	retryMaxDelay      = 30 * time.Minute
)

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	gateway crm.Gateway
	log     *logger.Logger
	metrics *metrics.Registry
}

// NewWorker builds the asynq server for cmd/scheduler.
func NewWorker(cfg config.SchedulerConfig, gateway crm.Gateway, log *logger.Logger, m *metrics.Registry) (*Worker, error) {
	opt, err := connOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	w := &Worker{
		mux:     asynq.NewServeMux(),
		gateway: gateway,
		log:     log,
		metrics: m,
	}
	w.server = asynq.NewServer(opt, asynq.Config{
		Concurrency:    concurrency,
		Queues:         map[string]int{queueName(cfg): 1},
		RetryDelayFunc: retryDelay,
		ErrorHandler:   asynq.ErrorHandlerFunc(w.handleFailure),
	})
	w.mux.HandleFunc(TaskTrackEvent, w.handleTrackEvent)

	return w, nil
}

// retryDelay backs off exponentially from retryBaseDelay, capped at
// retryMaxDelay, which stays well inside CRM rate-limit windows.
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	delay := retryBaseDelay << n
	if delay > retryMaxDelay {
		return retryMaxDelay
	}
	return delay
}

// handleFailure logs tasks that used up their retries or were skipped.
func (w *Worker) handleFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	if retried < maxRetry && !errors.Is(err, asynq.SkipRetry) {
		return
	}
	w.log.Error("crm task dropped", "task", task.Type(), "retried", retried, "error", err)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleTrackEvent(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseTrackEventPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	err = w.gateway.TrackEvent(ctx, payload.Email, payload.EventName, payload.Properties)
	w.metrics.TrackingDelivery("queued", err)
	if err == nil {
		return nil
	}

	w.log.CRMFailure("track_event", payload.Email, err)
	if errors.Is(err, crm.ErrUnauthorized) {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return err
}
