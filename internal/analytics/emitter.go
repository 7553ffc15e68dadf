// Package analytics emits best-effort conversion events to zero or more
// collectors. Emission never affects the visitor's action.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"

	"golang.org/x/sync/errgroup"
)

const defaultCurrency = "GBP"

// Conversion is a completed lead-generation action.
type Conversion struct {
	Type       string         `json:"type"`
	Email      string         `json:"email,omitempty"`
	Source     string         `json:"source"`
	Score      int            `json:"score"`
	Value      float64        `json:"value"`
	Currency   string         `json:"currency"`
	OccurredAt time.Time      `json:"occurredAt"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Emitter sends conversions to one collector.
type Emitter interface {
	Name() string
	Emit(ctx context.Context, c Conversion) error
}

// Fanout delivers to every sink concurrently. An empty Fanout does nothing.
type Fanout struct {
	sinks   []Emitter
	log     *logger.Logger
	metrics *metrics.Registry
}

// NewFanout combines sinks. Nil sinks are skipped.
func NewFanout(log *logger.Logger, m *metrics.Registry, sinks ...Emitter) *Fanout {
	f := &Fanout{log: log, metrics: m}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *Fanout) Name() string { return "fanout" }

// Len returns the number of sinks.
func (f *Fanout) Len() int { return len(f.sinks) }

// Emit sends to all sinks and joins their errors. One failing sink does
// not stop the others.
func (f *Fanout) Emit(ctx context.Context, c Conversion) error {
	if len(f.sinks) == 0 {
		return nil
	}
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	if c.OccurredAt.IsZero() {
		c.OccurredAt = time.Now().UTC()
	}

	errs := make([]error, len(f.sinks))
	var g errgroup.Group
	for i, sink := range f.sinks {
		g.Go(func() error {
			err := sink.Emit(ctx, c)
			f.metrics.AnalyticsEmit(sink.Name(), err)
			if err != nil {
				f.log.Warn("analytics emit failed", "sink", sink.Name(), "conversion", c.Type, "error", err)
				errs[i] = fmt.Errorf("%s: %w", sink.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

var _ Emitter = (*Fanout)(nil)
