// Package scheduler moves CRM behavioural events through an asynq queue so
// the visitor's request never waits on the CRM.
package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"portfolio_leads_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultQueue = "default"

var errRedisNotConfigured = errors.New("redis url not configured")

// Client enqueues CRM events for the worker in cmd/scheduler.
type Client struct {
	client *asynq.Client
	queue  string
}

// TrackEventEnqueuer hands CRM events to the worker.
type TrackEventEnqueuer interface {
	EnqueueTrackEvent(ctx context.Context, payload TrackEventPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := connOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueTrackEvent(ctx context.Context, payload TrackEventPayload) error {
	if c == nil || c.client == nil {
		return errors.New("scheduler client not configured")
	}
	if err := payload.Validate(); err != nil {
		return err
	}
	task, err := NewTrackEventTask(payload, trackEventOptions(c.queue)...)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskTrackEvent, err)
	}
	return nil
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return defaultQueue
}

// RedisOptions parses the shared redis URL for go-redis consumers such as
// the visitor session store.
func RedisOptions(cfg config.SchedulerConfig) (*redis.Options, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	opt.TLSConfig = tlsConfig(opt.TLSConfig, cfg.GetRedisTLSInsecure())
	return opt, nil
}

func connOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	if cfg.GetRedisURL() == "" {
		return asynq.RedisClientOpt{}, errRedisNotConfigured
	}
	return redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig(opt.TLSConfig, tlsInsecure),
	}, nil
}

// tlsConfig clones base (set by rediss:// URLs) and applies the insecure
// override. It stays nil for plain redis:// unless insecure is requested.
func tlsConfig(base *tls.Config, insecure bool) *tls.Config {
	switch {
	case base != nil:
		clone := base.Clone()
		if insecure {
			clone.InsecureSkipVerify = true
		}
		return clone
	case insecure:
		return &tls.Config{InsecureSkipVerify: true}
	default:
		return nil
	}
}

var _ TrackEventEnqueuer = (*Client)(nil)
