package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTrackEvent delivers one behavioural event to the CRM.
const TaskTrackEvent = "crm.track_event"

const (
	trackEventMaxRetry  = 8
	trackEventTimeout   = 30 * time.Second
	trackEventRetention = 24 * time.Hour
)

var errIncompletePayload = errors.New("track event payload missing email or name")

// TrackEventPayload is a CRM behavioural event waiting for delivery.
type TrackEventPayload struct {
	Email      string         `json:"email"`
	EventName  string         `json:"eventName"`
	Properties map[string]any `json:"properties,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Validate rejects payloads the CRM would refuse anyway.
func (p TrackEventPayload) Validate() error {
	if p.Email == "" || p.EventName == "" {
		return errIncompletePayload
	}
	return nil
}

// NewTrackEventTask encodes the payload. Options carry the queue and the
// retry budget so every enqueue path behaves the same.
func NewTrackEventTask(payload TrackEventPayload, opts ...asynq.Option) (*asynq.Task, error) {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", TaskTrackEvent, err)
	}
	return asynq.NewTask(TaskTrackEvent, data, opts...), nil
}

func trackEventOptions(queue string) []asynq.Option {
	return []asynq.Option{
		asynq.Queue(queue),
		asynq.MaxRetry(trackEventMaxRetry),
		asynq.Timeout(trackEventTimeout),
		asynq.Retention(trackEventRetention),
	}
}

// ParseTrackEventPayload decodes and validates a task body.
func ParseTrackEventPayload(task *asynq.Task) (TrackEventPayload, error) {
	var payload TrackEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return TrackEventPayload{}, fmt.Errorf("decode %s: %w", TaskTrackEvent, err)
	}
	if err := payload.Validate(); err != nil {
		return TrackEventPayload{}, err
	}
	return payload, nil
}
