// Package logger wraps slog with the event helpers the lead pipeline logs
// through. Development gets text output at debug level, everything else
// JSON at info.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey struct{}

var requestIDKey contextKey

// ContextWithRequestID stores the request id for WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the id stored by ContextWithRequestID.
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type Logger struct {
	*slog.Logger
}

func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter builds the logger for env on w. LOG_LEVEL, when set to
// debug, info, warn or error, overrides the environment default.
func NewWithWriter(env string, w io.Writer) *Logger {
	level := slog.LevelInfo
	development := strings.EqualFold(env, "development")
	if development {
		level = slog.LevelDebug
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(raw)); err == nil {
			level = parsed
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if development {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

func Discard() *Logger {
	return NewWithWriter("production", io.Discard)
}

// WithContext attaches the request id, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	id := RequestIDFrom(ctx)
	if id == "" {
		return l
	}
	return &Logger{Logger: l.With(slog.String("request_id", id))}
}

// MaskEmail keeps the first character of the local part and the domain,
// e.g. a***@bigbank.com. Visitor addresses never reach the logs in full.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// HTTPRequest is the access log line.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.Error("http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
		slog.String("client_ip", clientIP),
	)
}

// LeadScored records one capture action after it has been scored.
func (l *Logger) LeadScored(email, source string, increment, total int, sequence, version string) {
	l.Info("lead_scored",
		slog.String("email", MaskEmail(email)),
		slog.String("source", source),
		slog.Int("increment", increment),
		slog.Int("total", total),
		slog.String("sequence", sequence),
		slog.String("score_version", version),
	)
}

// CRMFailure is a warning: CRM calls never fail the visitor's request.
func (l *Logger) CRMFailure(operation, email string, err error) {
	l.Warn("crm_failure",
		slog.String("operation", operation),
		slog.String("email", MaskEmail(email)),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
