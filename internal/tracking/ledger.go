package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_leads_backend/internal/leads/domain"
)

// Entry is one recorded event in the activity ledger.
type Entry struct {
	ID         uuid.UUID
	Email      string
	EventName  string
	Properties map[string]any
	OccurredAt time.Time
}

// Ledger is the append-only audit trail of tracked events.
type Ledger interface {
	Append(ctx context.Context, entry Entry) error
}

// PgLedger stores entries in the lead_activities table.
type PgLedger struct {
	pool *pgxpool.Pool
}

// NewPgLedger creates a Postgres-backed ledger.
func NewPgLedger(pool *pgxpool.Pool) *PgLedger {
	return &PgLedger{pool: pool}
}

var _ Ledger = (*PgLedger)(nil)

// Append inserts an entry. Entries are never updated.
func (l *PgLedger) Append(ctx context.Context, entry Entry) error {
	props, err := json.Marshal(entry.Properties)
	if err != nil {
		return fmt.Errorf("encode activity properties: %w", err)
	}

	query := `
		INSERT INTO lead_activities (id, email, event_name, properties, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := l.pool.Exec(ctx, query,
		entry.ID, domain.NormalizeEmail(entry.Email), entry.EventName, props, entry.OccurredAt,
	); err != nil {
		return fmt.Errorf("append lead activity: %w", err)
	}
	return nil
}
