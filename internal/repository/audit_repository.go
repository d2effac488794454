package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsehq/demosnap/internal/domain"
)

// auditRepository implements AuditRecorder over the audit_events table.
type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a Postgres-backed audit sink.
func NewAuditRepository(pool *pgxpool.Pool) AuditRecorder {
	return &auditRepository{pool: pool}
}

// Record appends one audit event. Callers treat failures as observability
// gaps; the snapshot operation has already committed by the time this runs.
func (r *auditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_events (id, actor, action, resource_type, resource_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.Actor, event.Action, event.ResourceType, event.ResourceID,
		detailsJSON, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}
