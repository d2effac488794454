package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit action kinds emitted by the versioning engine.
const (
	AuditSnapshotCreated  = "demographic_snapshot_created"
	AuditSnapshotRollback = "demographic_snapshot_rollback"
)

// AuditResourceSnapshot is the resource type carried on snapshot events.
const AuditResourceSnapshot = "demographic_snapshot"

// AuditEvent records one versioning operation for the audit trail. Audit
// writes are observability, not transactional participants: by the time
// an event is recorded the snapshot has already committed.
type AuditEvent struct {
	ID           uuid.UUID      `json:"id"`
	Actor        string         `json:"actor"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewAuditEvent builds an event for a snapshot-level action.
func NewAuditEvent(actor, action string, resourceID uuid.UUID, details map[string]any, at time.Time) AuditEvent {
	return AuditEvent{
		ID:           uuid.New(),
		Actor:        actor,
		Action:       action,
		ResourceType: AuditResourceSnapshot,
		ResourceID:   resourceID.String(),
		Details:      details,
		Timestamp:    at,
	}
}
