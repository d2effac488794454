package repository

import (
	"context"
	"time"

	"github.com/pulsehq/demosnap/internal/domain"

	"github.com/google/uuid"
)

// SnapshotStore persists the append-only snapshot log per survey. Version
// numbers are assigned by the store, never by callers: NextVersion reads
// persisted state at call time, and the (survey_id, version) uniqueness
// constraint is the final arbiter under concurrent creation. A duplicate
// write fails with domain.ErrVersionConflict and the caller retries with
// a freshly fetched version.
type SnapshotStore interface {
	NextVersion(ctx context.Context, surveyID uuid.UUID) (int64, error)
	Save(ctx context.Context, snapshot domain.Snapshot) (domain.Snapshot, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Snapshot, error)
	FindLatest(ctx context.Context, surveyID uuid.UUID) (domain.Snapshot, error)
	FindByVersion(ctx context.Context, surveyID uuid.UUID, version int64) (domain.Snapshot, error)
	ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]domain.Snapshot, error)
	Archive(ctx context.Context, snapshotID uuid.UUID) error
}

// UserRecord is the live directory's view of one user, the raw material
// for a demographic record.
type UserRecord struct {
	ID          string
	Department  string
	Role        string
	Location    string
	Team        string
	Level       string
	CreatedAt   time.Time
	Preferences map[string]any
}

// UserDirectory reads the live workforce scoped to a company, optionally
// filtered to specific departments. Disabled users are excluded unless
// includeInactive is set.
type UserDirectory interface {
	ListActive(ctx context.Context, companyID uuid.UUID, departmentIDs []string, includeInactive bool) ([]UserRecord, error)
}

// SurveyScope resolves which slice of the workforce a survey covers.
type SurveyScope struct {
	CompanyID     uuid.UUID
	DepartmentIDs []string
}

// SurveyDirectory looks up the owning survey's company and optional
// department restriction.
type SurveyDirectory interface {
	GetScope(ctx context.Context, surveyID uuid.UUID) (SurveyScope, error)
}

// AuditRecorder sinks audit events. Fire-and-forget from the engine's
// perspective: a failed write is an observability gap, not an operation
// failure.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// ReanalysisTrigger notifies downstream consumers that a survey's
// demographics changed. Best-effort: failures are logged, never
// propagated.
type ReanalysisTrigger interface {
	OnDemographicChange(ctx context.Context, surveyID, companyID uuid.UUID, changes []domain.Change, triggeredBy string) error
}
