// Package versioning orchestrates demographic snapshot creation,
// comparison, rollback and retention over the snapshot store.
package versioning

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pulsehq/demosnap/internal/domain"
	"github.com/pulsehq/demosnap/internal/repository"
	"github.com/pulsehq/demosnap/pkg/attrs"
)

// saveAttempts bounds the version-conflict retry loop: one retry with a
// freshly fetched version before the conflict surfaces to the caller.
const saveAttempts = 2

// defaultKeepVersions is the retention depth when none is requested.
const defaultKeepVersions = 10

// Service orchestrates snapshot operations. All I/O runs sequentially
// within one request context; the only shared mutable resource is the
// per-survey snapshot log, which is append-only.
type Service struct {
	snapshots repository.SnapshotStore
	users     repository.UserDirectory
	surveys   repository.SurveyDirectory
	audit     repository.AuditRecorder
	trigger   repository.ReanalysisTrigger

	now func() time.Time
}

// Option customizes service construction.
type Option func(*Service)

// WithReanalysisTrigger attaches the best-effort downstream hook.
func WithReanalysisTrigger(trigger repository.ReanalysisTrigger) Option {
	return func(s *Service) {
		s.trigger = trigger
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a versioning service.
func NewService(
	snapshots repository.SnapshotStore,
	users repository.UserDirectory,
	surveys repository.SurveyDirectory,
	audit repository.AuditRecorder,
	opts ...Option,
) *Service {
	service := &Service{
		snapshots: snapshots,
		users:     users,
		surveys:   surveys,
		audit:     audit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateSnapshotRequest carries the inputs for a snapshot creation.
type CreateSnapshotRequest struct {
	SurveyID        uuid.UUID
	CompanyID       uuid.UUID
	CreatedBy       string
	Reason          string
	IncludeInactive bool
}

// CreateSnapshot captures the current workforce for a survey as a new
// immutable version. The record set is pulled live from the directory,
// tenure buckets are derived at build time, and the change set is
// computed against the immediately preceding version. A version race
// against a concurrent creator is retried once with a fresh version.
func (s *Service) CreateSnapshot(ctx context.Context, req CreateSnapshotRequest) (domain.Snapshot, error) {
	if err := domain.ValidateReason(req.Reason); err != nil {
		return domain.Snapshot{}, err
	}

	scope, err := s.surveys.GetScope(ctx, req.SurveyID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if scope.CompanyID != uuid.Nil && scope.CompanyID != req.CompanyID {
		return domain.Snapshot{}, fmt.Errorf("survey %s does not belong to company %s", req.SurveyID, req.CompanyID)
	}

	users, err := s.users.ListActive(ctx, req.CompanyID, scope.DepartmentIDs, req.IncludeInactive)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read user directory: %w", err)
	}

	now := s.now()
	records := buildRecords(users, now)

	saved, err := s.saveWithRetry(ctx, req.SurveyID, func(version int64) (domain.Snapshot, error) {
		candidate := domain.NewSnapshot(req.SurveyID, req.CompanyID, version,
			records, req.CreatedBy, req.Reason, now)

		previous, err := s.snapshots.FindLatest(ctx, req.SurveyID)
		switch {
		case err == nil:
			if previous.Version < version {
				candidate.Changes = domain.DiffSnapshots(candidate, previous, req.CreatedBy, now)
			}
		case isNotFound(err):
			// First version: empty change set.
		default:
			return domain.Snapshot{}, fmt.Errorf("failed to load previous snapshot: %w", err)
		}

		return s.snapshots.Save(ctx, candidate)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.fireReanalysis(ctx, saved, req.CreatedBy)
	s.recordAudit(ctx, req.CreatedBy, domain.AuditSnapshotCreated, saved, map[string]any{
		"survey_id":     saved.SurveyID.String(),
		"version":       saved.Version,
		"reason":        saved.Reason,
		"total_users":   saved.Metadata.TotalUsers,
		"changes_count": len(saved.Changes),
	})

	return saved, nil
}

// GetHistory returns the active snapshot log for a survey, newest first.
func (s *Service) GetHistory(ctx context.Context, surveyID uuid.UUID) ([]domain.Snapshot, error) {
	return s.snapshots.ListBySurvey(ctx, surveyID)
}

// GetSnapshot fetches one snapshot by id.
func (s *Service) GetSnapshot(ctx context.Context, id uuid.UUID) (domain.Snapshot, error) {
	return s.snapshots.GetByID(ctx, id)
}

// ArchiveOldSnapshots marks all but the most recent keepVersions active
// snapshots inactive and returns how many were archived. Nothing is ever
// physically deleted.
func (s *Service) ArchiveOldSnapshots(ctx context.Context, surveyID uuid.UUID, keepVersions int) (int, error) {
	if keepVersions <= 0 {
		keepVersions = defaultKeepVersions
	}

	history, err := s.snapshots.ListBySurvey(ctx, surveyID)
	if err != nil {
		return 0, err
	}
	if len(history) <= keepVersions {
		return 0, nil
	}

	archived := 0
	for _, snapshot := range history[keepVersions:] {
		if err := s.snapshots.Archive(ctx, snapshot.ID); err != nil {
			return archived, fmt.Errorf("failed to archive snapshot version %d: %w", snapshot.Version, err)
		}
		archived++
	}
	log.Printf("[VERSIONING] archived %d snapshots for survey %s, keeping %d", archived, surveyID, keepVersions)
	return archived, nil
}

// saveWithRetry allocates a fresh version per attempt and retries once
// when the store reports a (survey_id, version) conflict.
func (s *Service) saveWithRetry(ctx context.Context, surveyID uuid.UUID, build func(version int64) (domain.Snapshot, error)) (domain.Snapshot, error) {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		version, err := s.snapshots.NextVersion(ctx, surveyID)
		if err != nil {
			return domain.Snapshot{}, err
		}

		saved, err := build(version)
		if err == nil {
			return saved, nil
		}
		if !isConflict(err) {
			return domain.Snapshot{}, err
		}
		lastErr = err
		log.Printf("[VERSIONING] version %d conflicted, retrying with a fresh version", version)
	}
	return domain.Snapshot{}, lastErr
}

// fireReanalysis invokes the downstream hook when the snapshot carries
// changes. Best-effort: a failure here is logged and swallowed, never
// failing the already-committed snapshot.
func (s *Service) fireReanalysis(ctx context.Context, snapshot domain.Snapshot, triggeredBy string) {
	if s.trigger == nil || len(snapshot.Changes) == 0 {
		return
	}
	if err := s.trigger.OnDemographicChange(ctx, snapshot.SurveyID, snapshot.CompanyID, snapshot.Changes, triggeredBy); err != nil {
		log.Printf("[VERSIONING] reanalysis trigger failed for survey %s: %v", snapshot.SurveyID, err)
	}
}

// recordAudit writes the trail entry for a committed snapshot. Audit
// failures never roll the snapshot back.
func (s *Service) recordAudit(ctx context.Context, actor, action string, snapshot domain.Snapshot, details map[string]any) {
	if s.audit == nil {
		return
	}
	event := domain.NewAuditEvent(actor, action, snapshot.ID, details, s.now())
	if err := s.audit.Record(ctx, event); err != nil {
		log.Printf("[VERSIONING] audit write failed for snapshot %s: %v", snapshot.ID, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrSnapshotNotFound) || errors.Is(err, domain.ErrVersionNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrVersionConflict)
}

// buildRecords materializes demographic records from live directory rows,
// deriving tenure buckets and normalizing custom attribute bags.
func buildRecords(users []repository.UserRecord, now time.Time) []domain.DemographicRecord {
	records := make([]domain.DemographicRecord, len(users))
	for i, user := range users {
		records[i] = domain.DemographicRecord{
			UserID:           user.ID,
			Department:       user.Department,
			Role:             user.Role,
			TenureBucket:     domain.TenureBucket(user.CreatedAt, now),
			Location:         user.Location,
			Team:             user.Team,
			Level:            user.Level,
			CustomAttributes: attrs.Normalize(user.Preferences),
		}
	}
	return records
}
