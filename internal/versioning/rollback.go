package versioning

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pulsehq/demosnap/internal/domain"
)

// RollbackToSnapshot materializes a new snapshot whose record set equals
// the target historical version. Rollback is never a delete or overwrite
// of history: it is a forward version whose content matches a prior one,
// diffed against the current latest version so the audit trail shows the
// actual net effect of going back.
func (s *Service) RollbackToSnapshot(ctx context.Context, surveyID uuid.UUID, targetVersion int64, rolledBackBy, reason string) (domain.Snapshot, error) {
	if err := domain.ValidateReason(reason); err != nil {
		return domain.Snapshot{}, err
	}

	target, err := s.snapshots.FindByVersion(ctx, surveyID, targetVersion)
	if err != nil {
		return domain.Snapshot{}, err
	}

	now := s.now()
	rollbackReason := fmt.Sprintf("Rollback to version %d: %s", targetVersion, reason)

	saved, err := s.saveWithRetry(ctx, surveyID, func(version int64) (domain.Snapshot, error) {
		candidate := domain.NewSnapshot(surveyID, target.CompanyID, version,
			target.Records, rolledBackBy, rollbackReason, now)

		current, err := s.snapshots.FindLatest(ctx, surveyID)
		switch {
		case err == nil:
			if current.Version != targetVersion {
				candidate.Changes = domain.DiffSnapshots(candidate, current, rolledBackBy, now)
			}
		case isNotFound(err):
			// No active snapshot left: nothing to diff against.
		default:
			return domain.Snapshot{}, fmt.Errorf("failed to load current snapshot: %w", err)
		}

		return s.snapshots.Save(ctx, candidate)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.recordAudit(ctx, rolledBackBy, domain.AuditSnapshotRollback, saved, map[string]any{
		"survey_id":      saved.SurveyID.String(),
		"version":        saved.Version,
		"target_version": targetVersion,
		"reason":         saved.Reason,
		"total_users":    saved.Metadata.TotalUsers,
		"changes_count":  len(saved.Changes),
	})

	return saved, nil
}
