package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsehq/demosnap/internal/domain"
)

// uniqueViolation is the Postgres error code raised when the
// (survey_id, version) constraint rejects a concurrent write.
const uniqueViolation = "23505"

const snapshotColumns = "id, survey_id, company_id, version, created_at, created_by, reason, records, changes, metadata, is_active"

// snapshotRepository implements SnapshotStore over Postgres.
type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a Postgres-backed snapshot store.
func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotStore {
	return &snapshotRepository{pool: pool}
}

// NextVersion computes latest version + 1 from persisted state at call
// time. Archived snapshots still count: version numbers are never reused.
func (r *snapshotRepository) NextVersion(ctx context.Context, surveyID uuid.UUID) (int64, error) {
	var next int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM demographic_snapshots WHERE survey_id = $1`,
		surveyID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next snapshot version: %w", err)
	}
	return next, nil
}

// Save persists a candidate snapshot. The write is all-or-nothing: a
// single INSERT that either commits the full snapshot or nothing.
func (r *snapshotRepository) Save(ctx context.Context, snapshot domain.Snapshot) (domain.Snapshot, error) {
	if err := snapshot.Validate(); err != nil {
		return domain.Snapshot{}, err
	}

	recordsJSON, err := json.Marshal(snapshot.Records)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to marshal records: %w", err)
	}
	changesJSON, err := json.Marshal(snapshot.Changes)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to marshal changes: %w", err)
	}
	metadataJSON, err := json.Marshal(snapshot.Metadata)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO demographic_snapshots (id, survey_id, company_id, version, created_at, created_by, reason, records, changes, metadata, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		snapshot.ID, snapshot.SurveyID, snapshot.CompanyID, snapshot.Version,
		snapshot.Timestamp, snapshot.CreatedBy, snapshot.Reason,
		recordsJSON, changesJSON, metadataJSON, snapshot.IsActive,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Snapshot{}, fmt.Errorf("version %d for survey %s: %w",
				snapshot.Version, snapshot.SurveyID, domain.ErrVersionConflict)
		}
		return domain.Snapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return snapshot, nil
}

// GetByID retrieves one snapshot regardless of its archive flag.
func (r *snapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Snapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM demographic_snapshots WHERE id = $1`, id)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snapshot, nil
}

// FindLatest returns the most recent active snapshot for a survey.
func (r *snapshotRepository) FindLatest(ctx context.Context, surveyID uuid.UUID) (domain.Snapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM demographic_snapshots
		 WHERE survey_id = $1 AND is_active
		 ORDER BY version DESC LIMIT 1`, surveyID)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	return snapshot, nil
}

// FindByVersion retrieves a specific version, archived or not, so
// rollback targets survive retention.
func (r *snapshotRepository) FindByVersion(ctx context.Context, surveyID uuid.UUID, version int64) (domain.Snapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM demographic_snapshots
		 WHERE survey_id = $1 AND version = $2`, surveyID, version)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrVersionNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("failed to find snapshot version: %w", err)
	}
	return snapshot, nil
}

// ListBySurvey returns active snapshots ordered by version descending.
func (r *snapshotRepository) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]domain.Snapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM demographic_snapshots
		 WHERE survey_id = $1 AND is_active
		 ORDER BY version DESC`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []domain.Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	return snapshots, nil
}

// Archive marks a snapshot inactive. Idempotent; archived snapshots are
// retained for audit, never physically deleted.
func (r *snapshotRepository) Archive(ctx context.Context, snapshotID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE demographic_snapshots SET is_active = FALSE WHERE id = $1`, snapshotID)
	if err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	return nil
}

func scanSnapshot(row pgx.Row) (domain.Snapshot, error) {
	var (
		snapshot     domain.Snapshot
		createdAt    time.Time
		recordsJSON  []byte
		changesJSON  []byte
		metadataJSON []byte
	)
	err := row.Scan(
		&snapshot.ID, &snapshot.SurveyID, &snapshot.CompanyID, &snapshot.Version,
		&createdAt, &snapshot.CreatedBy, &snapshot.Reason,
		&recordsJSON, &changesJSON, &metadataJSON, &snapshot.IsActive,
	)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snapshot.Timestamp = createdAt

	if err := json.Unmarshal(recordsJSON, &snapshot.Records); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to decode records for snapshot %s: %w", snapshot.ID, err)
	}
	if err := json.Unmarshal(changesJSON, &snapshot.Changes); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to decode changes for snapshot %s: %w", snapshot.ID, err)
	}
	if err := json.Unmarshal(metadataJSON, &snapshot.Metadata); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to decode metadata for snapshot %s: %w", snapshot.ID, err)
	}
	return snapshot, nil
}
