package domain

import "errors"

// Error taxonomy shared by the store and orchestration layers. Validation
// errors are rejected before any persistence; not-found errors map to a
// caller-facing 404; the version conflict is retried once by callers with
// a freshly fetched version before being surfaced.
var (
	ErrEmptyDemographics = errors.New("snapshot must contain at least one demographic record")
	ErrInvalidReason     = errors.New("reason must be non-empty and within the length bound")
	ErrVersionConflict   = errors.New("snapshot version already exists for survey")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrVersionNotFound   = errors.New("snapshot version not found")
	ErrSurveyNotFound    = errors.New("survey not found")
)
