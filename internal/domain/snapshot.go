package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxReasonLength bounds the free-text provenance on a snapshot.
const MaxReasonLength = 500

// SnapshotMetadata is the aggregate view derived from a snapshot's records
// at write time. It is never hand-edited.
type SnapshotMetadata struct {
	TotalUsers         int            `json:"total_users"`
	DepartmentsCount   int            `json:"departments_count"`
	RolesDistribution  map[string]int `json:"roles_distribution"`
	TenureDistribution map[string]int `json:"tenure_distribution"`
}

// Snapshot is an immutable, version-numbered capture of all demographic
// records for a survey at a point in time. Snapshots form an append-only
// log per survey: versions are assigned by the store, strictly increasing
// from 1, and no snapshot is ever mutated after save.
type Snapshot struct {
	ID        uuid.UUID           `json:"id"`
	SurveyID  uuid.UUID           `json:"survey_id"`
	CompanyID uuid.UUID           `json:"company_id"`
	Version   int64               `json:"version"`
	Timestamp time.Time           `json:"timestamp"`
	Records   []DemographicRecord `json:"records"`
	Changes   []Change            `json:"changes"`
	CreatedBy string              `json:"created_by"`
	Reason    string              `json:"reason"`
	Metadata  SnapshotMetadata    `json:"metadata"`
	IsActive  bool                `json:"is_active"`
}

// NewSnapshot assembles a candidate snapshot, deep-copying the record set
// and deriving metadata aggregates. Changes start empty; the caller diffs
// against the prior version before saving.
func NewSnapshot(surveyID, companyID uuid.UUID, version int64, records []DemographicRecord, createdBy, reason string, at time.Time) Snapshot {
	return Snapshot{
		ID:        uuid.New(),
		SurveyID:  surveyID,
		CompanyID: companyID,
		Version:   version,
		Timestamp: at,
		Records:   CloneRecords(records),
		Changes:   []Change{},
		CreatedBy: createdBy,
		Reason:    reason,
		Metadata:  DeriveMetadata(records),
		IsActive:  true,
	}
}

// DeriveMetadata computes the aggregate counts and histograms for a record set.
func DeriveMetadata(records []DemographicRecord) SnapshotMetadata {
	departments := map[string]struct{}{}
	roles := make(map[string]int)
	tenure := make(map[string]int)
	for _, record := range records {
		departments[record.Department] = struct{}{}
		roles[record.Role]++
		tenure[record.TenureBucket]++
	}
	return SnapshotMetadata{
		TotalUsers:         len(records),
		DepartmentsCount:   len(departments),
		RolesDistribution:  roles,
		TenureDistribution: tenure,
	}
}

// ValidateReason enforces the non-empty, bounded-length provenance rule.
func ValidateReason(reason string) error {
	if reason == "" || utf8.RuneCountInString(reason) > MaxReasonLength {
		return ErrInvalidReason
	}
	return nil
}

// Validate checks the invariants the store enforces before persisting.
func (s Snapshot) Validate() error {
	if len(s.Records) == 0 {
		return ErrEmptyDemographics
	}
	return ValidateReason(s.Reason)
}
