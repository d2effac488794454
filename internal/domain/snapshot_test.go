package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDeriveMetadata(t *testing.T) {
	records := []DemographicRecord{
		{UserID: "u1", Department: "Eng", Role: "IC", TenureBucket: TenureNew},
		{UserID: "u2", Department: "Eng", Role: "Lead", TenureBucket: TenureOneThreeYears},
		{UserID: "u3", Department: "Sales", Role: "IC", TenureBucket: TenureNew},
	}

	metadata := DeriveMetadata(records)

	if metadata.TotalUsers != 3 {
		t.Errorf("expected 3 total users, got %d", metadata.TotalUsers)
	}
	if metadata.DepartmentsCount != 2 {
		t.Errorf("expected 2 distinct departments, got %d", metadata.DepartmentsCount)
	}
	if metadata.RolesDistribution["IC"] != 2 || metadata.RolesDistribution["Lead"] != 1 {
		t.Errorf("unexpected roles distribution: %v", metadata.RolesDistribution)
	}
	if metadata.TenureDistribution[TenureNew] != 2 {
		t.Errorf("unexpected tenure distribution: %v", metadata.TenureDistribution)
	}
}

func TestSnapshotValidate(t *testing.T) {
	now := time.Now()
	records := []DemographicRecord{{UserID: "u1", Department: "Eng", Role: "IC"}}

	valid := NewSnapshot(uuid.New(), uuid.New(), 1, records, "alice", "initial capture", now)
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid snapshot, got %v", err)
	}

	empty := NewSnapshot(uuid.New(), uuid.New(), 1, nil, "alice", "initial capture", now)
	if err := empty.Validate(); err != ErrEmptyDemographics {
		t.Errorf("expected ErrEmptyDemographics, got %v", err)
	}

	noReason := NewSnapshot(uuid.New(), uuid.New(), 1, records, "alice", "", now)
	if err := noReason.Validate(); err != ErrInvalidReason {
		t.Errorf("expected ErrInvalidReason for empty reason, got %v", err)
	}

	longReason := NewSnapshot(uuid.New(), uuid.New(), 1, records, "alice",
		strings.Repeat("x", MaxReasonLength+1), now)
	if err := longReason.Validate(); err != ErrInvalidReason {
		t.Errorf("expected ErrInvalidReason for oversized reason, got %v", err)
	}
}

func TestNewSnapshotDoesNotAliasRecords(t *testing.T) {
	records := []DemographicRecord{{UserID: "u1", Department: "Eng", Role: "IC",
		CustomAttributes: map[string]any{"theme": "dark"}}}

	snapshot := NewSnapshot(uuid.New(), uuid.New(), 1, records, "alice", "capture", time.Now())

	records[0].Department = "Sales"
	records[0].CustomAttributes["theme"] = "light"

	if snapshot.Records[0].Department != "Eng" {
		t.Errorf("snapshot records must not alias the input slice")
	}
	if snapshot.Records[0].CustomAttributes["theme"] != "dark" {
		t.Errorf("snapshot custom attributes must not alias the input map")
	}
}
