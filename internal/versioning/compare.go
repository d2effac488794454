package versioning

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulsehq/demosnap/internal/domain"
)

// ComparisonResult bundles the diff of two snapshots with its impact
// analysis and advisory recommendations.
type ComparisonResult struct {
	Changes         []domain.Change       `json:"changes"`
	Impact          domain.ImpactAnalysis `json:"impact_analysis"`
	Recommendations []string              `json:"recommendations"`
}

// CompareSnapshots diffs snapshot A against snapshot B and derives the
// impact summary. The diff treats A as the newer side; callers picking a
// consistent argument order get a consistent displayed direction, and
// swapping the arguments yields the same change set with old/new values
// swapped. Pure apart from the two store reads.
func (s *Service) CompareSnapshots(ctx context.Context, idA, idB uuid.UUID) (ComparisonResult, error) {
	snapshotA, err := s.snapshots.GetByID(ctx, idA)
	if err != nil {
		return ComparisonResult{}, err
	}
	snapshotB, err := s.snapshots.GetByID(ctx, idB)
	if err != nil {
		return ComparisonResult{}, err
	}

	changes := domain.DiffSnapshots(snapshotA, snapshotB, "", s.now())

	hint := snapshotA.Metadata.TotalUsers
	if snapshotB.Metadata.TotalUsers > hint {
		hint = snapshotB.Metadata.TotalUsers
	}

	impact := domain.AnalyzeImpact(changes, hint)
	return ComparisonResult{
		Changes:         changes,
		Impact:          impact,
		Recommendations: domain.Recommendations(impact, changes),
	}, nil
}
