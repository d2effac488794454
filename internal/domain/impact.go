package domain

import (
	"math"
	"sort"
)

// Impact score bands used for UI display and recommendation gating.
const (
	ImpactLevelLow    = "low"
	ImpactLevelMedium = "medium"
	ImpactLevelHigh   = "high"
)

// ImpactAnalysis is the derived, non-persisted summary of a change set.
type ImpactAnalysis struct {
	AffectedUsers       int      `json:"affected_users"`
	AffectedDepartments []string `json:"affected_departments"`
	AffectedRoles       []string `json:"affected_roles"`
	Additions           int      `json:"additions"`
	Modifications       int      `json:"modifications"`
	Removals            int      `json:"removals"`
	ImpactScore         int      `json:"impact_score"`
}

// Level maps the 0-100 score to its display band.
func (a ImpactAnalysis) Level() string {
	switch {
	case a.ImpactScore >= 70:
		return ImpactLevelHigh
	case a.ImpactScore >= 40:
		return ImpactLevelMedium
	default:
		return ImpactLevelLow
	}
}

// AnalyzeImpact scores a change set against the larger of the two compared
// snapshots' user counts. The score combines the fraction of affected
// users with the raw change volume, capped at 100. A non-positive hint
// zeroes the ratio terms instead of dividing by zero.
func AnalyzeImpact(changes []Change, totalUsersHint int) ImpactAnalysis {
	affectedUsers := map[string]struct{}{}
	departments := map[string]struct{}{}
	roles := map[string]struct{}{}

	analysis := ImpactAnalysis{}

	for _, change := range changes {
		affectedUsers[UserIDFromField(change.Field)] = struct{}{}

		switch change.Kind() {
		case ChangeKindAddition:
			analysis.Additions++
		case ChangeKindRemoval:
			analysis.Removals++
		default:
			analysis.Modifications++
		}

		collectRecordFacets(change.OldValue, departments, roles)
		collectRecordFacets(change.NewValue, departments, roles)
	}

	analysis.AffectedUsers = len(affectedUsers)
	analysis.AffectedDepartments = sortedKeys(departments)
	analysis.AffectedRoles = sortedKeys(roles)

	if totalUsersHint > 0 {
		changeRatio := float64(len(affectedUsers)) / float64(totalUsersHint)
		volume := float64(len(changes)) / float64(totalUsersHint) * 50
		score := int(math.Round(changeRatio*100 + volume))
		if score > 100 {
			score = 100
		}
		analysis.ImpactScore = score
	}

	return analysis
}

// collectRecordFacets pulls department and role values out of a change
// value when that value is a whole demographic record. Scalar values from
// attribute-level modifications are ignored. Records arrive either as the
// typed struct (freshly diffed) or as a decoded JSON map (loaded from the
// store).
func collectRecordFacets(value any, departments, roles map[string]struct{}) {
	switch typed := value.(type) {
	case DemographicRecord:
		if typed.Department != "" {
			departments[typed.Department] = struct{}{}
		}
		if typed.Role != "" {
			roles[typed.Role] = struct{}{}
		}
	case map[string]any:
		if dept, ok := typed["department"].(string); ok && dept != "" {
			departments[dept] = struct{}{}
		}
		if role, ok := typed["role"].(string); ok && role != "" {
			roles[role] = struct{}{}
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
