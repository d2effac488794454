package domain

import "strings"

// Recommendations produces human-readable advisories for a computed change
// set. The output is deterministic for the same inputs: rules fire in a
// fixed order and each rule contributes at most one string.
func Recommendations(analysis ImpactAnalysis, changes []Change) []string {
	recommendations := []string{}

	if analysis.Level() == ImpactLevelHigh {
		recommendations = append(recommendations,
			"High-impact demographic change detected; re-run survey analysis to refresh results.")
	}
	if analysis.Additions > 0 {
		recommendations = append(recommendations,
			"New users were added; review survey targeting to include them.")
	}
	if analysis.Removals > 0 {
		recommendations = append(recommendations,
			"Users were removed; review response validity for departed participants.")
	}
	if len(analysis.AffectedDepartments) > 3 {
		recommendations = append(recommendations,
			"Multiple departments affected; consider a department-level analysis.")
	}
	if len(analysis.AffectedRoles) > 2 {
		recommendations = append(recommendations,
			"Multiple roles affected; review role-based insights.")
	}
	if anyFieldContains(changes, "."+FieldRole) {
		recommendations = append(recommendations,
			"Role changes detected; review permissions and dashboard access.")
	}
	if anyFieldContains(changes, "."+FieldDepartment) {
		recommendations = append(recommendations,
			"Department changes detected; review department-scoped surveys.")
	}

	return recommendations
}

func anyFieldContains(changes []Change, needle string) bool {
	for _, change := range changes {
		if strings.Contains(change.Field, needle) {
			return true
		}
	}
	return false
}
