package domain

import (
	"strings"
	"testing"
)

func TestRecommendationsRuleOrder(t *testing.T) {
	analysis := ImpactAnalysis{
		ImpactScore:         85,
		Additions:           1,
		Removals:            1,
		AffectedDepartments: []string{"A", "B", "C", "D"},
		AffectedRoles:       []string{"IC", "Lead", "Manager"},
	}
	changes := []Change{
		{Field: "u1.role", OldValue: "IC", NewValue: "Lead"},
		{Field: "u2.department", OldValue: "Eng", NewValue: "Sales"},
	}

	recommendations := Recommendations(analysis, changes)
	if len(recommendations) != 7 {
		t.Fatalf("expected all 7 rules to fire, got %d: %v", len(recommendations), recommendations)
	}

	expectedOrder := []string{"High-impact", "added", "removed", "department-level", "role-based", "permissions", "department-scoped"}
	for i, needle := range expectedOrder {
		if !strings.Contains(recommendations[i], needle) {
			t.Errorf("recommendation %d should mention %q, got %q", i, needle, recommendations[i])
		}
	}
}

func TestRecommendationsQuietChangeSet(t *testing.T) {
	analysis := ImpactAnalysis{ImpactScore: 5, Modifications: 1, AffectedRoles: []string{"IC"}}
	changes := []Change{{Field: "u1.location", OldValue: "Berlin", NewValue: "Munich"}}

	recommendations := Recommendations(analysis, changes)
	if len(recommendations) != 0 {
		t.Errorf("expected no recommendations for a quiet change set, got %v", recommendations)
	}
}

func TestRecommendationsDeterministic(t *testing.T) {
	analysis := ImpactAnalysis{ImpactScore: 75, Additions: 2}
	changes := []Change{{Field: RecordField("u1")}, {Field: RecordField("u2")}}

	first := Recommendations(analysis, changes)
	second := Recommendations(analysis, changes)
	if len(first) != len(second) {
		t.Fatalf("expected deterministic output, got %v and %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("output differs at %d: %q vs %q", i, first[i], second[i])
		}
	}
}
