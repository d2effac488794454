package domain

import (
	"strings"
	"time"
)

// ChangeKind classifies a detected difference between two record sets.
type ChangeKind string

const (
	ChangeKindAddition     ChangeKind = "addition"
	ChangeKindModification ChangeKind = "modification"
	ChangeKindRemoval      ChangeKind = "removal"
)

// recordFieldPrefix marks a whole-record addition or removal event.
const recordFieldPrefix = "user."

// Change is one detected difference between two snapshots' record sets.
// For attribute modifications Field is "<userId>.<attribute>" and both
// values are strings. For whole-record events Field is "user.<userId>"
// and exactly one of OldValue/NewValue is nil: a nil OldValue marks an
// addition, a nil NewValue marks a removal.
type Change struct {
	Field     string    `json:"field"`
	OldValue  any       `json:"old_value"`
	NewValue  any       `json:"new_value"`
	ChangedBy string    `json:"changed_by,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}

// RecordField builds the field path for a whole-record add/remove event.
func RecordField(userID string) string {
	return recordFieldPrefix + userID
}

// AttributeField builds the field path for an attribute-level modification.
func AttributeField(userID, attribute string) string {
	return userID + "." + attribute
}

// IsWholeRecord reports whether the change is a record add/remove event.
func (c Change) IsWholeRecord() bool {
	return strings.HasPrefix(c.Field, recordFieldPrefix)
}

// Kind classifies the change by field shape and nil sides.
func (c Change) Kind() ChangeKind {
	if c.IsWholeRecord() {
		if c.OldValue == nil {
			return ChangeKindAddition
		}
		return ChangeKindRemoval
	}
	return ChangeKindModification
}

// UserIDFromField extracts the user identifier from a change field path.
// Both field forms carry the id as the first path segment: whole-record
// events as "user.<userId>", modifications as "<userId>.<attribute>".
func UserIDFromField(field string) string {
	if rest, ok := strings.CutPrefix(field, recordFieldPrefix); ok {
		return rest
	}
	if idx := strings.Index(field, "."); idx >= 0 {
		return field[:idx]
	}
	return field
}
