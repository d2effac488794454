package domain

// DemographicRecord captures one user's structural attributes at snapshot time.
type DemographicRecord struct {
	UserID           string         `json:"user_id"`
	Department       string         `json:"department"`
	Role             string         `json:"role"`
	TenureBucket     string         `json:"tenure_bucket"`
	Location         string         `json:"location,omitempty"`
	Team             string         `json:"team,omitempty"`
	Level            string         `json:"level,omitempty"`
	CustomAttributes map[string]any `json:"custom_attributes,omitempty"`
}

// comparedFields is the fixed attribute set the diff engine inspects.
// Custom attributes are intentionally excluded from field-level comparison.
var comparedFields = []string{
	FieldDepartment,
	FieldRole,
	FieldTenureBucket,
	FieldLocation,
	FieldTeam,
	FieldLevel,
}

// Attribute names as they appear in change field paths.
const (
	FieldDepartment   = "department"
	FieldRole         = "role"
	FieldTenureBucket = "tenureBucket"
	FieldLocation     = "location"
	FieldTeam         = "team"
	FieldLevel        = "level"
)

// AttributeValue returns the value of one of the fixed compared fields.
// An absent optional field reads as the empty string.
func (r DemographicRecord) AttributeValue(name string) string {
	switch name {
	case FieldDepartment:
		return r.Department
	case FieldRole:
		return r.Role
	case FieldTenureBucket:
		return r.TenureBucket
	case FieldLocation:
		return r.Location
	case FieldTeam:
		return r.Team
	case FieldLevel:
		return r.Level
	default:
		return ""
	}
}

// Clone returns a value copy that shares no mutable state with the receiver.
func (r DemographicRecord) Clone() DemographicRecord {
	out := r
	out.CustomAttributes = cloneAttributes(r.CustomAttributes)
	return out
}

// CloneRecords deep-copies a record set so snapshots never alias each other.
func CloneRecords(records []DemographicRecord) []DemographicRecord {
	if records == nil {
		return nil
	}
	out := make([]DemographicRecord, len(records))
	for i, record := range records {
		out[i] = record.Clone()
	}
	return out
}

func cloneAttributes(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		// Attribute values are scalars, so a shallow copy per key is a deep copy.
		out[key] = value
	}
	return out
}
