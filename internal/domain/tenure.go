package domain

import "time"

// Tenure bucket labels, highest threshold first.
const (
	TenureFivePlusYears  = "5+ years"
	TenureThreeFiveYears = "3-5 years"
	TenureOneThreeYears  = "1-3 years"
	TenureSixTwelve      = "6-12 months"
	TenureThreeSix       = "3-6 months"
	TenureNew            = "new"
)

// TenureBucket maps a user's account age to a categorical label. The
// derivation happens only when a record is materialized from the live
// directory, never during diff or replay.
func TenureBucket(createdAt, now time.Time) string {
	months := wholeMonths(createdAt, now)
	switch {
	case months >= 60:
		return TenureFivePlusYears
	case months >= 36:
		return TenureThreeFiveYears
	case months >= 12:
		return TenureOneThreeYears
	case months >= 6:
		return TenureSixTwelve
	case months >= 3:
		return TenureThreeSix
	default:
		return TenureNew
	}
}

// wholeMonths counts full calendar months elapsed between two instants.
func wholeMonths(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
