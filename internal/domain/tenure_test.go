package domain

import (
	"testing"
	"time"
)

func TestTenureBucket(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		createdAt time.Time
		expected  string
	}{
		{"brand new", now.AddDate(0, 0, -10), TenureNew},
		{"just under three months", time.Date(2026, time.March, 16, 12, 0, 0, 0, time.UTC), TenureNew},
		{"exactly three months", time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC), TenureThreeSix},
		{"five months", time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC), TenureThreeSix},
		{"six months", time.Date(2025, time.December, 15, 12, 0, 0, 0, time.UTC), TenureSixTwelve},
		{"eleven months", time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC), TenureSixTwelve},
		{"one year", time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC), TenureOneThreeYears},
		{"three years", time.Date(2023, time.June, 15, 12, 0, 0, 0, time.UTC), TenureThreeFiveYears},
		{"just under five years", time.Date(2021, time.June, 16, 12, 0, 0, 0, time.UTC), TenureThreeFiveYears},
		{"five years", time.Date(2021, time.June, 15, 12, 0, 0, 0, time.UTC), TenureFivePlusYears},
		{"ten years", time.Date(2016, time.June, 15, 12, 0, 0, 0, time.UTC), TenureFivePlusYears},
		{"created in the future", now.AddDate(0, 1, 0), TenureNew},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TenureBucket(tc.createdAt, now); got != tc.expected {
				t.Errorf("expected bucket %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestWholeMonthsDayBoundary(t *testing.T) {
	from := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)
	if got := wholeMonths(from, to); got != 0 {
		t.Errorf("expected 0 whole months before the day boundary, got %d", got)
	}

	to = time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	if got := wholeMonths(from, to); got != 2 {
		t.Errorf("expected 2 whole months, got %d", got)
	}
}
