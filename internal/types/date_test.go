package types

import (
	"testing"
	"time"
)

func TestAddClampedDate_Months(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "simple next month",
			start:  time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "jan 31 clamps to feb 28",
			start:  time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "jan 31 clamps to feb 29 in leap year",
			start:  time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "two months from jan 31 lands on mar 31",
			start:  time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
			months: 2,
			want:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "cross year boundary",
			start:  time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			months: 2,
			want:   time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "preserves time of day",
			start:  time.Date(2026, time.March, 31, 10, 30, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2026, time.April, 30, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, 0, tt.months, 0)
			if !got.Equal(tt.want) {
				t.Errorf("AddClampedDate(%v, 0, %d, 0) = %v, want %v",
					tt.start, tt.months, got, tt.want)
			}
		})
	}
}

func TestIsDateBefore(t *testing.T) {
	morning := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.June, 1, 22, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC)

	if IsDateBefore(morning, evening) {
		t.Error("same calendar day must not compare as before")
	}
	if !IsDateBefore(evening, nextDay) {
		t.Error("earlier calendar day must compare as before")
	}
	if IsDateBefore(nextDay, morning) {
		t.Error("later calendar day must not compare as before")
	}
}
