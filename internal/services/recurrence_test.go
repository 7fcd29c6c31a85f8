package services

import (
	"errors"
	"testing"
	"time"

	"cartera/internal/core"
)

func day(year, month, d int) time.Time {
	return time.Date(year, time.Month(month), d, 12, 0, 0, 0, time.UTC)
}

func TestMonthlyCheckerIsDue(t *testing.T) {
	anchor := core.NewDate(2024, 1, 15)
	tests := []struct {
		name        string
		lastApplied time.Time
		now         time.Time
		startDate   core.Date
		want        bool
	}{
		{"never applied fires immediately", time.Time{}, day(2024, 3, 1), anchor, true},
		{"already applied this month", day(2024, 3, 15), day(2024, 3, 28), anchor, false},
		{"new month before anchor day", day(2024, 2, 15), day(2024, 3, 10), anchor, false},
		{"new month on anchor day", day(2024, 2, 15), day(2024, 3, 15), anchor, true},
		{"new month after anchor day", day(2024, 2, 15), day(2024, 3, 20), anchor, true},
		{"day 31 clamps to end of february", day(2024, 1, 31), day(2024, 2, 29), core.NewDate(2024, 1, 31), true},
		{"day 31 not yet due in short february", day(2024, 1, 31), day(2024, 2, 28), core.NewDate(2024, 1, 31), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyChecker{}.IsDue(tt.lastApplied, tt.now, tt.startDate)
			if got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyCheckerIsDue(t *testing.T) {
	anchor := core.NewDate(2023, 6, 15)
	tests := []struct {
		name        string
		lastApplied time.Time
		now         time.Time
		want        bool
	}{
		{"never applied fires immediately", time.Time{}, day(2024, 1, 1), true},
		{"already applied this year", day(2024, 6, 15), day(2024, 12, 1), false},
		{"new year before anchor month", day(2023, 6, 15), day(2024, 5, 20), false},
		{"new year in anchor month before day", day(2023, 6, 15), day(2024, 6, 10), false},
		{"new year on anchor date", day(2023, 6, 15), day(2024, 6, 15), true},
		{"new year after anchor month", day(2023, 6, 15), day(2024, 7, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YearlyChecker{}.IsDue(tt.lastApplied, tt.now, anchor)
			if got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	if _, err := GetDuenessChecker(core.RepeatMonthly); err != nil {
		t.Fatalf("monthly checker: %v", err)
	}
	if _, err := GetDuenessChecker(core.RepeatYearly); err != nil {
		t.Fatalf("yearly checker: %v", err)
	}
	_, err := GetDuenessChecker(core.RepeatNone)
	if !errors.Is(err, core.ErrInvalidRecurrence) {
		t.Fatalf("expected ErrInvalidRecurrence for none, got %v", err)
	}
}
