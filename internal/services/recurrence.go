package services

import (
	"fmt"
	"time"

	"cartera/internal/core"
)

// DuenessChecker decides whether a recurring template should fire, given
// when it last fired and its anchor start date.
type DuenessChecker interface {
	IsDue(lastApplied, now time.Time, startDate core.Date) bool
}

// MonthlyChecker fires once per calendar month, on or after the template's
// anchor day. Anchor days past the end of a short month clamp to its last day.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastApplied, now time.Time, startDate core.Date) bool {
	if lastApplied.IsZero() {
		return true
	}
	if lastApplied.Year() == now.Year() && lastApplied.Month() == now.Month() {
		return false
	}
	targetDay := startDate.Day()
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}
	return now.Day() >= targetDay
}

// YearlyChecker fires once per calendar year, on or after the anchor month
// and day.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastApplied, now time.Time, startDate core.Date) bool {
	if lastApplied.IsZero() {
		return true
	}
	if lastApplied.Year() == now.Year() {
		return false
	}
	if now.Month() < startDate.Month() {
		return false
	}
	if now.Month() > startDate.Month() {
		return true
	}
	targetDay := startDate.Day()
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}
	return now.Day() >= targetDay
}

var duenessCheckers = map[core.Recurrence]DuenessChecker{
	core.RepeatMonthly: MonthlyChecker{},
	core.RepeatYearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a recurrence. RepeatNone has no
// checker: templates without a recurrence never fire on their own.
func GetDuenessChecker(recurrence core.Recurrence) (DuenessChecker, error) {
	checker, ok := duenessCheckers[recurrence]
	if !ok {
		return nil, fmt.Errorf("no dueness checker for recurrence %q: %w", recurrence, core.ErrInvalidRecurrence)
	}
	return checker, nil
}
