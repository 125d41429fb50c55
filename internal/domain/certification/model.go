// Package certification manages a patient's certification periods: the
// insurer-approved date ranges that authorize therapy visits. At most
// one period is active at a time; the rest are kept as history.
package certification

import (
	"time"

	"github.com/google/uuid"
)

// DateFormat is the wire format for certification dates.
const DateFormat = "2006-01-02"

// DefaultDurationDays is the standard length of a certification period.
const DefaultDurationDays = 60

// Window statuses.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Window is one certification period.
type Window struct {
	ID           uuid.UUID `json:"id"`
	PatientID    uuid.UUID `json:"patient_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Insurance    string    `json:"insurance,omitempty"`
	PolicyNumber string    `json:"policy_number,omitempty"`
	Agency       string    `json:"agency,omitempty"`
	Status       string    `json:"status"`
	// Temporary marks a window that exists only locally because the
	// backend rejected or never acknowledged its creation.
	Temporary bool `json:"temporary,omitempty"`
}

// DefaultEndDate returns the end date implied by a start date: sixty
// calendar days later.
func DefaultEndDate(start time.Time) time.Time {
	return start.AddDate(0, 0, DefaultDurationDays)
}

// Progress describes how far through a window the clock has run.
type Progress struct {
	Percentage    int `json:"percentage"`
	DaysRemaining int `json:"days_remaining"`
	DaysElapsed   int `json:"days_elapsed"`
}

func ceilDays(d time.Duration) int {
	const day = 24 * time.Hour
	n := d / day
	if d%day > 0 {
		n++
	}
	return int(n)
}

// ComputeProgress is a pure function of the window bounds and the
// reference time. A reference time equal to the end date falls in the
// in-range branch (the after-end check is strict) and reports zero days
// remaining at 100%.
func ComputeProgress(start, end, now time.Time) Progress {
	totalDays := ceilDays(end.Sub(start))
	if now.After(end) {
		return Progress{Percentage: 100, DaysRemaining: 0, DaysElapsed: totalDays}
	}
	if now.Before(start) {
		return Progress{Percentage: 0, DaysRemaining: totalDays, DaysElapsed: 0}
	}
	remaining := ceilDays(end.Sub(now))
	elapsed := totalDays - remaining
	pct := 0
	if totalDays > 0 {
		pct = int(float64(elapsed)/float64(totalDays)*100 + 0.5)
	}
	return Progress{Percentage: pct, DaysRemaining: remaining, DaysElapsed: elapsed}
}

// Urgency color bands for remaining days.
const (
	ColorRed   = "red"
	ColorAmber = "amber"
	ColorGreen = "green"
)

// RemainingColor maps days remaining to the urgency band shown next to
// the countdown.
func RemainingColor(daysRemaining int) string {
	switch {
	case daysRemaining < 12:
		return ColorRed
	case daysRemaining < 30:
		return ColorAmber
	default:
		return ColorGreen
	}
}
