// Package entitlement tracks approved versus used therapy visits per
// discipline and derives the entitlement status a certification period
// presents to schedulers.
package entitlement

import (
	"strconv"
	"strings"

	"github.com/careflow/careflow/internal/domain/discipline"
)

// Status is the derived entitlement state for one discipline.
type Status string

const (
	// StatusWaiting means no visits have been authorized yet.
	StatusWaiting Status = "waiting"
	// StatusActive means authorized visits remain.
	StatusActive Status = "active"
	// StatusNoMore means the authorization is exhausted.
	StatusNoMore Status = "no_more"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusActive, StatusNoMore:
		return true
	}
	return false
}

// Record holds the visit counters for one discipline.
//
// ApprovedRaw/UsedRaw preserve the operator's literal input: an empty
// string is a transient "cleared" state kept as-is so the value can be
// retyped, and only collapses to zero when the counters are derived.
type Record struct {
	Discipline  discipline.Discipline `json:"discipline"`
	Approved    int                   `json:"approved"`
	Used        int                   `json:"used"`
	ApprovedRaw string                `json:"approved_raw,omitempty"`
	UsedRaw     string                `json:"used_raw,omitempty"`
	Status      Status                `json:"status"`
	// Overridden marks a status set directly by an operator rather than
	// derived from the counters.
	Overridden bool `json:"overridden,omitempty"`
}

// NewRecord returns the default record for a discipline with no
// authorization on file.
func NewRecord(d discipline.Discipline) *Record {
	return &Record{Discipline: d, Status: StatusWaiting}
}

// DeriveStatus computes the status implied by the counters.
func DeriveStatus(approved, used int) Status {
	if approved == 0 {
		return StatusWaiting
	}
	if used >= approved {
		return StatusNoMore
	}
	return StatusActive
}

// Consistent reports whether the record's status matches what its
// counters imply. Always true for derived statuses; an override may
// contradict the counters.
func (r *Record) Consistent() bool {
	return r.Status == DeriveStatus(r.Approved, r.Used)
}

// Remaining returns the visits still authorized, never negative.
func (r *Record) Remaining() int {
	if rem := r.Approved - r.Used; rem > 0 {
		return rem
	}
	return 0
}

// Utilization returns used/approved as a fraction, zero when nothing is
// approved.
func (r *Record) Utilization() float64 {
	if r.Approved <= 0 {
		return 0
	}
	return float64(r.Used) / float64(r.Approved)
}

// UtilizationPercent returns the utilization as a whole percentage
// clamped to [0, 100] for display.
func (r *Record) UtilizationPercent() int {
	pct := int(r.Utilization()*100 + 0.5)
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// ParseCount converts raw counter input to a non-negative count.
// Anything unparseable, and the transient empty state, is zero.
func ParseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
