// Package store is the shared state for one patient's detail view. The
// editing surfaces (chart, plans, schedule) used to push updates
// sideways to each other through ad-hoc callbacks; here they all
// dispatch into one typed store that recomputes derived fields
// centrally and fans the new snapshot out to every subscriber.
//
// Payloads are always full replacements, never diffs, and the last
// successful dispatch wins. Stale backend responses are fenced with a
// per-aggregate sequence number: a write tagged with an older sequence
// than the latest issued for that aggregate is discarded.
package store

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/certification"
	"github.com/careflow/careflow/internal/domain/entitlement"
	"github.com/careflow/careflow/internal/domain/visitplan"
	"github.com/careflow/careflow/internal/domain/visits"
)

// Aggregate names one independently fetched slice of patient state.
type Aggregate string

const (
	AggregateEntitlements Aggregate = "entitlements"
	AggregatePlans        Aggregate = "plans"
	AggregateCertWindows  Aggregate = "cert_windows"
	AggregateVisits       Aggregate = "visits"
)

// Snapshot is a point-in-time copy of the page state handed to
// subscribers.
type Snapshot struct {
	Entitlements []*entitlement.Record
	Plans        []*visitplan.Plan
	CertWindows  []*certification.Window
	Visits       []*visits.Visit
	// LastError is the current inline banner text, empty when
	// dismissed. Failures never block further interaction.
	LastError string
}

type Store struct {
	mu     sync.Mutex
	snap   Snapshot
	issued map[Aggregate]uint64
	subs   map[int]func(Snapshot)
	nextID int
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Store {
	return &Store{
		issued: make(map[Aggregate]uint64),
		subs:   make(map[int]func(Snapshot)),
		logger: logger,
	}
}

// Begin reserves the next sequence number for a fetch or mutation of
// one aggregate. The matching Replace call must present this number;
// by the time it does, a newer request may have superseded it.
func (s *Store) Begin(agg Aggregate) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[agg]++
	return s.issued[agg]
}

// Subscribe registers a snapshot listener and returns its cancel
// function. The listener is called synchronously on every applied
// change.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySnap()
}

// ReplaceEntitlements swaps in a full entitlement set. Statuses of
// non-overridden records are re-derived from the counters here, in one
// place, rather than by each editing surface. Returns false when the
// write was fenced off as stale.
func (s *Store) ReplaceEntitlements(seq uint64, records []*entitlement.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(AggregateEntitlements, seq) {
		return false
	}
	for _, r := range records {
		if r.Overridden {
			if !r.Consistent() {
				s.logger.Warn().
					Str("discipline", string(r.Discipline)).
					Str("status", string(r.Status)).
					Int("approved", r.Approved).
					Int("used", r.Used).
					Msg("overridden entitlement status contradicts counters")
			}
			continue
		}
		r.Status = entitlement.DeriveStatus(r.Approved, r.Used)
	}
	s.snap.Entitlements = records
	s.broadcast()
	return true
}

// ReplacePlans swaps in a full coverage map.
func (s *Store) ReplacePlans(seq uint64, plans []*visitplan.Plan) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(AggregatePlans, seq) {
		return false
	}
	s.snap.Plans = plans
	s.broadcast()
	return true
}

// ReplaceCertWindows swaps in the full certification-period list.
func (s *Store) ReplaceCertWindows(seq uint64, windows []*certification.Window) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(AggregateCertWindows, seq) {
		return false
	}
	s.snap.CertWindows = windows
	s.broadcast()
	return true
}

// ReplaceVisits swaps in the full scheduled-visit list.
func (s *Store) ReplaceVisits(seq uint64, vs []*visits.Visit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(AggregateVisits, seq) {
		return false
	}
	s.snap.Visits = vs
	s.broadcast()
	return true
}

// SetError records the inline banner text.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.LastError = msg
	s.broadcast()
}

// DismissError clears the banner.
func (s *Store) DismissError() {
	s.SetError("")
}

func (s *Store) stale(agg Aggregate, seq uint64) bool {
	if seq < s.issued[agg] {
		s.logger.Debug().
			Str("aggregate", string(agg)).
			Uint64("seq", seq).
			Uint64("latest", s.issued[agg]).
			Msg("discarding stale response")
		return true
	}
	if seq > s.issued[agg] {
		// A sequence the store never issued; treat it as current.
		s.issued[agg] = seq
	}
	return false
}

func (s *Store) broadcast() {
	snap := s.copySnap()
	for _, fn := range s.subs {
		fn(snap)
	}
}

func (s *Store) copySnap() Snapshot {
	cp := Snapshot{LastError: s.snap.LastError}
	if s.snap.Entitlements != nil {
		cp.Entitlements = append([]*entitlement.Record(nil), s.snap.Entitlements...)
	}
	if s.snap.Plans != nil {
		cp.Plans = append([]*visitplan.Plan(nil), s.snap.Plans...)
	}
	if s.snap.CertWindows != nil {
		cp.CertWindows = append([]*certification.Window(nil), s.snap.CertWindows...)
	}
	if s.snap.Visits != nil {
		cp.Visits = append([]*visits.Visit(nil), s.snap.Visits...)
	}
	return cp
}
