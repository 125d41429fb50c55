package entitlement

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/discipline"
)

// Service owns the entitlement records for one patient's current
// certification period, one record per discipline.
type Service struct {
	records map[discipline.Discipline]*Record
	logger  zerolog.Logger
}

func NewService(logger zerolog.Logger) *Service {
	records := make(map[discipline.Discipline]*Record, len(discipline.All()))
	for _, d := range discipline.All() {
		records[d] = NewRecord(d)
	}
	return &Service{records: records, logger: logger}
}

// Load replaces the current records with ones fetched from the backend.
// Disciplines absent from the input keep their defaults.
func (s *Service) Load(records []*Record) {
	for _, r := range records {
		if !r.Discipline.Valid() {
			continue
		}
		cp := *r
		s.records[r.Discipline] = &cp
	}
}

// Record returns the record for a discipline.
func (s *Service) Record(d discipline.Discipline) (*Record, error) {
	r, ok := s.records[d]
	if !ok {
		return nil, fmt.Errorf("unknown discipline: %q", d)
	}
	return r, nil
}

// Records returns all records in display order.
func (s *Service) Records() []*Record {
	out := make([]*Record, 0, len(s.records))
	for _, d := range discipline.All() {
		out = append(out, s.records[d])
	}
	return out
}

// SetApproved updates the approved counter from raw operator input and
// re-derives the status, clearing any override.
func (s *Service) SetApproved(d discipline.Discipline, raw string) (*Record, error) {
	r, err := s.Record(d)
	if err != nil {
		return nil, err
	}
	r.ApprovedRaw = raw
	r.Approved = ParseCount(raw)
	r.Status = DeriveStatus(r.Approved, r.Used)
	r.Overridden = false
	return r, nil
}

// SetUsed updates the used counter from raw operator input and
// re-derives the status, clearing any override. Values above the
// approved count are accepted; the derivation reports no_more for them.
func (s *Service) SetUsed(d discipline.Discipline, raw string) (*Record, error) {
	r, err := s.Record(d)
	if err != nil {
		return nil, err
	}
	r.UsedRaw = raw
	r.Used = ParseCount(raw)
	r.Status = DeriveStatus(r.Approved, r.Used)
	r.Overridden = false
	return r, nil
}

// OverrideStatus sets the status directly, bypassing derivation. The
// override is honored even when it contradicts the counters; a
// contradiction is logged as a data-quality signal rather than
// rejected, since supervisors use it for manual exceptions.
func (s *Service) OverrideStatus(d discipline.Discipline, status Status) (*Record, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status: %q", status)
	}
	r, err := s.Record(d)
	if err != nil {
		return nil, err
	}
	r.Status = status
	r.Overridden = true
	if !r.Consistent() {
		s.logger.Warn().
			Str("discipline", string(d)).
			Str("status", string(status)).
			Int("approved", r.Approved).
			Int("used", r.Used).
			Msg("entitlement status override contradicts counters")
	}
	return r, nil
}

// Reset returns a discipline's record to the no-authorization default.
// Records are never removed, only reset.
func (s *Service) Reset(d discipline.Discipline) (*Record, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown discipline: %q", d)
	}
	s.records[d] = NewRecord(d)
	return s.records[d], nil
}
