// Package fixture is an in-memory stand-in for the practice REST API,
// used for local development, demos, and integration tests. It serves
// the same wire contract the production backend does; nothing here is
// durable.
package fixture

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/careflow/careflow/internal/domain/certification"
	"github.com/careflow/careflow/internal/domain/discipline"
	"github.com/careflow/careflow/internal/domain/patient"
	"github.com/careflow/careflow/internal/domain/staff"
	"github.com/careflow/careflow/internal/domain/visits"
)

// period is a certification window plus the per-discipline frequencies
// stored on it.
type period struct {
	window      certification.Window
	frequencies map[discipline.Discipline]string
}

// Store is a thread-safe, in-memory backend state.
type Store struct {
	mu sync.RWMutex

	staff      map[string]*staff.Ref
	staffOrder []string

	patients     map[uuid.UUID]*patient.Patient
	patientOrder []uuid.UUID

	periods map[uuid.UUID]*period
	// assignments: patient -> role token (PT, PTA, OT, COTA, ST, STA)
	// -> staff id.
	assignments map[uuid.UUID]map[string]string

	visits map[uuid.UUID]*visits.Visit
	notes  map[uuid.UUID]*visits.Note
}

func NewStore() *Store {
	return &Store{
		staff:       make(map[string]*staff.Ref),
		patients:    make(map[uuid.UUID]*patient.Patient),
		periods:     make(map[uuid.UUID]*period),
		assignments: make(map[uuid.UUID]map[string]string),
		visits:      make(map[uuid.UUID]*visits.Visit),
		notes:       make(map[uuid.UUID]*visits.Note),
	}
}

// -- staff --

func (s *Store) AddStaff(r *staff.Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[r.ID]; !ok {
		s.staffOrder = append(s.staffOrder, r.ID)
	}
	s.staff[r.ID] = r
}

func (s *Store) Staff() []*staff.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*staff.Ref, 0, len(s.staffOrder))
	for _, id := range s.staffOrder {
		out = append(out, s.staff[id])
	}
	return out
}

func (s *Store) StaffByID(id string) (*staff.Ref, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.staff[id]
	return r, ok
}

// -- patients --

func (s *Store) AddPatient(p *patient.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := s.patients[p.ID]; !ok {
		s.patientOrder = append(s.patientOrder, p.ID)
	}
	s.patients[p.ID] = p
}

func (s *Store) Patient(id uuid.UUID) (*patient.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// UpdatePatient applies a mutation under the store lock.
func (s *Store) UpdatePatient(id uuid.UUID, apply func(p *patient.Patient)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return false
	}
	apply(p)
	return true
}

func (s *Store) Patients() []*patient.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*patient.Patient, 0, len(s.patientOrder))
	for _, id := range s.patientOrder {
		cp := *s.patients[id]
		out = append(out, &cp)
	}
	return out
}

// -- certification periods --

func (s *Store) AddPeriod(w certification.Window) *certification.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	s.periods[w.ID] = &period{
		window:      w,
		frequencies: make(map[discipline.Discipline]string),
	}
	cp := w
	return &cp
}

func (s *Store) PeriodsByPatient(patientID uuid.UUID) []*certification.Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*certification.Window
	for _, p := range s.periods {
		if p.window.PatientID == patientID {
			cp := p.window
			out = append(out, &cp)
		}
	}
	return out
}

func (s *Store) Period(id uuid.UUID) (*certification.Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[id]
	if !ok {
		return nil, false
	}
	cp := p.window
	return &cp, true
}

// UpdatePeriod applies a partial update to a stored period.
func (s *Store) UpdatePeriod(id uuid.UUID, apply func(w *certification.Window, freqs map[discipline.Discipline]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.periods[id]
	if !ok {
		return fmt.Errorf("period not found: %s", id)
	}
	apply(&p.window, p.frequencies)
	return nil
}

func (s *Store) DeletePeriod(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[id]; !ok {
		return false
	}
	delete(s.periods, id)
	return true
}

// ActivePeriod returns the patient's active window, if any.
func (s *Store) ActivePeriod(patientID uuid.UUID) (*certification.Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.periods {
		if p.window.PatientID == patientID && p.window.Status == certification.StatusActive {
			cp := p.window
			return &cp, true
		}
	}
	return nil, false
}

func (s *Store) Frequency(periodID uuid.UUID, d discipline.Discipline) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[periodID]
	if !ok {
		return ""
	}
	return p.frequencies[d]
}

// -- assignments --

func (s *Store) Assign(patientID uuid.UUID, roleToken, staffID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.assignments[patientID]
	if !ok {
		m = make(map[string]string)
		s.assignments[patientID] = m
	}
	m[roleToken] = staffID
}

func (s *Store) Unassign(patientID uuid.UUID, roleToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments[patientID], roleToken)
}

// Assigned resolves the staff ref filling a patient's role slot.
func (s *Store) Assigned(patientID uuid.UUID, roleToken string) *staff.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.assignments[patientID][roleToken]
	if !ok {
		return nil
	}
	return s.staff[id]
}

// -- visits and notes --

func (s *Store) AddVisit(v *visits.Visit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	s.visits[v.ID] = v
}

func (s *Store) VisitsByPeriod(certPeriodID uuid.UUID) []*visits.Visit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*visits.Visit
	for _, v := range s.visits {
		if v.CertPeriodID == certPeriodID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out
}

func (s *Store) AddNote(n *visits.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	s.notes[n.ID] = n
}

func (s *Store) NotesByVisit(visitID uuid.UUID) []*visits.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*visits.Note
	for _, n := range s.notes {
		if n.VisitID == visitID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out
}

func (s *Store) DeleteNote(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return false
	}
	delete(s.notes, id)
	return true
}
