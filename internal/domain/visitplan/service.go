package visitplan

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/discipline"
)

// Service manages one patient's visit-frequency plans. Every mutation
// persists first and then re-fetches the full coverage map; there is no
// optimistic local merge.
type Service struct {
	patientID    uuid.UUID
	certPeriodID *uuid.UUID
	repo         Repository
	plans        map[discipline.Discipline]*Plan
	logger       zerolog.Logger
	// onChanged fires after every successful refetch so siblings can
	// refresh their copy. It carries no payload beyond "something
	// changed".
	onChanged func()
}

func NewService(patientID uuid.UUID, repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		patientID: patientID,
		repo:      repo,
		plans:     emptyPlans(),
		logger:    logger,
	}
}

func emptyPlans() map[discipline.Discipline]*Plan {
	m := make(map[discipline.Discipline]*Plan, len(discipline.All()))
	for _, d := range discipline.All() {
		m[d] = &Plan{Discipline: d}
	}
	return m
}

// SetCertPeriod scopes plan fetches and frequency writes to one
// certification period.
func (s *Service) SetCertPeriod(id *uuid.UUID) {
	s.certPeriodID = id
}

// OnChanged registers the sibling-notification callback.
func (s *Service) OnChanged(fn func()) {
	s.onChanged = fn
}

// Load fetches the coverage map from the backend.
func (s *Service) Load(ctx context.Context) error {
	plans, err := s.repo.Plans(ctx, s.patientID, s.certPeriodID)
	if err != nil {
		return fmt.Errorf("load visit plans: %w", err)
	}
	for _, d := range discipline.All() {
		if p, ok := plans[d]; ok && p != nil {
			p.Discipline = d
			s.plans[d] = p
		} else {
			s.plans[d] = &Plan{Discipline: d}
		}
	}
	return nil
}

// Plan returns the plan for one discipline.
func (s *Service) Plan(d discipline.Discipline) (*Plan, error) {
	p, ok := s.plans[d]
	if !ok {
		return nil, fmt.Errorf("unknown discipline: %q", d)
	}
	return p, nil
}

// Plans returns all plans in display order.
func (s *Service) Plans() []*Plan {
	out := make([]*Plan, 0, len(s.plans))
	for _, d := range discipline.All() {
		out = append(out, s.plans[d])
	}
	return out
}

// AssignStaff attaches a staff member to a discipline slot, then
// refetches and notifies.
func (s *Service) AssignStaff(ctx context.Context, d discipline.Discipline, slot discipline.Slot, staffID string) error {
	if !d.Valid() {
		return fmt.Errorf("unknown discipline: %q", d)
	}
	token := d.MainRole()
	if slot == discipline.SlotAssistant {
		token = d.AssistantRole()
	}
	if err := s.repo.Assign(ctx, s.patientID, staffID, token); err != nil {
		s.logger.Error().Err(err).
			Str("discipline", string(d)).
			Str("staff_id", staffID).
			Msg("assign staff")
		return err
	}
	return s.refresh(ctx)
}

// UnassignStaff clears a discipline slot, then refetches and notifies.
func (s *Service) UnassignStaff(ctx context.Context, d discipline.Discipline, slot discipline.Slot) error {
	if !d.Valid() {
		return fmt.Errorf("unknown discipline: %q", d)
	}
	if err := s.repo.Unassign(ctx, s.patientID, d.UnassignToken(slot)); err != nil {
		s.logger.Error().Err(err).
			Str("discipline", string(d)).
			Str("slot", string(slot)).
			Msg("unassign staff")
		return err
	}
	return s.refresh(ctx)
}

// UpdateFrequency writes a discipline's frequency on the current
// certification period. Without a period in scope it is a silent no-op.
func (s *Service) UpdateFrequency(ctx context.Context, d discipline.Discipline, frequency string) error {
	if !d.Valid() {
		return fmt.Errorf("unknown discipline: %q", d)
	}
	if s.certPeriodID == nil {
		return nil
	}
	if err := s.repo.UpdateFrequency(ctx, *s.certPeriodID, d, frequency); err != nil {
		s.logger.Error().Err(err).
			Str("discipline", string(d)).
			Str("frequency", frequency).
			Msg("update frequency")
		return err
	}
	return s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	if s.onChanged != nil {
		s.onChanged()
	}
	return nil
}
