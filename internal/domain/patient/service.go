package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/certification"
	"github.com/careflow/careflow/pkg/phone"
)

// Service owns chart-level operations: intake, field updates, contact
// replacement.
type Service struct {
	repo     Repository
	certs    certification.Repository
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(repo Repository, certs certification.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		certs:    certs,
		validate: validator.New(),
		logger:   logger,
	}
}

// Get fetches a chart.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.Get(ctx, id)
}

// List pages through the caseload.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Admit validates an intake form, creates the chart, and opens the
// first certification period: sixty days from the initial cert start
// date.
func (s *Service) Admit(ctx context.Context, in *Intake) (*Patient, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid intake: %w", err)
	}
	certStart, err := time.Parse(certification.DateFormat, in.InitialCertStartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid initial cert start date: %w", err)
	}

	p := &Patient{
		FirstName:            in.FirstName,
		LastName:             in.LastName,
		Gender:               in.Gender,
		Address:              in.Address,
		Phone:                phone.Normalize(in.Phone),
		IsActive:             true,
		InitialCertStartDate: &certStart,
	}
	if in.BirthDate != "" {
		bd, err := time.Parse(certification.DateFormat, in.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("invalid birth date: %w", err)
		}
		p.BirthDate = &bd
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	w := &certification.Window{
		PatientID: p.ID,
		StartDate: certStart,
		EndDate:   certification.DefaultEndDate(certStart),
		Status:    certification.StatusActive,
	}
	if err := s.certs.Create(ctx, w); err != nil {
		// The chart exists; the missing period surfaces as a warning.
		s.logger.Warn().Err(err).Str("patient_id", p.ID.String()).Msg("initial certification period not created")
		return p, fmt.Errorf("patient admitted, initial certification period failed: %w", err)
	}
	return p, nil
}

// UpdateFields persists only the fields the operator changed. Phone
// values are normalized to raw digits before transmission.
func (s *Service) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if v, ok := fields["phone"]; ok {
		fields["phone"] = phone.Normalize(v)
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		s.logger.Error().Err(err).Str("patient_id", id.String()).Msg("update patient fields")
		return err
	}
	return nil
}

// SetActive toggles the chart's active flag.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.UpdateFields(ctx, id, map[string]string{"is_active": fmt.Sprintf("%t", active)})
}

// AddContact appends one emergency contact by rewriting the whole list,
// which is the backend's replacement semantics for contact_info.
func (s *Service) AddContact(ctx context.Context, id uuid.UUID, contact EmergencyContact) error {
	if contact.Name == "" {
		return fmt.Errorf("contact name is required")
	}
	contact.Phone = phone.Normalize(contact.Phone)
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load patient: %w", err)
	}
	contacts := append(append([]EmergencyContact(nil), p.Contacts...), contact)
	return s.repo.ReplaceContacts(ctx, id, contacts)
}

// RemoveContact drops the contact at index, rewriting the whole list.
func (s *Service) RemoveContact(ctx context.Context, id uuid.UUID, index int) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load patient: %w", err)
	}
	if index < 0 || index >= len(p.Contacts) {
		return fmt.Errorf("no contact at index %d", index)
	}
	contacts := append([]EmergencyContact(nil), p.Contacts[:index]...)
	contacts = append(contacts, p.Contacts[index+1:]...)
	return s.repo.ReplaceContacts(ctx, id, contacts)
}
