package certification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service holds one patient's certification periods and enforces the
// single-active-window rule across add, select, and delete.
type Service struct {
	patientID uuid.UUID
	windows   []*Window
	repo      Repository
	logger    zerolog.Logger
}

func NewService(patientID uuid.UUID, repo Repository, logger zerolog.Logger) *Service {
	return &Service{patientID: patientID, repo: repo, logger: logger}
}

// Load fetches the patient's windows from the backend, replacing local
// state. Fetched windows keep their stored end dates untouched.
func (s *Service) Load(ctx context.Context) error {
	windows, err := s.repo.ListByPatient(ctx, s.patientID)
	if err != nil {
		return fmt.Errorf("load certification periods: %w", err)
	}
	s.windows = windows
	return nil
}

// Windows returns the current local window list.
func (s *Service) Windows() []*Window {
	return s.windows
}

// Active returns the active window, or nil when none is.
func (s *Service) Active() *Window {
	for _, w := range s.windows {
		if w.Status == StatusActive {
			return w
		}
	}
	return nil
}

// Add creates a new certification period and makes it the active one,
// expiring every existing window. A zero end date defaults to sixty
// days after the start. When the backend rejects the create, the window
// is still kept locally under a temporary id so the operator's work is
// not lost; the returned error is the inline warning to surface.
func (s *Service) Add(ctx context.Context, w *Window) (*Window, error) {
	if w.StartDate.IsZero() {
		return nil, fmt.Errorf("start date is required")
	}
	if w.EndDate.IsZero() {
		w.EndDate = DefaultEndDate(w.StartDate)
	}
	w.PatientID = s.patientID
	w.Status = StatusActive

	var warn error
	if err := s.repo.Create(ctx, w); err != nil {
		w.ID = uuid.New()
		w.Temporary = true
		warn = fmt.Errorf("period saved locally only: %w", err)
		s.logger.Warn().Err(err).Msg("certification period create failed, keeping local copy")
	}

	for _, old := range s.windows {
		s.expire(ctx, old)
	}
	s.windows = append(s.windows, w)
	return w, warn
}

// Select makes the chosen historical window active and expires the
// rest.
func (s *Service) Select(ctx context.Context, id uuid.UUID) (*Window, error) {
	chosen := s.find(id)
	if chosen == nil {
		return nil, fmt.Errorf("certification period not found: %s", id)
	}
	for _, w := range s.windows {
		if w.ID == id {
			continue
		}
		s.expire(ctx, w)
	}
	s.activate(ctx, chosen)
	return chosen, nil
}

// Delete removes a window. Deletion is refused while only one window
// exists. Deleting the active window promotes the surviving window with
// the latest end date.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if len(s.windows) < 2 {
		return fmt.Errorf("cannot delete the only certification period")
	}
	victim := s.find(id)
	if victim == nil {
		return fmt.Errorf("certification period not found: %s", id)
	}
	if !victim.Temporary {
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete certification period: %w", err)
		}
	}

	wasActive := victim.Status == StatusActive
	survivors := make([]*Window, 0, len(s.windows)-1)
	for _, w := range s.windows {
		if w.ID != id {
			survivors = append(survivors, w)
		}
	}
	s.windows = survivors

	if wasActive {
		var latest *Window
		for _, w := range s.windows {
			if latest == nil || w.EndDate.After(latest.EndDate) {
				latest = w
			}
		}
		if latest != nil {
			s.activate(ctx, latest)
		}
	}
	return nil
}

// UpdateDates changes a window's date range. Whenever the start date
// changes the end date is recomputed to the sixty-day default, unless
// the caller supplies an explicit end.
func (s *Service) UpdateDates(ctx context.Context, id uuid.UUID, start, end time.Time) (*Window, error) {
	w := s.find(id)
	if w == nil {
		return nil, fmt.Errorf("certification period not found: %s", id)
	}
	if !start.IsZero() && !start.Equal(w.StartDate) {
		w.StartDate = start
		w.EndDate = DefaultEndDate(start)
	}
	if !end.IsZero() {
		w.EndDate = end
	}
	if w.Temporary {
		return w, nil
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return w, fmt.Errorf("update certification period: %w", err)
	}
	return w, nil
}

// Progress reports progress through the active window at the given
// reference time.
func (s *Service) Progress(now time.Time) (Progress, error) {
	active := s.Active()
	if active == nil {
		return Progress{}, fmt.Errorf("no active certification period")
	}
	return ComputeProgress(active.StartDate, active.EndDate, now), nil
}

func (s *Service) find(id uuid.UUID) *Window {
	for _, w := range s.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// expire and activate flip local status first; the backend write is
// best effort, logged and swallowed like every other inline failure.
func (s *Service) expire(ctx context.Context, w *Window) {
	if w.Status == StatusExpired {
		return
	}
	w.Status = StatusExpired
	if w.Temporary {
		return
	}
	if err := s.repo.UpdateStatus(ctx, w.ID, StatusExpired); err != nil {
		s.logger.Error().Err(err).Str("window_id", w.ID.String()).Msg("expire certification period")
	}
}

func (s *Service) activate(ctx context.Context, w *Window) {
	w.Status = StatusActive
	if w.Temporary {
		return
	}
	if err := s.repo.UpdateStatus(ctx, w.ID, StatusActive); err != nil {
		s.logger.Error().Err(err).Str("window_id", w.ID.String()).Msg("activate certification period")
	}
}
