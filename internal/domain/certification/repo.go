package certification

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the backend contract for certification periods. The
// production implementation talks to the practice REST API; tests use
// in-memory fakes.
type Repository interface {
	// ListByPatient returns all of a patient's windows. A patient with
	// no periods on file yields an empty slice, not an error.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Window, error)
	// Create persists a new window and fills in its backend-assigned ID.
	Create(ctx context.Context, w *Window) error
	// UpdateStatus flips a window between active and expired.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// Update rewrites a window's editable fields (dates, insurance).
	Update(ctx context.Context, w *Window) error
	// Delete removes a window.
	Delete(ctx context.Context, id uuid.UUID) error
}
