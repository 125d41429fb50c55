package visitplan

import (
	"context"

	"github.com/google/uuid"

	"github.com/careflow/careflow/internal/domain/discipline"
)

// Repository is the backend contract for staff assignments and visit
// frequencies.
type Repository interface {
	// Plans fetches the full per-discipline coverage map for a patient,
	// optionally scoped to one certification period.
	Plans(ctx context.Context, patientID uuid.UUID, certPeriodID *uuid.UUID) (map[discipline.Discipline]*Plan, error)
	// Assign attaches a staff member to a patient under a discipline
	// role token.
	Assign(ctx context.Context, patientID uuid.UUID, staffID, roleToken string) error
	// Unassign clears the slot identified by the discipline token (the
	// assistant token carries an "A" suffix).
	Unassign(ctx context.Context, patientID uuid.UUID, token string) error
	// UpdateFrequency writes one discipline's frequency on a
	// certification period.
	UpdateFrequency(ctx context.Context, certPeriodID uuid.UUID, d discipline.Discipline, frequency string) error
}
