package visits

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the backend contract for visits and their notes.
type Repository interface {
	ListByCertPeriod(ctx context.Context, certPeriodID uuid.UUID) ([]*Visit, error)
	Assign(ctx context.Context, v *Visit) error
	ListNotes(ctx context.Context, visitID uuid.UUID) ([]*Note, error)
	AddNote(ctx context.Context, n *Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
}
