package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the backend contract for the patient chart.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Create(ctx context.Context, p *Patient) error
	// UpdateFields writes only the named fields; unnamed fields are
	// left untouched server-side.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]string) error
	// ReplaceContacts rewrites the entire contact list.
	ReplaceContacts(ctx context.Context, id uuid.UUID, contacts []EmergencyContact) error
}
