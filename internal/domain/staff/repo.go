package staff

import "context"

// Repository lists the staff directory. Filtering happens client-side;
// the backend returns the full roster.
type Repository interface {
	List(ctx context.Context) ([]*Ref, error)
}
