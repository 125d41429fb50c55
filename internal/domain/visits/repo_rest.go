package visits

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/careflow/careflow/internal/platform/rest"
)

type repoREST struct {
	client *rest.Client
}

// NewRepoREST returns a Repository backed by the practice API.
func NewRepoREST(client *rest.Client) Repository {
	return &repoREST{client: client}
}

func (r *repoREST) ListByCertPeriod(ctx context.Context, certPeriodID uuid.UUID) ([]*Visit, error) {
	var out []*Visit
	err := r.client.Get(ctx, fmt.Sprintf("/visits/certperiod/%s", certPeriodID), nil, &out)
	if rest.IsNotFound(err) {
		return []*Visit{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repoREST) Assign(ctx context.Context, v *Visit) error {
	var created Visit
	if err := r.client.Post(ctx, "/visits/assign", nil, v, &created); err != nil {
		return err
	}
	if created.ID != uuid.Nil {
		v.ID = created.ID
	}
	return nil
}

func (r *repoREST) ListNotes(ctx context.Context, visitID uuid.UUID) ([]*Note, error) {
	var out []*Note
	err := r.client.Get(ctx, fmt.Sprintf("/visit-notes/%s", visitID), nil, &out)
	if rest.IsNotFound(err) {
		return []*Note{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repoREST) AddNote(ctx context.Context, n *Note) error {
	var created Note
	if err := r.client.Post(ctx, "/visit-notes/", nil, n, &created); err != nil {
		return err
	}
	if created.ID != uuid.Nil {
		n.ID = created.ID
	}
	return nil
}

func (r *repoREST) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return r.client.Delete(ctx, fmt.Sprintf("/visit-notes/%s", id), nil)
}
