package staff

import (
	"context"

	"github.com/careflow/careflow/internal/platform/rest"
)

type repoREST struct {
	client *rest.Client
}

// NewRepoREST returns a Repository backed by the practice API.
func NewRepoREST(client *rest.Client) Repository {
	return &repoREST{client: client}
}

func (r *repoREST) List(ctx context.Context) ([]*Ref, error) {
	var refs []*Ref
	if err := r.client.Get(ctx, "/staff/", nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}
