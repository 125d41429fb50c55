package patient

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
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

func (r *repoREST) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	if err := r.client.Get(ctx, fmt.Sprintf("/patients/%s", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoREST) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	query := map[string]string{
		"limit":  fmt.Sprintf("%d", limit),
		"offset": fmt.Sprintf("%d", offset),
	}
	var page struct {
		Data  []*Patient `json:"data"`
		Total int        `json:"total"`
	}
	if err := r.client.Get(ctx, "/patients/", query, &page); err != nil {
		return nil, 0, err
	}
	return page.Data, page.Total, nil
}

func (r *repoREST) Create(ctx context.Context, p *Patient) error {
	var created Patient
	if err := r.client.Post(ctx, "/patients/", nil, p, &created); err != nil {
		return err
	}
	p.ID = created.ID
	return nil
}

// UpdateFields sends changed fields as query-string parameters, which
// is how the backend expects chart edits.
func (r *repoREST) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return r.client.Put(ctx, fmt.Sprintf("/patients/%s", id), fields, nil, nil)
}

func (r *repoREST) ReplaceContacts(ctx context.Context, id uuid.UUID, contacts []EmergencyContact) error {
	if contacts == nil {
		contacts = []EmergencyContact{}
	}
	encoded, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	query := map[string]string{"contact_info": string(encoded)}
	return r.client.Put(ctx, fmt.Sprintf("/patients/%s", id), query, nil, nil)
}
