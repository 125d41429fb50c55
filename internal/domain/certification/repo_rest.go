package certification

import (
	"context"
	"fmt"
	"time"

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

type windowDTO struct {
	ID           string `json:"id"`
	PatientID    string `json:"patient_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Insurance    string `json:"insurance,omitempty"`
	PolicyNumber string `json:"policy_number,omitempty"`
	Agency       string `json:"agency,omitempty"`
	Status       string `json:"status"`
}

func (d *windowDTO) toWindow() (*Window, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("bad window id %q: %w", d.ID, err)
	}
	pid, err := uuid.Parse(d.PatientID)
	if err != nil {
		return nil, fmt.Errorf("bad patient id %q: %w", d.PatientID, err)
	}
	start, err := time.Parse(DateFormat, d.StartDate)
	if err != nil {
		return nil, fmt.Errorf("bad start date %q: %w", d.StartDate, err)
	}
	end, err := time.Parse(DateFormat, d.EndDate)
	if err != nil {
		return nil, fmt.Errorf("bad end date %q: %w", d.EndDate, err)
	}
	return &Window{
		ID:           id,
		PatientID:    pid,
		StartDate:    start,
		EndDate:      end,
		Insurance:    d.Insurance,
		PolicyNumber: d.PolicyNumber,
		Agency:       d.Agency,
		Status:       d.Status,
	}, nil
}

func (r *repoREST) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Window, error) {
	var dtos []windowDTO
	err := r.client.Get(ctx, fmt.Sprintf("/patient/%s/cert-periods", patientID), nil, &dtos)
	if rest.IsNotFound(err) {
		// No periods on file yet.
		return []*Window{}, nil
	}
	if err != nil {
		return nil, err
	}
	windows := make([]*Window, 0, len(dtos))
	for i := range dtos {
		w, err := dtos[i].toWindow()
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func (r *repoREST) Create(ctx context.Context, w *Window) error {
	body := map[string]string{
		"start_date": w.StartDate.Format(DateFormat),
		"end_date":   w.EndDate.Format(DateFormat),
	}
	if w.Insurance != "" {
		body["insurance"] = w.Insurance
	}
	if w.PolicyNumber != "" {
		body["policy_number"] = w.PolicyNumber
	}
	if w.Agency != "" {
		body["agency"] = w.Agency
	}
	var created windowDTO
	path := fmt.Sprintf("/patients/%s/certification-period", w.PatientID)
	if err := r.client.Post(ctx, path, nil, body, &created); err != nil {
		return err
	}
	id, err := uuid.Parse(created.ID)
	if err != nil {
		return fmt.Errorf("bad created window id %q: %w", created.ID, err)
	}
	w.ID = id
	if created.Status != "" {
		w.Status = created.Status
	}
	return nil
}

func (r *repoREST) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.client.Put(ctx, fmt.Sprintf("/cert-periods/%s", id), nil,
		map[string]string{"status": status}, nil)
}

func (r *repoREST) Update(ctx context.Context, w *Window) error {
	body := map[string]string{
		"start_date":    w.StartDate.Format(DateFormat),
		"end_date":      w.EndDate.Format(DateFormat),
		"insurance":     w.Insurance,
		"policy_number": w.PolicyNumber,
		"agency":        w.Agency,
	}
	return r.client.Put(ctx, fmt.Sprintf("/cert-periods/%s", w.ID), nil, body, nil)
}

func (r *repoREST) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Delete(ctx, fmt.Sprintf("/cert-periods/%s", id), nil)
}
