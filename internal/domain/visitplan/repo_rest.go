package visitplan

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/careflow/careflow/internal/domain/discipline"
	"github.com/careflow/careflow/internal/domain/staff"
	"github.com/careflow/careflow/internal/platform/rest"
)

type repoREST struct {
	client *rest.Client
}

// NewRepoREST returns a Repository backed by the practice API.
func NewRepoREST(client *rest.Client) Repository {
	return &repoREST{client: client}
}

// assignmentsDTO is the wire shape of the assigned-staff map: one fixed
// field per discipline slot instead of string-built keys.
type assignmentsDTO struct {
	AssignedPT   *staff.Ref `json:"assigned_pt,omitempty"`
	AssignedPTA  *staff.Ref `json:"assigned_pta,omitempty"`
	AssignedOT   *staff.Ref `json:"assigned_ot,omitempty"`
	AssignedCOTA *staff.Ref `json:"assigned_cota,omitempty"`
	AssignedST   *staff.Ref `json:"assigned_st,omitempty"`
	AssignedSTA  *staff.Ref `json:"assigned_sta,omitempty"`
	PTFrequency  string     `json:"pt_frequency,omitempty"`
	OTFrequency  string     `json:"ot_frequency,omitempty"`
	STFrequency  string     `json:"st_frequency,omitempty"`
}

func (d *assignmentsDTO) toPlans() map[discipline.Discipline]*Plan {
	return map[discipline.Discipline]*Plan{
		discipline.PT: {Discipline: discipline.PT, Main: d.AssignedPT, Assistant: d.AssignedPTA, Frequency: d.PTFrequency},
		discipline.OT: {Discipline: discipline.OT, Main: d.AssignedOT, Assistant: d.AssignedCOTA, Frequency: d.OTFrequency},
		discipline.ST: {Discipline: discipline.ST, Main: d.AssignedST, Assistant: d.AssignedSTA, Frequency: d.STFrequency},
	}
}

func (r *repoREST) Plans(ctx context.Context, patientID uuid.UUID, certPeriodID *uuid.UUID) (map[discipline.Discipline]*Plan, error) {
	var query map[string]string
	if certPeriodID != nil {
		query = map[string]string{"cert_period_id": certPeriodID.String()}
	}
	var dto assignmentsDTO
	err := r.client.Get(ctx, fmt.Sprintf("/patient/%s/assigned-staff", patientID), query, &dto)
	if rest.IsNotFound(err) {
		return (&assignmentsDTO{}).toPlans(), nil
	}
	if err != nil {
		return nil, err
	}
	return dto.toPlans(), nil
}

func (r *repoREST) Assign(ctx context.Context, patientID uuid.UUID, staffID, roleToken string) error {
	query := map[string]string{
		"patient_id": patientID.String(),
		"staff_id":   staffID,
		"discipline": roleToken,
	}
	return r.client.Post(ctx, "/assign-staff", query, nil, nil)
}

func (r *repoREST) Unassign(ctx context.Context, patientID uuid.UUID, token string) error {
	query := map[string]string{
		"patient_id": patientID.String(),
		"discipline": token,
	}
	return r.client.Delete(ctx, "/unassign-staff", query)
}

func (r *repoREST) UpdateFrequency(ctx context.Context, certPeriodID uuid.UUID, d discipline.Discipline, frequency string) error {
	field := strings.ToLower(string(d)) + "_frequency"
	body := map[string]string{field: frequency}
	return r.client.Put(ctx, fmt.Sprintf("/cert-periods/%s", certPeriodID), nil, body, nil)
}
