// Package visits is a thin client for the visit and visit-note
// lifecycle. Scheduling rules live server-side; this side only lists,
// assigns, and annotates.
package visits

import (
	"time"

	"github.com/google/uuid"

	"github.com/careflow/careflow/internal/domain/discipline"
)

// Visit is one scheduled or completed therapy visit.
type Visit struct {
	ID           uuid.UUID             `json:"id"`
	PatientID    uuid.UUID             `json:"patient_id"`
	CertPeriodID uuid.UUID             `json:"cert_period_id"`
	Discipline   discipline.Discipline `json:"discipline"`
	StaffID      string                `json:"staff_id,omitempty"`
	Date         time.Time             `json:"date"`
	Completed    bool                  `json:"completed"`
}

// Note is a clinical note attached to a visit.
type Note struct {
	ID        uuid.UUID `json:"id"`
	VisitID   uuid.UUID `json:"visit_id"`
	Author    string    `json:"author,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
