// Package patient manages the patient chart: demographics, contact
// info, activation, and the intake defaults that seed the first
// certification period.
package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/careflow/careflow/pkg/phone"
)

// Patient is the chart-level aggregate.
type Patient struct {
	ID                   uuid.UUID          `json:"id"`
	FirstName            string             `json:"first_name"`
	LastName             string             `json:"last_name"`
	BirthDate            *time.Time         `json:"birth_date,omitempty"`
	Gender               string             `json:"gender,omitempty"`
	Address              string             `json:"address,omitempty"`
	Phone                string             `json:"phone,omitempty"`
	IsActive             bool               `json:"is_active"`
	InitialCertStartDate *time.Time         `json:"initial_cert_start_date,omitempty"`
	Contacts             []EmergencyContact `json:"contact_info,omitempty"`
}

// EmergencyContact is one entry in the patient's contact list. The list
// is always rewritten wholesale; there is no per-entry update.
type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// DisplayPhone formats the stored raw digits for display.
func (p *Patient) DisplayPhone() string {
	return phone.Display(p.Phone)
}

// Intake is the validated payload for admitting a new patient.
type Intake struct {
	FirstName            string `json:"first_name" validate:"required"`
	LastName             string `json:"last_name" validate:"required"`
	BirthDate            string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender               string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address              string `json:"address,omitempty"`
	Phone                string `json:"phone,omitempty"`
	InitialCertStartDate string `json:"initial_cert_start_date" validate:"required,datetime=2006-01-02"`
}
