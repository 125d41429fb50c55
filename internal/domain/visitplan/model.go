// Package visitplan manages which therapists cover each discipline for
// a patient and how often visits are scheduled.
package visitplan

import (
	"github.com/careflow/careflow/internal/domain/discipline"
	"github.com/careflow/careflow/internal/domain/staff"
)

// Plan is the coverage for one discipline: a main therapist slot, an
// assistant slot, and a visit-frequency token.
type Plan struct {
	Discipline discipline.Discipline `json:"discipline"`
	Main       *staff.Ref            `json:"main,omitempty"`
	Assistant  *staff.Ref            `json:"assistant,omitempty"`
	// Frequency is free text ("3x/week"); presets are suggestions, not
	// an enforced vocabulary.
	Frequency string `json:"frequency,omitempty"`
}

// IsActive reports whether the discipline has anyone assigned.
func (p *Plan) IsActive() bool {
	return p.Main != nil || p.Assistant != nil
}

// FrequencySuggestions is the preset list offered when editing a plan's
// frequency. Free text outside the list is accepted.
func FrequencySuggestions() []string {
	return []string{
		"1x/week", "2x/week", "3x/week", "4x/week", "5x/week",
		"6x/week", "7x/week", "1x/day", "2x/day",
		"1x/month", "2x/month", "eval only", "PRN",
	}
}
