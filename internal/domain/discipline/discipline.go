// Package discipline defines the therapy disciplines a patient can be
// certified for and the staff role tokens attached to each one.
package discipline

import "fmt"

// Discipline is one of the three therapy disciplines.
type Discipline string

const (
	PT Discipline = "PT" // physical therapy
	OT Discipline = "OT" // occupational therapy
	ST Discipline = "ST" // speech therapy
)

// All lists the disciplines in display order.
func All() []Discipline {
	return []Discipline{PT, OT, ST}
}

// Parse converts a discipline code to a Discipline.
func Parse(s string) (Discipline, error) {
	switch Discipline(s) {
	case PT, OT, ST:
		return Discipline(s), nil
	}
	return "", fmt.Errorf("unknown discipline: %q", s)
}

// Valid reports whether d is one of PT, OT, ST.
func (d Discipline) Valid() bool {
	switch d {
	case PT, OT, ST:
		return true
	}
	return false
}

// AssistantRole returns the staff role token for the discipline's
// assistant slot (PTA, COTA, STA).
func (d Discipline) AssistantRole() string {
	switch d {
	case OT:
		return "COTA"
	default:
		return string(d) + "A"
	}
}

// MainRole returns the staff role token for the discipline's main
// therapist slot, which is the discipline code itself.
func (d Discipline) MainRole() string {
	return string(d)
}

// Slot identifies which assignment slot of a discipline an operation
// targets.
type Slot string

const (
	SlotMain      Slot = "main"
	SlotAssistant Slot = "assistant"
)

// ParseSlot converts a slot name to a Slot.
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotMain, SlotAssistant:
		return Slot(s), nil
	}
	return "", fmt.Errorf("unknown slot: %q", s)
}

// UnassignToken is the token the backend expects when clearing an
// assignment: the discipline code for the main slot, the code with an
// "A" suffix for the assistant slot.
func (d Discipline) UnassignToken(slot Slot) string {
	if slot == SlotAssistant {
		return string(d) + "A"
	}
	return string(d)
}

// RoleMatches reports whether a staff role token fills the given slot of
// this discipline. COTA is accepted alongside OTA for occupational
// therapy assistants since the directory uses the certified title.
func (d Discipline) RoleMatches(role string, slot Slot) bool {
	if slot == SlotMain {
		return role == d.MainRole()
	}
	return role == d.AssistantRole() || role == string(d)+"A"
}
