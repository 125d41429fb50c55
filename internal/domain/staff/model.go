// Package staff exposes the staff directory as read-only projections,
// with client-side role filtering and a by-id cache.
package staff

import (
	"github.com/careflow/careflow/internal/domain/discipline"
	"github.com/careflow/careflow/pkg/phone"
)

// RoleAgency marks non-clinical agency contacts in the directory.
const RoleAgency = "agency"

// Ref is a read-only projection of a staff directory entry.
type Ref struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

// DisplayPhone formats the stored raw digits for display.
func (r *Ref) DisplayPhone() string {
	return phone.Display(r.Phone)
}

// FillsSlot reports whether this entry can fill the given slot of a
// discipline.
func (r *Ref) FillsSlot(d discipline.Discipline, slot discipline.Slot) bool {
	return d.RoleMatches(r.Role, slot)
}
