package staff

import (
	"context"
	"fmt"
	"sync"

	"github.com/careflow/careflow/internal/domain/discipline"
)

// Directory serves staff lookups, caching entries by id so repeated
// reference resolution does not re-hit the roster endpoint.
type Directory struct {
	repo Repository

	mu    sync.RWMutex
	byID  map[string]*Ref
	all   []*Ref
	ready bool
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo, byID: make(map[string]*Ref)}
}

// Refresh re-fetches the roster and rebuilds the cache.
func (d *Directory) Refresh(ctx context.Context) error {
	refs, err := d.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list staff: %w", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.all = refs
	d.byID = make(map[string]*Ref, len(refs))
	for _, r := range refs {
		d.byID[r.ID] = r
	}
	d.ready = true
	return nil
}

func (d *Directory) ensure(ctx context.Context) error {
	d.mu.RLock()
	ready := d.ready
	d.mu.RUnlock()
	if ready {
		return nil
	}
	return d.Refresh(ctx)
}

// Get resolves a staff reference by id.
func (d *Directory) Get(ctx context.Context, id string) (*Ref, error) {
	if err := d.ensure(ctx); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("staff not found: %s", id)
	}
	return r, nil
}

// All returns the full roster.
func (d *Directory) All(ctx context.Context) ([]*Ref, error) {
	if err := d.ensure(ctx); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Ref(nil), d.all...), nil
}

// Agencies returns directory entries with the agency role.
func (d *Directory) Agencies(ctx context.Context) ([]*Ref, error) {
	return d.filter(ctx, func(r *Ref) bool { return r.Role == RoleAgency })
}

// ForSlot returns therapists qualified for a discipline's slot.
func (d *Directory) ForSlot(ctx context.Context, disc discipline.Discipline, slot discipline.Slot) ([]*Ref, error) {
	return d.filter(ctx, func(r *Ref) bool { return r.FillsSlot(disc, slot) })
}

func (d *Directory) filter(ctx context.Context, keep func(*Ref) bool) ([]*Ref, error) {
	if err := d.ensure(ctx); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Ref
	for _, r := range d.all {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
