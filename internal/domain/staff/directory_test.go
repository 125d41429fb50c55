package staff

import (
	"context"
	"testing"

	"github.com/careflow/careflow/internal/domain/discipline"
)

type mockRepo struct {
	refs  []*Ref
	calls int
}

func (m *mockRepo) List(_ context.Context) ([]*Ref, error) {
	m.calls++
	return m.refs, nil
}

func roster() []*Ref {
	return []*Ref{
		{ID: "s1", Name: "Pat Ortega", Role: "PT"},
		{ID: "s2", Name: "Aldo Kim", Role: "PTA"},
		{ID: "s3", Name: "Olive Tran", Role: "OT"},
		{ID: "s4", Name: "Cora Diaz", Role: "COTA"},
		{ID: "s5", Name: "Sam Lee", Role: "ST"},
		{ID: "s6", Name: "Home Health Plus", Role: "agency"},
	}
}

func TestGet_CachesRoster(t *testing.T) {
	repo := &mockRepo{refs: roster()}
	dir := NewDirectory(repo)
	ctx := context.Background()

	r, err := dir.Get(ctx, "s3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Name != "Olive Tran" {
		t.Errorf("name = %s", r.Name)
	}
	dir.Get(ctx, "s1")
	dir.Get(ctx, "s5")
	if repo.calls != 1 {
		t.Errorf("roster fetched %d times, want 1", repo.calls)
	}
}

func TestGet_Unknown(t *testing.T) {
	dir := NewDirectory(&mockRepo{refs: roster()})
	if _, err := dir.Get(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestAgencies(t *testing.T) {
	dir := NewDirectory(&mockRepo{refs: roster()})
	got, err := dir.Agencies(context.Background())
	if err != nil {
		t.Fatalf("Agencies: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s6" {
		t.Errorf("agencies = %+v", got)
	}
}

func TestForSlot(t *testing.T) {
	dir := NewDirectory(&mockRepo{refs: roster()})
	ctx := context.Background()

	mains, _ := dir.ForSlot(ctx, discipline.PT, discipline.SlotMain)
	if len(mains) != 1 || mains[0].ID != "s1" {
		t.Errorf("PT mains = %+v", mains)
	}
	assts, _ := dir.ForSlot(ctx, discipline.OT, discipline.SlotAssistant)
	if len(assts) != 1 || assts[0].ID != "s4" {
		t.Errorf("OT assistants = %+v (COTA expected)", assts)
	}
	none, _ := dir.ForSlot(ctx, discipline.ST, discipline.SlotAssistant)
	if len(none) != 0 {
		t.Errorf("ST assistants = %+v, want none", none)
	}
}

func TestRefresh_RebuildsCache(t *testing.T) {
	repo := &mockRepo{refs: roster()}
	dir := NewDirectory(repo)
	ctx := context.Background()
	dir.Get(ctx, "s1")

	repo.refs = []*Ref{{ID: "s9", Name: "New Hire", Role: "ST"}}
	if err := dir.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := dir.Get(ctx, "s1"); err == nil {
		t.Error("stale entry should be gone after refresh")
	}
	if _, err := dir.Get(ctx, "s9"); err != nil {
		t.Errorf("new entry missing: %v", err)
	}
}
