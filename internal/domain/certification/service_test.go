package certification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	store      map[uuid.UUID]*Window
	failCreate bool
	creates    int
}

func newMockRepo() *mockRepo { return &mockRepo{store: make(map[uuid.UUID]*Window)} }

func (m *mockRepo) ListByPatient(_ context.Context, pid uuid.UUID) ([]*Window, error) {
	var out []*Window
	for _, w := range m.store {
		if w.PatientID == pid {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m *mockRepo) Create(_ context.Context, w *Window) error {
	m.creates++
	if m.failCreate {
		return fmt.Errorf("backend unavailable")
	}
	w.ID = uuid.New()
	cp := *w
	m.store[w.ID] = &cp
	return nil
}
func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	w, ok := m.store[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	w.Status = status
	return nil
}
func (m *mockRepo) Update(_ context.Context, w *Window) error {
	if _, ok := m.store[w.ID]; !ok {
		return fmt.Errorf("not found")
	}
	cp := *w
	m.store[w.ID] = &cp
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return fmt.Errorf("not found")
	}
	delete(m.store, id)
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(uuid.New(), repo, zerolog.Nop())
}

func countActive(ws []*Window) int {
	n := 0
	for _, w := range ws {
		if w.Status == StatusActive {
			n++
		}
	}
	return n
}

func TestAdd_FirstWindow(t *testing.T) {
	svc := newTestService(newMockRepo())
	w, err := svc.Add(context.Background(), &Window{StartDate: date("2025-02-15")})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !w.EndDate.Equal(date("2025-04-16")) {
		t.Errorf("end = %s, want 2025-04-16", w.EndDate.Format(DateFormat))
	}
	if w.Status != StatusActive {
		t.Errorf("status = %s, want active", w.Status)
	}
	if w.ID == uuid.Nil {
		t.Error("backend id not assigned")
	}
}

func TestAdd_ExpiresExisting(t *testing.T) {
	svc := newTestService(newMockRepo())
	first, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-01-01")})
	second, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-03-10")})
	if first.Status != StatusExpired {
		t.Errorf("first status = %s, want expired", first.Status)
	}
	if second.Status != StatusActive {
		t.Errorf("second status = %s, want active", second.Status)
	}
	if countActive(svc.Windows()) != 1 {
		t.Errorf("active windows = %d, want 1", countActive(svc.Windows()))
	}
}

func TestAdd_BackendFailure_KeepsLocalCopy(t *testing.T) {
	repo := newMockRepo()
	repo.failCreate = true
	svc := newTestService(repo)
	w, err := svc.Add(context.Background(), &Window{StartDate: date("2025-05-01")})
	if err == nil {
		t.Fatal("expected inline warning")
	}
	if w == nil || !w.Temporary {
		t.Fatalf("window = %+v, want local temporary copy", w)
	}
	if w.ID == uuid.Nil {
		t.Error("temporary id not assigned")
	}
	if len(svc.Windows()) != 1 || svc.Active() != w {
		t.Error("window should still be in local state and active")
	}
}

func TestSelect_PromotesChosen(t *testing.T) {
	svc := newTestService(newMockRepo())
	a, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-01-01")})
	b, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-03-10")})
	if _, err := svc.Select(context.Background(), a.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if a.Status != StatusActive || b.Status != StatusExpired {
		t.Errorf("a=%s b=%s, want active/expired", a.Status, b.Status)
	}
	if countActive(svc.Windows()) != 1 {
		t.Errorf("active windows = %d, want 1", countActive(svc.Windows()))
	}
}

func TestDelete_OnlyWindowRefused(t *testing.T) {
	svc := newTestService(newMockRepo())
	svc.Add(context.Background(), &Window{StartDate: date("2025-01-01")})
	w := svc.Windows()[0]
	if err := svc.Delete(context.Background(), w.ID); err == nil {
		t.Error("expected refusal to delete the only window")
	}
}

func TestDelete_ActivePromotesLatestEndDate(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	// a(end 5/1), b(end 6/1), c(end 4/1); active is the last added.
	a, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-03-02"), EndDate: date("2025-05-01")})
	b, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-04-02"), EndDate: date("2025-06-01")})
	c, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-02-03"), EndDate: date("2025-04-01")})

	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if b.Status != StatusActive {
		t.Errorf("b status = %s, want active (latest end date)", b.Status)
	}
	if a.Status != StatusExpired {
		t.Errorf("a status = %s, want expired", a.Status)
	}
	if countActive(svc.Windows()) != 1 {
		t.Errorf("active windows = %d, want 1", countActive(svc.Windows()))
	}
	if len(svc.Windows()) != 2 {
		t.Errorf("windows = %d, want 2", len(svc.Windows()))
	}
}

func TestDelete_NonActive_NoPromotion(t *testing.T) {
	svc := newTestService(newMockRepo())
	svc.Add(context.Background(), &Window{StartDate: date("2025-01-01")})
	b, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-03-10")})
	victim := svc.Windows()[0]
	if err := svc.Delete(context.Background(), victim.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if svc.Active() != b {
		t.Error("active window should be unchanged")
	}
}

// Random-ish add/select/delete sequences must preserve the
// single-active invariant.
func TestSingleActiveInvariant_Sequences(t *testing.T) {
	svc := newTestService(newMockRepo())
	ctx := context.Background()

	svc.Add(ctx, &Window{StartDate: date("2025-01-01")})
	svc.Add(ctx, &Window{StartDate: date("2025-02-01")})
	svc.Add(ctx, &Window{StartDate: date("2025-03-01")})
	svc.Select(ctx, svc.Windows()[0].ID)
	svc.Delete(ctx, svc.Windows()[0].ID)
	svc.Add(ctx, &Window{StartDate: date("2025-04-01")})
	svc.Select(ctx, svc.Windows()[1].ID)

	if countActive(svc.Windows()) != 1 {
		t.Errorf("active windows = %d, want exactly 1", countActive(svc.Windows()))
	}
}

func TestUpdateDates_StartChangeRecomputesEnd(t *testing.T) {
	svc := newTestService(newMockRepo())
	w, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-01-01")})
	updated, err := svc.UpdateDates(context.Background(), w.ID, date("2025-02-15"), time.Time{})
	if err != nil {
		t.Fatalf("UpdateDates: %v", err)
	}
	if !updated.EndDate.Equal(date("2025-04-16")) {
		t.Errorf("end = %s, want recomputed 2025-04-16", updated.EndDate.Format(DateFormat))
	}
}

func TestUpdateDates_ExplicitEndWins(t *testing.T) {
	svc := newTestService(newMockRepo())
	w, _ := svc.Add(context.Background(), &Window{StartDate: date("2025-01-01")})
	updated, err := svc.UpdateDates(context.Background(), w.ID, date("2025-02-15"), date("2025-03-31"))
	if err != nil {
		t.Fatalf("UpdateDates: %v", err)
	}
	if !updated.EndDate.Equal(date("2025-03-31")) {
		t.Errorf("end = %s, want explicit 2025-03-31", updated.EndDate.Format(DateFormat))
	}
}

func TestLoad_DoesNotRecomputeFetchedEndDates(t *testing.T) {
	repo := newMockRepo()
	pid := uuid.New()
	id := uuid.New()
	// A stored window whose end date is not start+60.
	repo.store[id] = &Window{
		ID: id, PatientID: pid,
		StartDate: date("2025-01-01"), EndDate: date("2025-01-20"),
		Status: StatusActive,
	}
	svc := NewService(pid, repo, zerolog.Nop())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := svc.Windows()[0].EndDate; !got.Equal(date("2025-01-20")) {
		t.Errorf("end = %s, fetched dates must stay as stored", got.Format(DateFormat))
	}
}

func TestProgress_UsesActiveWindow(t *testing.T) {
	svc := newTestService(newMockRepo())
	svc.Add(context.Background(), &Window{StartDate: date("2025-01-01"), EndDate: date("2025-03-02")})
	p, err := svc.Progress(date("2025-03-02"))
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.Percentage != 100 || p.DaysRemaining != 0 {
		t.Errorf("p = %+v", p)
	}
}
