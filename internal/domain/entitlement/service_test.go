package entitlement

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/discipline"
)

func newTestService() *Service { return NewService(zerolog.Nop()) }

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		approved, used int
		want           Status
	}{
		{0, 0, StatusWaiting},
		{0, 5, StatusWaiting},
		{1, 0, StatusActive},
		{12, 3, StatusActive},
		{6, 6, StatusNoMore},
		{6, 9, StatusNoMore},
		{1, 1, StatusNoMore},
	}
	for _, c := range cases {
		if got := DeriveStatus(c.approved, c.used); got != c.want {
			t.Errorf("DeriveStatus(%d, %d) = %s, want %s", c.approved, c.used, got, c.want)
		}
	}
}

func TestSetApproved_DerivesStatus(t *testing.T) {
	svc := newTestService()
	r, err := svc.SetApproved(discipline.PT, "12")
	if err != nil {
		t.Fatalf("SetApproved: %v", err)
	}
	if r.Status != StatusActive {
		t.Errorf("status = %s, want active", r.Status)
	}
	if _, err := svc.SetUsed(discipline.PT, "3"); err != nil {
		t.Fatalf("SetUsed: %v", err)
	}
	r, _ = svc.Record(discipline.PT)
	if r.Remaining() != 9 {
		t.Errorf("remaining = %d, want 9", r.Remaining())
	}
	if r.UtilizationPercent() != 25 {
		t.Errorf("utilization = %d%%, want 25%%", r.UtilizationPercent())
	}
}

func TestExhaustedAuthorization(t *testing.T) {
	svc := newTestService()
	svc.SetApproved(discipline.OT, "6")
	r, _ := svc.SetUsed(discipline.OT, "6")
	if r.Status != StatusNoMore {
		t.Errorf("status = %s, want no_more", r.Status)
	}
	if r.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", r.Remaining())
	}
	if r.UtilizationPercent() != 100 {
		t.Errorf("utilization = %d%%, want 100%%", r.UtilizationPercent())
	}
}

func TestEmptyInput_KeptRawDerivedAsZero(t *testing.T) {
	svc := newTestService()
	svc.SetApproved(discipline.ST, "8")
	r, _ := svc.SetApproved(discipline.ST, "")
	if r.ApprovedRaw != "" {
		t.Errorf("raw = %q, want empty preserved", r.ApprovedRaw)
	}
	if r.Approved != 0 {
		t.Errorf("approved = %d, want 0", r.Approved)
	}
	if r.Status != StatusWaiting {
		t.Errorf("status = %s, want waiting", r.Status)
	}
}

func TestMalformedInput_FallsBackToZero(t *testing.T) {
	svc := newTestService()
	r, _ := svc.SetUsed(discipline.PT, "three")
	if r.Used != 0 {
		t.Errorf("used = %d, want 0", r.Used)
	}
	if r, _ := svc.SetApproved(discipline.PT, "-4"); r.Approved != 0 {
		t.Errorf("approved = %d, want 0", r.Approved)
	}
}

func TestUsedAboveApproved_NotBlocked(t *testing.T) {
	svc := newTestService()
	svc.SetApproved(discipline.PT, "4")
	r, _ := svc.SetUsed(discipline.PT, "7")
	if r.Used != 7 {
		t.Errorf("used = %d, want 7 (out-of-range values are kept)", r.Used)
	}
	if r.Status != StatusNoMore {
		t.Errorf("status = %s, want no_more", r.Status)
	}
	if r.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", r.Remaining())
	}
	if r.UtilizationPercent() != 100 {
		t.Errorf("utilization clamped = %d%%, want 100%%", r.UtilizationPercent())
	}
}

func TestOverrideStatus_BypassesDerivation(t *testing.T) {
	svc := newTestService()
	svc.SetApproved(discipline.PT, "6")
	svc.SetUsed(discipline.PT, "6")
	r, err := svc.OverrideStatus(discipline.PT, StatusActive)
	if err != nil {
		t.Fatalf("OverrideStatus: %v", err)
	}
	if r.Status != StatusActive {
		t.Errorf("status = %s, want active (override honored)", r.Status)
	}
	if !r.Overridden {
		t.Error("record should be marked overridden")
	}
	if r.Consistent() {
		t.Error("override should be flagged inconsistent with counters")
	}
	// The next counter edit re-derives and clears the override.
	r, _ = svc.SetUsed(discipline.PT, "5")
	if r.Overridden || r.Status != StatusActive {
		t.Errorf("after edit: overridden=%v status=%s, want derived active", r.Overridden, r.Status)
	}
}

func TestOverrideStatus_Invalid(t *testing.T) {
	svc := newTestService()
	if _, err := svc.OverrideStatus(discipline.PT, Status("paused")); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestReset(t *testing.T) {
	svc := newTestService()
	svc.SetApproved(discipline.OT, "10")
	svc.SetUsed(discipline.OT, "4")
	r, err := svc.Reset(discipline.OT)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if r.Approved != 0 || r.Used != 0 || r.Status != StatusWaiting {
		t.Errorf("reset record = %+v, want defaults", r)
	}
}

func TestLoad_IgnoresUnknownDisciplines(t *testing.T) {
	svc := newTestService()
	svc.Load([]*Record{
		{Discipline: discipline.PT, Approved: 9, Used: 2, Status: StatusActive},
		{Discipline: discipline.Discipline("RT"), Approved: 3},
	})
	r, _ := svc.Record(discipline.PT)
	if r.Approved != 9 {
		t.Errorf("approved = %d, want 9", r.Approved)
	}
	if len(svc.Records()) != 3 {
		t.Errorf("records = %d, want 3", len(svc.Records()))
	}
}
