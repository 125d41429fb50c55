package discipline

import "testing"

func TestParse_Valid(t *testing.T) {
	for _, code := range []string{"PT", "OT", "ST"} {
		d, err := Parse(code)
		if err != nil {
			t.Fatalf("Parse(%q): %v", code, err)
		}
		if string(d) != code {
			t.Errorf("Parse(%q) = %q", code, d)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, code := range []string{"", "pt", "RT", "PTA"} {
		if _, err := Parse(code); err == nil {
			t.Errorf("Parse(%q): expected error", code)
		}
	}
}

func TestAssistantRole(t *testing.T) {
	cases := map[Discipline]string{PT: "PTA", OT: "COTA", ST: "STA"}
	for d, want := range cases {
		if got := d.AssistantRole(); got != want {
			t.Errorf("%s.AssistantRole() = %q, want %q", d, got, want)
		}
	}
}

func TestUnassignToken(t *testing.T) {
	if got := PT.UnassignToken(SlotMain); got != "PT" {
		t.Errorf("main token = %q, want PT", got)
	}
	if got := PT.UnassignToken(SlotAssistant); got != "PTA" {
		t.Errorf("assistant token = %q, want PTA", got)
	}
	// The backend token is always the plain code plus "A", even where the
	// directory role title differs.
	if got := OT.UnassignToken(SlotAssistant); got != "OTA" {
		t.Errorf("OT assistant token = %q, want OTA", got)
	}
}

func TestRoleMatches(t *testing.T) {
	if !OT.RoleMatches("COTA", SlotAssistant) {
		t.Error("COTA should fill the OT assistant slot")
	}
	if !OT.RoleMatches("OTA", SlotAssistant) {
		t.Error("OTA should fill the OT assistant slot")
	}
	if OT.RoleMatches("OT", SlotAssistant) {
		t.Error("OT should not fill the assistant slot")
	}
	if !ST.RoleMatches("ST", SlotMain) {
		t.Error("ST should fill its own main slot")
	}
}
