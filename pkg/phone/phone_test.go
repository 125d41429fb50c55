package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"(555) 123-4567", "5551234567"},
		{"555.123.4567", "5551234567"},
		{"+1 555 123 4567", "5551234567"},
		{"15551234567", "5551234567"},
		{"5551234567", "5551234567"},
		{"x123", "123"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("5551234567"); got != "(555) 123-4567" {
		t.Errorf("Display = %q", got)
	}
	if got := Display("(555)123-4567"); got != "(555) 123-4567" {
		t.Errorf("Display = %q", got)
	}
	// Not ten digits: pass through untouched.
	if got := Display("123"); got != "123" {
		t.Errorf("Display = %q", got)
	}
}
