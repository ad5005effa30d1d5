package phone

import "testing"

func TestToE164(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"0612345678", "+31612345678", true},
		{"+31612345678", "+31612345678", true},
		{" 020 123 4567 ", "+31201234567", true},
		{"", "", false},
		{"geen nummer", "", false},
	}

	for _, tc := range cases {
		got, ok := ToE164(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ToE164(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNormalizeE164FallsBackToInput(t *testing.T) {
	if got := NormalizeE164("  12 "); got != "12" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
}
