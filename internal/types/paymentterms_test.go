package types

import "testing"

func TestParsePaymentTermsDays(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		wantDays   int
		wantParsed bool
	}{
		{"net 30", "Net 30", 30, true},
		{"net 45", "Net 45", 45, true},
		{"days suffix", "60 days from BL date", 60, true},
		{"first digit run wins", "30/60 split", 30, true},
		{"no digits", "cash on delivery", 30, false},
		{"empty label", "", 30, false},
		{"zero days invalid", "Net 0", 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, parsed := ParsePaymentTermsDays(tt.label, DefaultPaymentTermsDays)
			if days != tt.wantDays || parsed != tt.wantParsed {
				t.Errorf("got (%d, %v), want (%d, %v)", days, parsed, tt.wantDays, tt.wantParsed)
			}
		})
	}
}
