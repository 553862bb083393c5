package reward

import "testing"

func TestIsClaimLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Open Lucky Pot", true},
		{"  OPEN   lucky pot ", true},
		{"Claim", true},
		{"Learn more", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsClaimLabel(tt.label, DefaultClaimLabels); got != tt.want {
			t.Errorf("IsClaimLabel(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
	if IsClaimLabel("Claim", nil) {
		t.Error("empty allow-list must reject everything")
	}
}
