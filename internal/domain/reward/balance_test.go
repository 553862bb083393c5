package reward

import (
	"errors"
	"strings"
	"testing"
)

func TestParseBalance(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1,234.50", 1234.5},
		{"1234.5", 1234.5},
		{"1.234,50", 1234.5},
		{"100.00", 100},
		{"105.25", 105.25},
		{"12,345", 12345},
		{"12,5", 12.5},
		{"1,234,567", 1234567},
		{"$ 3.75", 3.75},
		{"Current Balance 2,500.10 credits", 2500.1},
	}
	for _, tt := range tests {
		got, err := ParseBalance(tt.raw)
		if err != nil {
			t.Errorf("ParseBalance(%q) error: %v", tt.raw, err)
			continue
		}
		if got.Value != tt.want {
			t.Errorf("ParseBalance(%q) = %v, want %v", tt.raw, got.Value, tt.want)
		}
	}
}

func TestParseBalanceErrors(t *testing.T) {
	if _, err := ParseBalance("   "); !errors.Is(err, ErrEmptyBalance) {
		t.Errorf("expected ErrEmptyBalance, got %v", err)
	}
	if _, err := ParseBalance("no digits here"); !errors.Is(err, ErrInvalidBalance) {
		t.Errorf("expected ErrInvalidBalance, got %v", err)
	}
}

func TestBalanceComparisonIsNumeric(t *testing.T) {
	a, _ := ParseBalance("1,234.50")
	b, _ := ParseBalance("1234.5")
	if !a.Equal(b) {
		t.Fatalf("%q and %q should be equal", a.Raw, b.Raw)
	}
	if a.Raw == b.Raw {
		t.Fatal("raw strings differ, comparison must not rely on them")
	}

	before, _ := ParseBalance("100.00")
	same, _ := ParseBalance("100")
	after, _ := ParseBalance("105.25")
	if before.Increased(same) {
		t.Error("unchanged balance reported as increase")
	}
	if !before.Increased(after) {
		t.Error("expected increase from 100.00 to 105.25")
	}
	if after.Increased(before) {
		t.Error("decrease reported as increase")
	}
}

func TestExtractBalance(t *testing.T) {
	markers := []string{"Current Balance"}
	got, ok := ExtractBalance("Wallet 3 devices Current balance 1,020.75 Earned today 4", markers)
	if !ok || got.Value != 1020.75 {
		t.Fatalf("ExtractBalance = %+v, %v", got, ok)
	}
	got, ok = ExtractBalance("987.6", markers)
	if !ok || got.Value != 987.6 {
		t.Fatalf("fallback to first number failed: %+v, %v", got, ok)
	}
	if _, ok := ExtractBalance("Current Balance", markers); ok {
		t.Error("expected no balance without digits")
	}
}

func TestParseBalanceKeepsOnlyTheNumber(t *testing.T) {
	b, err := ParseBalance("Current Balance 2,500.10 credits")
	if err != nil {
		t.Fatal(err)
	}
	if b.Raw != "2,500.10" {
		t.Errorf("Raw = %q", b.Raw)
	}
}

func TestExtractBalanceAfterWideningRunes(t *testing.T) {
	// Ⱥ is two bytes but lowercases to three.
	prefix := strings.Repeat("Ⱥ", 15)

	if _, ok := ExtractBalance(prefix+" Current Balance", []string{"Current Balance"}); ok {
		t.Error("expected no balance without digits")
	}
	got, ok := ExtractBalance(prefix+" CURRENT BALANCE 12.50", []string{"Current Balance"})
	if !ok || got.Raw != "12.50" {
		t.Fatalf("ExtractBalance = %+v, %v", got, ok)
	}
	got, ok = ExtractBalance("ⱥⱥ 3 devices Ⱥ Current Balance 7.25", []string{"current balance"})
	if !ok || got.Value != 7.25 {
		t.Fatalf("marker after mixed-width runes: %+v, %v", got, ok)
	}
}
