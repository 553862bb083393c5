package worker

import (
	"testing"
	"time"
)

var defaultSteps = []time.Duration{5 * time.Minute, 15 * time.Minute, 30 * time.Minute, time.Hour, 2 * time.Hour}

func TestBackoffEscalatesThenRecovers(t *testing.T) {
	b := NewBackoff(defaultSteps, 6*time.Hour, true)
	want := []time.Duration{
		5 * time.Minute,
		10 * time.Minute,
		15 * time.Minute,
		30 * time.Minute,
		time.Hour,
		6 * time.Hour,
		5 * time.Minute,
	}
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Fatalf("step %d: got %v, want %v", i, got, w)
		}
	}
}

func TestBackoffReset(t *testing.T) {
	b := NewBackoff(defaultSteps, 6*time.Hour, true)
	b.Next()
	b.Next()
	if b.Attempts() != 2 {
		t.Fatalf("Attempts = %d", b.Attempts())
	}
	b.Reset()
	if got := b.Next(); got != 5*time.Minute {
		t.Errorf("after reset got %v", got)
	}
}

func TestBackoffFixed(t *testing.T) {
	b := NewBackoff(defaultSteps, 6*time.Hour, false)
	for i := 0; i < 8; i++ {
		if got := b.Next(); got != 5*time.Minute {
			t.Fatalf("call %d: got %v", i, got)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateWaitingOnCountdown.String() != "WAITING_ON_COUNTDOWN" || State(99).String() != "UNKNOWN" {
		t.Error("unexpected state names")
	}
}
