package worker

import "time"

// Backoff spaces out retries while the page shows neither a countdown nor a claim control.
// Steps are cumulative offsets from the first anomaly; Next returns the gap to the next one.
// After the last step it returns the recovery sleep once and starts over.
type Backoff struct {
	steps    []time.Duration
	recovery time.Duration
	escalate bool
	n        int
}

func NewBackoff(steps []time.Duration, recovery time.Duration, escalate bool) *Backoff {
	return &Backoff{steps: steps, recovery: recovery, escalate: escalate}
}

func (b *Backoff) Next() time.Duration {
	if len(b.steps) == 0 {
		return b.recovery
	}
	if !b.escalate {
		return b.steps[0]
	}
	if b.n >= len(b.steps) {
		b.n = 0
		return b.recovery
	}

	d := b.steps[b.n]
	if b.n > 0 {
		d -= b.steps[b.n-1]
	}
	b.n++
	return d
}

func (b *Backoff) Reset() {
	b.n = 0
}

// Attempts is the number of escalation steps taken since the last reset.
func (b *Backoff) Attempts() int {
	return b.n
}
