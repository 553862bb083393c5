package reward

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DefaultCountdownLabel = "Next pot available in"

var countdownPattern = regexp.MustCompile(`(?i)(\d+)\s*hours?\s*(\d+)\s*min(?:ute)?s?\s*(\d+)\s*sec(?:ond)?s?`)

// Countdown is the remaining time shown on the dashboard before the next pot opens.
type Countdown struct {
	Hours   int
	Minutes int
	Seconds int
}

func (c Countdown) Duration() time.Duration {
	return time.Duration(c.Hours)*time.Hour +
		time.Duration(c.Minutes)*time.Minute +
		time.Duration(c.Seconds)*time.Second
}

func (c Countdown) Milliseconds() int64 {
	return c.Duration().Milliseconds()
}

func (c Countdown) IsZero() bool {
	return c.Duration() <= 0
}

func (c Countdown) String() string {
	return fmt.Sprintf("%02d hours %02d min %02d sec", c.Hours, c.Minutes, c.Seconds)
}

// StripCountdownLabel removes a leading label such as "Next pot available in", case-insensitively.
func StripCountdownLabel(text, label string) string {
	text = strings.TrimSpace(text)
	if label == "" {
		return text
	}
	if rest, ok := cutFold(text, label); ok {
		return strings.TrimSpace(rest)
	}
	return text
}

// ParseCountdown never fails hard: on a mismatch it returns a zero countdown and ok=false
// so the caller can warn and carry on.
func ParseCountdown(text string) (Countdown, bool) {
	text = StripCountdownLabel(text, DefaultCountdownLabel)
	match := countdownPattern.FindStringSubmatch(strings.Join(strings.Fields(text), " "))
	if len(match) != 4 {
		return Countdown{}, false
	}

	values := make([]int, 3)
	for i := range values {
		v, err := strconv.Atoi(match[i+1])
		if err != nil {
			return Countdown{}, false
		}
		values[i] = v
	}
	return Countdown{Hours: values[0], Minutes: values[1], Seconds: values[2]}, true
}
