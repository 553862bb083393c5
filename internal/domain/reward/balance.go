package reward

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmptyBalance   = errors.New("empty balance text")
	ErrInvalidBalance = errors.New("invalid balance text")

	numberPattern = regexp.MustCompile(`\d[\d.,]*`)
)

const balanceEpsilon = 1e-9

// Balance keeps the number as shown on the page next to its parsed value.
type Balance struct {
	Raw   string
	Value float64
}

func (b Balance) String() string {
	return b.Raw
}

func (b Balance) Equal(other Balance) bool {
	return math.Abs(b.Value-other.Value) < balanceEpsilon
}

// Increased reports whether after is numerically greater than b.
func (b Balance) Increased(after Balance) bool {
	return after.Value-b.Value > balanceEpsilon
}

// ParseBalance accepts locale-formatted numbers ("1,234.50", "1.234,50", "1234.5").
// When both separators appear the last one is the decimal point. A single comma followed by
// exactly three digits is a thousands separator; a single period is always the decimal point.
// Repeated separators are thousands separators.
func ParseBalance(raw string) (Balance, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Balance{}, ErrEmptyBalance
	}

	number := numberPattern.FindString(trimmed)
	if number == "" {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidBalance, raw)
	}
	number = strings.TrimRight(number, ".,")

	normalized := normalizeSeparators(number)
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidBalance, raw)
	}
	return Balance{Raw: number, Value: value}, nil
}

// ExtractBalance returns the number following the first marker found in text, or the first
// number in text when no marker matches.
func ExtractBalance(text string, markers []string) (Balance, bool) {
	for _, marker := range markers {
		rest, ok := cutFold(text, marker)
		if !ok {
			continue
		}
		if b, err := ParseBalance(rest); err == nil {
			return b, true
		}
	}
	b, err := ParseBalance(text)
	if err != nil {
		return Balance{}, false
	}
	return b, true
}

func normalizeSeparators(number string) string {
	commas := strings.Count(number, ",")
	periods := strings.Count(number, ".")

	switch {
	case commas > 0 && periods > 0:
		if strings.LastIndex(number, ",") > strings.LastIndex(number, ".") {
			number = strings.ReplaceAll(number, ".", "")
			return strings.Replace(number, ",", ".", 1)
		}
		return strings.ReplaceAll(number, ",", "")
	case commas > 1:
		return strings.ReplaceAll(number, ",", "")
	case periods > 1:
		return strings.ReplaceAll(number, ".", "")
	case commas == 1:
		idx := strings.Index(number, ",")
		if len(number)-idx-1 == 3 {
			return strings.Replace(number, ",", "", 1)
		}
		return strings.Replace(number, ",", ".", 1)
	default:
		return number
	}
}

// cutFold returns what follows the first case-insensitive occurrence of marker in text.
// Offsets come from text itself since lowercasing can change a string's byte length.
func cutFold(text, marker string) (string, bool) {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return "", false
	}
	loc := regexp.MustCompile("(?i)" + regexp.QuoteMeta(marker)).FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[1]:], true
}
