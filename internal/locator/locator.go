package locator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/pkg/utils"
)

const (
	Placeholder    = "{n}"
	DefaultTimeout = 5 * time.Second
)

var ErrNotResolved = errors.New("locator not resolved")

// Prober is the slice of a page the resolver needs: wait for a selector and read its text.
type Prober interface {
	Text(ctx context.Context, selector string, timeout time.Duration) (string, error)
}

// Family is a selector template parameterised by one structural index (an nth-child position).
type Family struct {
	Name       string        `yaml:"name"`
	Template   string        `yaml:"template"`
	Candidates []int         `yaml:"candidates"`
	Markers    []string      `yaml:"markers"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Match struct {
	Selector string
	Index    int
	Text     string
}

func (f Family) Selector(n int) string {
	return strings.ReplaceAll(f.Template, Placeholder, strconv.Itoa(n))
}

func (f Family) templated() bool {
	return strings.Contains(f.Template, Placeholder)
}

// ProbeOrder puts last first when it is one of the candidates. Zero means nothing remembered.
func ProbeOrder(candidates []int, last int) []int {
	order := make([]int, 0, len(candidates))
	remembered := false
	if last != 0 {
		for _, c := range candidates {
			if c == last {
				remembered = true
				break
			}
		}
	}
	if remembered {
		order = append(order, last)
	}
	for _, c := range candidates {
		if remembered && c == last {
			continue
		}
		order = append(order, c)
	}
	return order
}

// Resolve returns the first instantiation of f that exists within its timeout and whose text
// contains one of its markers.
func Resolve(ctx context.Context, p Prober, f Family, last int) (Match, error) {
	if !f.templated() {
		return probe(ctx, p, f, f.Template, 0)
	}

	var lastErr error
	for _, n := range ProbeOrder(f.Candidates, last) {
		if err := ctx.Err(); err != nil {
			return Match{}, err
		}
		m, err := probe(ctx, p, f, f.Selector(n), n)
		if err == nil {
			return m, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: %s has no candidates", ErrNotResolved, f.Name)
	}
	return Match{}, lastErr
}

func probe(ctx context.Context, p Prober, f Family, selector string, n int) (Match, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	text, err := p.Text(ctx, selector, timeout)
	if err != nil {
		if ctx.Err() != nil {
			return Match{}, ctx.Err()
		}
		return Match{}, fmt.Errorf("%w: %s[%d]: %v", ErrNotResolved, f.Name, n, err)
	}
	if !ContainsAny(text, f.Markers) {
		return Match{}, fmt.Errorf("%w: %s[%d]: marker missing in %q", ErrNotResolved, f.Name, n, utils.ShortenText(text, 60))
	}
	return Match{Selector: selector, Index: n, Text: text}, nil
}

// ContainsAny matches case-insensitively; no markers means any text is accepted.
func ContainsAny(text string, markers []string) bool {
	if len(markers) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
