package notifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apihttp "github.com/ohmynofan/honeygain-pot-bot/internal/adapters/http"
)

func newClient(t *testing.T) *apihttp.APIClient {
	t.Helper()
	c, err := apihttp.NewAPIClient("", "test", 5*time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestClaimConfirmedPostsEmptyBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if len(body) != 0 {
			t.Errorf("expected empty body, got %q", body)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("details should be off, got query %q", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	NewWebhook(srv.URL, false, newClient(t), nil).ClaimConfirmed(context.Background(), ClaimEvent{BalanceBefore: "100.00", BalanceAfter: "105.25"})
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
}

func TestClaimConfirmedWithDetails(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.URL.Query().Get("balance_after") + "|" + r.URL.Query().Get("event")
	}))
	defer srv.Close()

	NewWebhook(srv.URL, true, newClient(t), nil).ClaimConfirmed(context.Background(), ClaimEvent{
		BalanceBefore: "100.00",
		BalanceAfter:  "105.25",
		ClaimedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if q := <-got; q != "105.25|claim_confirmed" {
		t.Errorf("unexpected query values %q", q)
	}
}

type recordingFetcher struct{ calls int }

func (f *recordingFetcher) Fetch(context.Context, string, *apihttp.FetchOptions) (interface{}, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestClaimConfirmedSkips(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no url", ""},
		{"ftp scheme", "ftp://example.com/hook"},
		{"javascript scheme", "javascript:alert(1)"},
		{"no host", "https://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &recordingFetcher{}
			NewWebhook(tt.url, false, f, nil).ClaimConfirmed(context.Background(), ClaimEvent{})
			if f.calls != 0 {
				t.Errorf("expected no call, got %d", f.calls)
			}
		})
	}
}

func TestClaimConfirmedSwallowsErrors(t *testing.T) {
	f := &recordingFetcher{}
	NewWebhook("https://hooks.example.com/x", false, f, nil).ClaimConfirmed(context.Background(), ClaimEvent{})
	if f.calls != 1 {
		t.Fatalf("expected one attempt, got %d", f.calls)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	NewWebhook(srv.URL, false, newClient(t), nil).ClaimConfirmed(context.Background(), ClaimEvent{})
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://example.com/hook"); err != nil {
		t.Errorf("https rejected: %v", err)
	}
	if err := ValidateURL("ftp://example.com"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
	err := ValidateURL("https://example.com/hook/secret-token\x7f")
	if err == nil {
		t.Fatal("expected a parse error for a control character")
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Errorf("parse error leaks the url: %v", err)
	}
}
