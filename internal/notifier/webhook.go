package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	apihttp "github.com/ohmynofan/honeygain-pot-bot/internal/adapters/http"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/logger"
	"github.com/ohmynofan/honeygain-pot-bot/pkg/utils"
)

var ErrUnsupportedScheme = errors.New("webhook url must use http or https")

type ClaimEvent struct {
	Event         string    `url:"event"`
	Account       string    `url:"account,omitempty"`
	BalanceBefore string    `url:"balance_before"`
	BalanceAfter  string    `url:"balance_after"`
	ClaimedAt     time.Time `url:"claimed_at"`
}

type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, opts *apihttp.FetchOptions) (interface{}, error)
}

// Webhook fires a single empty-body POST per confirmed claim. Delivery is best effort.
type Webhook struct {
	URL            string
	IncludeDetails bool
	Client         Fetcher
	Log            *logger.ClassLogger
}

func NewWebhook(rawURL string, includeDetails bool, client Fetcher, log *logger.ClassLogger) *Webhook {
	return &Webhook{
		URL:            strings.TrimSpace(rawURL),
		IncludeDetails: includeDetails,
		Client:         client,
		Log:            log,
	}
}

func (w *Webhook) Enabled() bool {
	return w != nil && w.URL != "" && w.Client != nil
}

func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w (got %q)", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return errors.New("webhook url has no host")
	}
	return nil
}

// ClaimConfirmed never returns an error; failures are logged.
func (w *Webhook) ClaimConfirmed(ctx context.Context, event ClaimEvent) {
	if !w.Enabled() {
		return
	}
	if err := ValidateURL(w.URL); err != nil {
		w.logf("Webhook skipped: %v", err)
		return
	}

	opts := &apihttp.FetchOptions{Method: "POST"}
	if w.IncludeDetails {
		if event.Event == "" {
			event.Event = "claim_confirmed"
		}
		query, err := utils.EncodeURLParams(event)
		if err != nil {
			w.logf("Webhook details dropped: %v", err)
		} else {
			opts.Query = query
		}
	}

	if _, err := w.Client.Fetch(ctx, w.URL, opts); err != nil {
		var httpErr *apihttp.HTTPError
		if errors.As(err, &httpErr) {
			w.logf("Webhook answered with status %d", httpErr.StatusCode)
			return
		}
		w.logf("Webhook failed: %v", err)
		return
	}
	w.logf("Webhook notified")
}

func (w *Webhook) logf(format string, args ...interface{}) {
	if w.Log == nil {
		return
	}
	w.Log.JustLog(fmt.Sprintf(format, args...))
}
