package worker

import (
	"context"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/notifier"
)

// Page is the browser tab the cycle drives.
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Reload(ctx context.Context, timeout time.Duration) error
	Location(ctx context.Context) (string, error)
	Content(ctx context.Context) (string, error)
	WaitReady(ctx context.Context, selector string, timeout time.Duration) error
	Text(ctx context.Context, selector string, timeout time.Duration) (string, error)
	Click(ctx context.Context, selector string, timeout time.Duration) error
	Type(ctx context.Context, selector, value string, timeout time.Duration) error
	ScanText(ctx context.Context, tags, marker string, timeout time.Duration) (string, error)
	SaveSession(ctx context.Context) error
	// ForgetSession drops stored cookies that no longer authenticate.
	ForgetSession(ctx context.Context) error
	Close() error
}

type Launcher func(ctx context.Context) (Page, error)

type Notifier interface {
	ClaimConfirmed(ctx context.Context, event notifier.ClaimEvent)
}

type ClaimRecorder interface {
	RecordBalance(account string, day time.Time, balance string) error
	RecordClaim(account string, at time.Time, confirmed bool, balanceAfter string) error
	RecordAnomaly(account string, day time.Time) error
}
