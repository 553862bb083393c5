package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/config"
	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/model"
	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/reward"
	"github.com/ohmynofan/honeygain-pot-bot/internal/locator"
	"github.com/ohmynofan/honeygain-pot-bot/internal/notifier"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/logger"
)

var (
	ErrLoginFailed      = errors.New("login failed")
	ErrBalanceNotFound  = errors.New("balance element not found")
	errNotAuthenticated = errors.New("dashboard not reached")
)

const locationPollInterval = 500 * time.Millisecond

type Options struct {
	Config   config.Config
	Profile  config.Profile
	Launch   Launcher
	Notifier Notifier
	Recorder ClaimRecorder
	Session  *model.Session
}

type HoneygainWorker struct {
	cfg      config.Config
	profile  config.Profile
	timing   config.Timing
	launch   Launcher
	notifier Notifier
	recorder ClaimRecorder
	session  *model.Session
	log      *logger.ClassLogger

	page     Page
	state    State
	memo     locator.Memo
	backoff  *Backoff
	countDay string

	now   func() time.Time
	sleep func(ctx context.Context, msg string, d time.Duration) error
}

func NewHoneygainWorker(opts Options) *HoneygainWorker {
	session := opts.Session
	if session == nil {
		session = &model.Session{Account: opts.Config.Email, Role: "primary"}
	}
	session.LoginStatus = statusWaiting
	session.ClaimStatus = statusWaiting

	log := logger.NewNamed(fmt.Sprintf("Operation - Account %d", session.AccIdx+1), session)
	timing := opts.Config.Timing

	w := &HoneygainWorker{
		cfg:      opts.Config,
		profile:  opts.Profile,
		timing:   timing,
		launch:   opts.Launch,
		notifier: opts.Notifier,
		recorder: opts.Recorder,
		session:  session,
		log:      log,
		memo:     locator.Memo{},
		backoff:  NewBackoff(timing.BackoffSteps, timing.RecoverySleep, opts.Config.EscalatingBackoff),
		now:      time.Now,
		sleep:    defaultSleep(log),
	}
	w.setState(StateNotLoggedIn)
	return w
}

// RunCycle performs one pass: ensure a logged-in page, read the balance, then either wait out the
// countdown or claim. It returns the delay before the next pass.
func (w *HoneygainWorker) RunCycle(ctx context.Context) (time.Duration, error) {
	if w.page == nil {
		if err := w.login(ctx); err != nil {
			return 0, err
		}
	} else if err := w.refresh(ctx); err != nil {
		return 0, err
	}

	if err := w.sleep(ctx, "Waiting for the dashboard to settle", w.timing.PreBalanceWait); err != nil {
		return 0, err
	}

	w.setState(StateCheckingBalance)
	w.log.Log("Reading current balance...")
	before, err := w.readBalance(ctx)
	if err != nil {
		return 0, err
	}
	w.session.Balance = before.Raw
	w.countToday(false)
	w.log.Log(fmt.Sprintf("Current balance at %s : %s", w.now().Format("2006-01-02 15:04:05"), before))
	w.record("balance", func(r ClaimRecorder) error {
		return r.RecordBalance(w.cfg.Email, w.now(), before.Raw)
	})

	if err := w.sleep(ctx, "Checking for countdown or claim button", w.timing.PreCountdownWait); err != nil {
		return 0, err
	}

	if delay, ok := w.checkCountdown(ctx); ok {
		w.backoff.Reset()
		w.setState(StateWaitingOnCountdown)
		return delay, nil
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	claimed, err := w.claim(ctx, before)
	if err != nil {
		return 0, err
	}
	if claimed {
		w.backoff.Reset()
		return w.timing.ClaimRetryDelay, nil
	}

	delay := w.backoff.Next()
	w.setState(StateRetryBackoff)
	w.record("anomaly", func(r ClaimRecorder) error {
		return r.RecordAnomaly(w.cfg.Email, w.now())
	})
	w.log.Log(fmt.Sprintf("Neither countdown nor claim button found (attempt %d), retrying in %s", w.backoff.Attempts(), delay))
	return delay, nil
}

func (w *HoneygainWorker) login(ctx context.Context) error {
	w.setState(StateNotLoggedIn)
	w.session.LoginStatus = statusInProgress
	w.log.Log("Launching browser...")

	page, err := w.launch(ctx)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	w.page = page

	w.log.Log(fmt.Sprintf("Opening %s", w.cfg.Site.LoginURL))
	if err := page.Navigate(ctx, w.cfg.Site.LoginURL, w.timing.NavigationTimeout); err != nil {
		return err
	}
	w.warnIfNoJavaScript(ctx)

	if loc, err := page.Location(ctx); err == nil && w.cfg.Site.IsAuthenticatedURL(loc) {
		w.log.Log("Stored session is still valid, skipping login form")
		w.loggedIn()
		return nil
	}
	if err := page.ForgetSession(ctx); err != nil {
		w.log.JustLog(fmt.Sprintf("Warning: failed to drop stored cookies: %v", err))
	}

	login := w.profile.Login
	if login.Interstitial != "" {
		if err := page.Click(ctx, login.Interstitial, w.timing.InterstitialTimeout); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.JustLog(fmt.Sprintf("No interstitial control: %v", err))
		} else {
			w.log.JustLog("Interstitial control clicked")
		}
	}

	for _, sel := range []string{login.Email, login.Password} {
		if err := page.WaitReady(ctx, sel, w.timing.FieldTimeout); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: field %s not found: %v", ErrLoginFailed, sel, err)
		}
	}

	if strings.TrimSpace(w.cfg.Email) == "" || strings.TrimSpace(w.cfg.Password) == "" {
		return config.ErrMissingCredentials
	}

	attempts := w.timing.LoginAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		w.log.Log(fmt.Sprintf("Logging in (attempt %d/%d)...", attempt, attempts))
		err := w.submitLogin(ctx)
		if err == nil {
			w.loggedIn()
			if err := page.SaveSession(ctx); err != nil {
				w.log.JustLog(fmt.Sprintf("Warning: failed to store cookies: %v", err))
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.log.Log(fmt.Sprintf("Login attempt %d failed: %v", attempt, err))
		if attempt < attempts {
			if err := w.sleep(ctx, "Retrying login", w.timing.LoginRetryDelay); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%w after %d attempts", ErrLoginFailed, attempts)
}

func (w *HoneygainWorker) submitLogin(ctx context.Context) error {
	login := w.profile.Login
	if err := w.page.Type(ctx, login.Email, w.cfg.Email, w.timing.FieldTimeout); err != nil {
		return fmt.Errorf("type email: %w", err)
	}
	if err := w.page.Type(ctx, login.Password, w.cfg.Password, w.timing.FieldTimeout); err != nil {
		return fmt.Errorf("type password: %w", err)
	}
	if err := w.page.Click(ctx, login.Submit, w.timing.FieldTimeout); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return w.waitAuthenticated(ctx, w.timing.LoginWait)
}

func (w *HoneygainWorker) waitAuthenticated(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		loc, err := w.page.Location(ctx)
		if err == nil && w.cfg.Site.IsAuthenticatedURL(loc) {
			return nil
		}
		if !time.Now().Before(deadline) {
			if err != nil {
				return fmt.Errorf("%w: %v", errNotAuthenticated, err)
			}
			return fmt.Errorf("%w: still at %s", errNotAuthenticated, loc)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(locationPollInterval):
		}
	}
}

func (w *HoneygainWorker) loggedIn() {
	w.session.LoginStatus = statusDone
	w.setState(StateLoggedIn)
	w.log.Log("Logged in")
}

func (w *HoneygainWorker) warnIfNoJavaScript(ctx context.Context) {
	marker := w.profile.Login.NoJSMarker
	if marker == "" {
		return
	}
	html, err := w.page.Content(ctx)
	if err != nil {
		w.log.JustLog(fmt.Sprintf("Could not read page content: %v", err))
		return
	}
	if strings.Contains(html, marker) {
		w.log.Log("Warning: the page reports that JavaScript is not supported")
	}
}

func (w *HoneygainWorker) refresh(ctx context.Context) error {
	w.log.Log("Reloading dashboard...")
	if err := w.page.Reload(ctx, w.timing.ReloadTimeout); err != nil {
		return err
	}
	return w.sleep(ctx, "Waiting after reload", w.timing.PostReloadWait)
}

// readBalance tries the templated families, then the full-document scan, then generic selectors.
func (w *HoneygainWorker) readBalance(ctx context.Context) (reward.Balance, error) {
	bp := w.profile.Balance
	var markers []string
	if bp.ScanMarker != "" {
		markers = []string{bp.ScanMarker}
	}

	for _, fam := range bp.Locators {
		m, err := locator.Resolve(ctx, w.page, fam, w.memo.Last(fam.Name))
		if err != nil {
			if ctx.Err() != nil {
				return reward.Balance{}, ctx.Err()
			}
			w.log.JustLog(fmt.Sprintf("Balance locator %s: %v", fam.Name, err))
			continue
		}
		if b, ok := reward.ExtractBalance(m.Text, markers); ok {
			w.memo.Remember(m, fam.Name)
			w.log.JustLog(fmt.Sprintf("Balance found with %s[%d]: %s", fam.Name, m.Index, b.Raw))
			return b, nil
		}
		w.log.JustLog(fmt.Sprintf("Balance locator %s matched without a number: %q", fam.Name, m.Text))
	}

	if bp.ScanMarker != "" {
		text, err := w.page.ScanText(ctx, bp.ScanTags, bp.ScanMarker, bp.ScanTimeout)
		if err == nil {
			if b, ok := reward.ExtractBalance(text, markers); ok {
				w.log.JustLog(fmt.Sprintf("Balance found by text scan: %s", b.Raw))
				return b, nil
			}
		} else if ctx.Err() != nil {
			return reward.Balance{}, ctx.Err()
		} else {
			w.log.JustLog(fmt.Sprintf("Balance text scan: %v", err))
		}
	}

	for _, sel := range bp.Generic {
		text, err := w.page.Text(ctx, sel, w.timing.BalanceTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return reward.Balance{}, ctx.Err()
			}
			w.log.JustLog(fmt.Sprintf("Generic balance selector %s: %v", sel, err))
			continue
		}
		if b, ok := reward.ExtractBalance(text, markers); ok {
			w.log.JustLog(fmt.Sprintf("Balance found with generic selector: %s", b.Raw))
			return b, nil
		}
	}

	return reward.Balance{}, ErrBalanceNotFound
}

func (w *HoneygainWorker) checkCountdown(ctx context.Context) (time.Duration, bool) {
	fam := w.profile.Countdown.Family
	m, err := locator.Resolve(ctx, w.page, fam, w.memo.Last(fam.Name))
	if err != nil {
		w.log.JustLog(fmt.Sprintf("No countdown: %v", err))
		return 0, false
	}
	w.memo.Remember(m, fam.Name)

	text := reward.StripCountdownLabel(m.Text, w.profile.Countdown.Label)
	cd, ok := reward.ParseCountdown(text)
	if !ok {
		w.log.Log(fmt.Sprintf("Warning: countdown text not understood: %q", text))
		return 0, false
	}
	if cd.IsZero() {
		w.log.JustLog("Countdown reached zero, looking for the claim button")
		return 0, false
	}

	delay := cd.Duration() + w.timing.CountdownGrace
	next := w.now().Add(delay)
	w.session.ClaimStatus = statusWaiting
	w.log.Log(fmt.Sprintf("Countdown %s, next attempt at %s (about %.2f minutes)", cd, next.Format("2006-01-02 15:04:05"), delay.Minutes()))
	return delay, true
}

// claim clicks the claim control if one with an allowed label is present. It reports whether a
// click happened; the outcome of the claim itself is logged and recorded.
func (w *HoneygainWorker) claim(ctx context.Context, before reward.Balance) (bool, error) {
	fam := w.profile.Claim.Family
	m, err := locator.Resolve(ctx, w.page, fam, w.memo.Last(fam.Name))
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		w.log.JustLog(fmt.Sprintf("No claim button: %v", err))
		return false, nil
	}
	if !reward.IsClaimLabel(m.Text, fam.Markers) {
		w.log.Log(fmt.Sprintf("Refusing to click control labelled %q", strings.TrimSpace(m.Text)))
		return false, nil
	}
	w.memo.Remember(m, fam.Name)

	w.setState(StateClaiming)
	w.session.ClaimStatus = statusInProgress
	w.log.Log(fmt.Sprintf("Claim button %q found, clicking...", strings.TrimSpace(m.Text)))
	clickTimeout := fam.Timeout
	if clickTimeout <= 0 {
		clickTimeout = locator.DefaultTimeout
	}
	if err := w.page.Click(ctx, m.Selector, clickTimeout); err != nil {
		w.session.ClaimStatus = statusFailed
		return false, fmt.Errorf("click claim button: %w", err)
	}
	clickedAt := w.now()

	if err := w.sleep(ctx, "Waiting after claim", w.timing.ClaimSettle); err != nil {
		return true, err
	}
	w.log.Log("Reloading to read the updated balance...")
	if err := w.page.Reload(ctx, w.timing.ClaimReloadTimeout); err != nil {
		w.recordClaim(clickedAt, false, "")
		return true, err
	}
	if err := w.sleep(ctx, "Waiting after reload", w.timing.PostReloadWait); err != nil {
		return true, err
	}

	after, err := w.readBalance(ctx)
	if err != nil {
		w.recordClaim(clickedAt, false, "")
		return true, err
	}
	w.session.Balance = after.Raw
	w.session.LastClaim = clickedAt
	w.countToday(true)

	if before.Increased(after) {
		w.session.ClaimStatus = statusConfirmed
		w.log.Log(fmt.Sprintf("Balance increased at %s : %s -> %s", w.now().Format("2006-01-02 15:04:05"), before, after))
		w.recordClaim(clickedAt, true, after.Raw)
		if w.notifier != nil {
			w.notifier.ClaimConfirmed(ctx, notifier.ClaimEvent{
				Account:       w.cfg.Email,
				BalanceBefore: before.Raw,
				BalanceAfter:  after.Raw,
				ClaimedAt:     clickedAt.UTC(),
			})
		}
		return true, nil
	}

	w.session.ClaimStatus = statusInconclusive
	w.log.Log(fmt.Sprintf("Balance unchanged after claim : %s -> %s", before, after))
	w.recordClaim(clickedAt, false, after.Raw)
	return true, nil
}

func (w *HoneygainWorker) recordClaim(at time.Time, confirmed bool, balanceAfter string) {
	w.record("claim", func(r ClaimRecorder) error {
		return r.RecordClaim(w.cfg.Email, at, confirmed, balanceAfter)
	})
}

func (w *HoneygainWorker) record(what string, fn func(ClaimRecorder) error) {
	if w.recorder == nil {
		return
	}
	if err := fn(w.recorder); err != nil {
		w.log.JustLog(fmt.Sprintf("Warning: failed to record %s: %v", what, err))
	}
}
