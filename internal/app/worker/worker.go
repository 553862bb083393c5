package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/config"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/logger"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/ui"
)

const (
	statusWaiting      = "WAITING"
	statusInProgress   = "IN PROGRESS"
	statusDone         = "DONE"
	statusConfirmed    = "CONFIRMED"
	statusInconclusive = "INCONCLUSIVE"
	statusFailed       = "FAILED"
)

var fatalErrors = []error{
	config.ErrMissingCredentials,
}

func handleError(w *HoneygainWorker, log *logger.ClassLogger, err error) (shouldStop bool) {
	for _, fatal := range fatalErrors {
		if errors.Is(err, fatal) {
			if w != nil && w.session != nil {
				log.Log(fmt.Sprintf("FATAL: %v. Worker for account %d will stop.", err, w.session.AccIdx+1))
			} else {
				log.Log(fmt.Sprintf("FATAL: %v. Worker will stop.", err))
			}
			return true
		}
	}

	retry := config.DefaultTiming().ErrorRetryDelay
	if w != nil {
		retry = w.timing.ErrorRetryDelay
	}
	log.Log(fmt.Sprintf("%v, Retrying after %s", err, ui.FormatDelay(retry)))
	return false
}

// Run drives cycles until ctx is cancelled or a fatal error occurs. Every non-fatal cycle error
// drops the browser session so the next cycle logs in again.
func (w *HoneygainWorker) Run(ctx context.Context) error {
	defer w.closePage()

	for {
		delay, err := w.RunCycle(ctx)
		if ctx.Err() != nil {
			w.log.Log("Shutdown requested, closing browser")
			return nil
		}
		if err != nil {
			w.closePage()
			w.setState(StateNotLoggedIn)
			if handleError(w, w.log, err) {
				return err
			}
			delay = w.timing.ErrorRetryDelay
		}

		next := w.now().Add(delay)
		w.session.NextAttempt = next
		w.log.JustLog(fmt.Sprintf("Next attempt at %s (in %.2f minutes)", next.Format("2006-01-02 15:04:05"), delay.Minutes()))

		if err := w.sleep(ctx, fmt.Sprintf("%s, next attempt at %s", w.session.State, next.Format("15:04:05")), delay); err != nil {
			w.log.Log("Shutdown requested, closing browser")
			return nil
		}
	}
}

func (w *HoneygainWorker) closePage() {
	if w.page == nil {
		return
	}
	if err := w.page.Close(); err != nil {
		w.log.JustLog(fmt.Sprintf("Error closing browser: %v", err))
	}
	w.page = nil
	w.session.LoginStatus = statusWaiting
}

func (w *HoneygainWorker) setState(s State) {
	w.state = s
	w.session.State = s.String()
}

func (w *HoneygainWorker) State() State {
	return w.state
}

func (w *HoneygainWorker) countToday(claim bool) {
	day := w.now().UTC().Format("2006-01-02")
	if day != w.countDay {
		w.countDay = day
		w.session.ChecksToday = 0
		w.session.ClaimsToday = 0
	}
	if claim {
		w.session.ClaimsToday++
	} else {
		w.session.ChecksToday++
	}
}

func defaultSleep(log *logger.ClassLogger) func(context.Context, string, time.Duration) error {
	return log.Wait
}
