package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/model"
	"github.com/pterm/pterm"
)

var (
	multi    *pterm.MultiPrinter
	spinners = make(map[int]*pterm.SpinnerPrinter)
	mu       sync.Mutex
)

func StartUISystem() {
	m, _ := pterm.DefaultMultiPrinter.Start()
	mu.Lock()
	multi = m
	mu.Unlock()
}

func StopUISystem() {
	mu.Lock()
	defer mu.Unlock()
	if multi != nil {
		multi.Stop()
		multi = nil
	}
}

func UpdateStatus(session model.Session, status string, remainingDelay time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	render(session, status, remainingDelay)
}

// render expects mu to be held. Without a started panel (tests, piped output) it does nothing.
func render(session model.Session, status string, remainingDelay time.Duration) {
	if multi == nil {
		return
	}

	content := Render(session, status, remainingDelay)
	if spinner, ok := spinners[session.AccIdx]; ok {
		spinner.UpdateText(content)
		return
	}
	spinner, _ := pterm.DefaultSpinner.
		WithWriter(multi.NewWriter()).
		WithRemoveWhenDone(false).
		Start(content)
	spinners[session.AccIdx] = spinner
}

func Render(session model.Session, status string, remainingDelay time.Duration) string {
	lastClaim := "-"
	if !session.LastClaim.IsZero() {
		lastClaim = session.LastClaim.Local().Format("2006-01-02 15:04:05")
	}
	nextAttempt := "-"
	if !session.NextAttempt.IsZero() {
		nextAttempt = session.NextAttempt.Local().Format("15:04:05")
	}

	return fmt.Sprintf(`
=============== Account %d ================
Email         : %s
Login         : %s
Balance       : %s

Last Claim    : %s
Claim Status  : %s
Today         : %d checks / %d claims

State    : %s
Next     : %s
Status   : %s
Delay    : %s
===========================================`,
		session.AccIdx+1,
		session.MaskedAccount(),
		defaultString(session.LoginStatus, "PENDING"),
		defaultString(session.Balance, "-"),
		lastClaim,
		defaultString(session.ClaimStatus, "WAITING"),
		session.ChecksToday,
		session.ClaimsToday,
		defaultString(session.State, "NOT_LOGGED_IN"),
		nextAttempt,
		status,
		FormatDelay(remainingDelay))
}

func SetSpinnerSuccess(session model.Session, finalMessage string) {
	mu.Lock()
	defer mu.Unlock()
	if spinner, ok := spinners[session.AccIdx]; ok {
		render(session, finalMessage, 0)
		spinner.Success()
	}
}

func SetSpinnerError(session model.Session, finalMessage string) {
	mu.Lock()
	defer mu.Unlock()
	if spinner, ok := spinners[session.AccIdx]; ok {
		render(session, finalMessage, 0)
		spinner.Fail()
	}
}

func FormatDelay(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d H %02d M %02d S", h, m, s)
}

func defaultString(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
