package app

import (
	"fmt"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/logger"
	"github.com/ohmynofan/honeygain-pot-bot/internal/storage/claimlog"
)

type statusReader interface {
	DailyStatus(account string, day time.Time) (claimlog.DailyStatus, error)
}

// summaryJob writes the previous UTC day's claim log row to the log file.
type summaryJob struct {
	store   statusReader
	account string
	log     *logger.ClassLogger
	now     func() time.Time
}

func (j *summaryJob) Run() {
	day := j.now().Add(-24 * time.Hour)
	status, err := j.store.DailyStatus(j.account, day)
	if err != nil {
		j.log.JustLog(fmt.Sprintf("Warning: daily summary failed: %v", err))
		return
	}
	j.log.JustLog(formatSummary(status))
}

func formatSummary(s claimlog.DailyStatus) string {
	lastClaim := "-"
	if !s.LastClaim.IsZero() {
		lastClaim = s.LastClaim.Format(time.RFC3339)
	}
	return fmt.Sprintf("Daily summary %s: %d checks, %d/%d claims confirmed, %d anomalies, balance %s -> %s, last claim %s",
		s.Date, s.Checks, s.ClaimsConfirmed, s.ClaimsAttempted, s.Anomalies,
		orDash(s.FirstBalance), orDash(s.LastBalance), lastClaim)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
