package model

import "time"

type Session struct {
	Account     string
	AccIdx      int
	Role        string
	Parent      *Session
	LoginStatus string
	Balance     string
	LastClaim   time.Time
	ClaimStatus string
	State       string
	NextAttempt time.Time
	ClaimsToday int
	ChecksToday int
}

func (s *Session) LoggingSession() *Session {
	if s == nil {
		return nil
	}
	if s.Parent != nil {
		return s.Parent.LoggingSession()
	}
	return s
}

// MaskedAccount hides the local part of an email so the panel can be shared in screenshots.
func (s *Session) MaskedAccount() string {
	if s == nil {
		return ""
	}
	at := -1
	for i, r := range s.Account {
		if r == '@' {
			at = i
			break
		}
	}
	if at <= 2 {
		return s.Account
	}
	return s.Account[:2] + "***" + s.Account[at:]
}
