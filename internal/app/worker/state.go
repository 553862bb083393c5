package worker

type State int

const (
	StateNotLoggedIn State = iota
	StateLoggedIn
	StateCheckingBalance
	StateClaiming
	StateWaitingOnCountdown
	StateRetryBackoff
)

func (s State) String() string {
	switch s {
	case StateNotLoggedIn:
		return "NOT_LOGGED_IN"
	case StateLoggedIn:
		return "LOGGED_IN"
	case StateCheckingBalance:
		return "CHECKING_BALANCE"
	case StateClaiming:
		return "CLAIMING"
	case StateWaitingOnCountdown:
		return "WAITING_ON_COUNTDOWN"
	case StateRetryBackoff:
		return "RETRY_BACKOFF"
	default:
		return "UNKNOWN"
	}
}
