package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingCredentials = errors.New("missing credentials (provide EMAIL and PASSWORD)")

type Config struct {
	Email                 string
	Password              string
	WebhookURL            string
	WebhookIncludeDetails bool
	Headless              bool
	ChromePath            string
	UserAgent             string
	Proxy                 string
	LocatorProfilePath    string
	DBPath                string
	CookiePath            string
	SummaryCron           string
	EscalatingBackoff     bool
	LogPath               string
	Site                  Site
	Timing                Timing
}

// Timing holds every delay of a cycle. Tests shrink these to zero.
type Timing struct {
	NavigationTimeout   time.Duration
	InterstitialTimeout time.Duration
	FieldTimeout        time.Duration
	LoginAttempts       int
	LoginRetryDelay     time.Duration
	LoginWait           time.Duration
	ReloadTimeout       time.Duration
	PostReloadWait      time.Duration
	PreBalanceWait      time.Duration
	BalanceTimeout      time.Duration
	PreCountdownWait    time.Duration
	CountdownGrace      time.Duration
	ClaimSettle         time.Duration
	ClaimReloadTimeout  time.Duration
	ClaimRetryDelay     time.Duration
	ErrorRetryDelay     time.Duration
	RecoverySleep       time.Duration
	BackoffSteps        []time.Duration
}

const (
	DefaultLocatorProfile = "configs/locators.yaml"
	DefaultDBPath         = "data/honeygain.db"
	DefaultCookiePath     = "data/cookies/session.json"
	DefaultSummaryCron    = "0 0 * * *"
	DefaultLogPath        = "logs/app.log"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"
)

func DefaultTiming() Timing {
	return Timing{
		NavigationTimeout:   60 * time.Second,
		InterstitialTimeout: 10 * time.Second,
		FieldTimeout:        15 * time.Second,
		LoginAttempts:       3,
		LoginRetryDelay:     30 * time.Second,
		LoginWait:           30 * time.Second,
		ReloadTimeout:       60 * time.Second,
		PostReloadWait:      5 * time.Second,
		PreBalanceWait:      5 * time.Second,
		BalanceTimeout:      15 * time.Second,
		PreCountdownWait:    3 * time.Second,
		CountdownGrace:      20 * time.Second,
		ClaimSettle:         5 * time.Second,
		ClaimReloadTimeout:  30 * time.Second,
		ClaimRetryDelay:     5 * time.Minute,
		ErrorRetryDelay:     60 * time.Second,
		RecoverySleep:       6 * time.Hour,
		BackoffSteps: []time.Duration{
			5 * time.Minute,
			15 * time.Minute,
			30 * time.Minute,
			time.Hour,
			2 * time.Hour,
		},
	}
}

func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment only")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests do not touch the process environment.
func FromEnv(getenv func(string) string) Config {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v
			}
		}
		return ""
	}

	return Config{
		Email:                 get("EMAIL", "HONEYGAIN_EMAIL"),
		Password:              get("PASSWORD", "HONEYGAIN_PASSWORD"),
		WebhookURL:            get("WEBHOOK_URL", "NOTIFY_URL"),
		WebhookIncludeDetails: parseBoolWithDefault(get("WEBHOOK_INCLUDE_DETAILS"), false),
		Headless:              parseBoolWithDefault(get("HEADLESS"), true),
		ChromePath:            get("CHROME_PATH"),
		UserAgent:             stringWithDefault(get("USER_AGENT"), DefaultUserAgent),
		Proxy:                 get("PROXY"),
		LocatorProfilePath:    stringWithDefault(get("LOCATOR_PROFILE"), DefaultLocatorProfile),
		DBPath:                stringWithDefault(get("DB_PATH"), DefaultDBPath),
		CookiePath:            stringWithDefault(get("COOKIE_PATH"), DefaultCookiePath),
		SummaryCron:           stringWithDefault(get("SUMMARY_CRON"), DefaultSummaryCron),
		EscalatingBackoff:     parseBoolWithDefault(get("ESCALATING_BACKOFF"), true),
		LogPath:               stringWithDefault(get("LOG_PATH"), DefaultLogPath),
		Site:                  Honeygain,
		Timing:                DefaultTiming(),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Password) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ClaimLogEnabled reports whether DB_PATH points at a database rather than "none".
func (c Config) ClaimLogEnabled() bool {
	return c.DBPath != "" && !strings.EqualFold(c.DBPath, "none")
}

func stringWithDefault(value, defaultVal string) string {
	if value == "" {
		return defaultVal
	}
	return value
}

func parseBoolWithDefault(value string, defaultVal bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVal
	}
	if v, err := strconv.ParseBool(value); err == nil {
		return v
	}
	return defaultVal
}
