package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/adapters/browser"
	apihttp "github.com/ohmynofan/honeygain-pot-bot/internal/adapters/http"
	"github.com/ohmynofan/honeygain-pot-bot/internal/app/worker"
	"github.com/ohmynofan/honeygain-pot-bot/internal/config"
	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/model"
	"github.com/ohmynofan/honeygain-pot-bot/internal/notifier"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/logger"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/ui"
	"github.com/ohmynofan/honeygain-pot-bot/internal/storage/claimlog"
	"github.com/robfig/cron/v3"
)

const webhookTimeout = 30 * time.Second

type App struct{ cfg config.Config }

func New(cfg config.Config) *App { return &App{cfg: cfg} }

func (app *App) Run(ctx context.Context) error {
	cfg := app.cfg
	log := logger.NewLogger(app, nil)

	profile, err := config.LoadProfile(cfg.LocatorProfilePath)
	if errors.Is(err, fs.ErrNotExist) {
		log.JustLog(fmt.Sprintf("Locator profile %s not found, using built-in locators", cfg.LocatorProfilePath))
	} else if err != nil {
		return err
	}
	log.LogObject("Locator profile", profile)

	session := &model.Session{Account: cfg.Email, AccIdx: 0, Role: "primary"}

	var recorder worker.ClaimRecorder
	if cfg.ClaimLogEnabled() {
		store, err := claimlog.NewStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store

		scheduler, err := startSummary(cfg.SummaryCron, store, cfg.Email)
		if err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	client, err := apihttp.NewAPIClient("", cfg.UserAgent, webhookTimeout, session)
	if err != nil {
		return err
	}
	webhook := notifier.NewWebhook(cfg.WebhookURL, cfg.WebhookIncludeDetails, client, logger.NewNamed("Webhook", nil))
	if webhook.URL != "" {
		if err := notifier.ValidateURL(webhook.URL); err != nil {
			log.JustLog(fmt.Sprintf("Warning: %v, notifications will be skipped", err))
		}
	}

	cookies := browser.NewCookieStore(cfg.CookiePath)
	launch := func(ctx context.Context) (worker.Page, error) {
		page, err := browser.Launch(ctx, browser.Options{
			Headless:   cfg.Headless,
			ExecPath:   cfg.ChromePath,
			UserAgent:  cfg.UserAgent,
			Proxy:      cfg.Proxy,
			CookieURLs: []string{"https://" + cfg.Site.DashboardHost + "/"},
			Cookies:    cookies,
		}, session)
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	w := worker.NewHoneygainWorker(worker.Options{
		Config:   cfg,
		Profile:  profile,
		Launch:   launch,
		Notifier: webhook,
		Recorder: recorder,
		Session:  session,
	})

	if err := w.Run(ctx); err != nil {
		ui.SetSpinnerError(*session, err.Error())
		return err
	}
	ui.SetSpinnerSuccess(*session, "Stopped")
	return nil
}

func startSummary(spec string, store *claimlog.Store, account string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	job := &summaryJob{store: store, account: account, log: logger.NewNamed("Summary", nil), now: time.Now}
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("register summary job %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
