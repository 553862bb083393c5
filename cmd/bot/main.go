package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ohmynofan/honeygain-pot-bot/internal/app"
	"github.com/ohmynofan/honeygain-pot-bot/internal/config"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/logger"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/ui"
)

func main() {
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		println(err.Error())
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogPath); err != nil {
		println("log file unavailable: " + err.Error())
	}

	ui.StartUISystem()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.New(cfg).Run(ctx)
	stop()

	ui.StopUISystem()
	_ = logger.Close()

	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
}
