// Command server runs the xbank service layer as a long-lived process: it
// opens the ledger store, starts the notification fan-out worker and the
// optional Redis event mirror, then blocks until SIGINT or SIGTERM and shuts
// down cleanly, draining the worker queue.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/xbank/xbank/pkg/app"
	"github.com/xbank/xbank/pkg/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	log.Info("xbank service started",
		"env", cfg.Env,
		"notification_workers", cfg.Notification.Workers,
		"event_mirror", cfg.Redis.URL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down, draining notification queue")
	a.Close()
	log.Info("shutdown complete",
		"notifications_saved", a.Worker.Saved(),
		"notifications_failed", a.Worker.Failures(),
		"notifications_dropped", a.Worker.Dropped(),
	)
	return nil
}
