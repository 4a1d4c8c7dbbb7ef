package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrsinham/vitalis/internal/bootstrap"
	"github.com/mrsinham/vitalis/internal/config"
	"github.com/mrsinham/vitalis/internal/logger"
	"github.com/mrsinham/vitalis/internal/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", nil).WithError(err).Fatal("config load error")
	}
	log := logger.New(cfg.LogLevel, nil)
	entry := log.WithComponent("sync-worker")

	entry.WithField("interval", cfg.SyncInterval.String()).Info("sync-worker starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(rootCtx, cfg, entry, bootstrap.Options{Redis: true})
	if err != nil {
		entry.WithError(err).Fatal("open runtime")
	}
	defer rt.Close()

	if !cfg.RemoteEnabled() {
		entry.Error("POSTGRES_DSN is not set, nothing to reconcile")
		rt.Close()
		os.Exit(1)
	}

	settings, err := rt.Gateway.Settings()
	if err != nil {
		entry.WithError(err).Warn("load kiosk settings, using defaults")
	}

	worker := reconcile.NewWorker(rt.Gateway, rt.Locker(cfg.LockTTL), settings.KioskID, cfg.SyncInterval, entry)
	worker.Run(rootCtx)
}
