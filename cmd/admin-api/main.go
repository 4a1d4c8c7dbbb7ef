package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"

	"github.com/mrsinham/vitalis/internal/api"
	"github.com/mrsinham/vitalis/internal/bootstrap"
	"github.com/mrsinham/vitalis/internal/config"
	"github.com/mrsinham/vitalis/internal/logger"
	"github.com/mrsinham/vitalis/internal/store"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", nil).WithError(err).Fatal("config load error")
	}
	log := logger.New(cfg.LogLevel, nil)
	entry := log.WithComponent("admin-api")

	entry.WithField("env", cfg.Env).WithField("http_port", cfg.HTTPPort).Info("admin-api starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(rootCtx, cfg, entry, bootstrap.Options{Redis: true})
	if err != nil {
		entry.WithError(err).Fatal("open runtime")
	}
	defer rt.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	required := map[string]api.Check{
		"store": func(ctx context.Context) error {
			_, err := rt.Store.Get(store.KeySettings, new(map[string]interface{}))
			return err
		},
	}
	optional := map[string]api.Check{}
	if rt.Mirror != nil {
		optional["postgres"] = rt.Mirror.Ping
	}
	if rt.Redis != nil {
		optional["redis"] = func(ctx context.Context) error { return rt.Redis.Ping(ctx).Err() }
	}

	router := api.NewRouter(api.RouterConfig{
		Service:  rt.Gateway,
		Log:      entry,
		Registry: reg,
		Required: required,
		Optional: optional,
		Env:      cfg.Env,
		Version:  version,
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			entry.WithError(err).Error("http server error")
			stop()
		}
	}()

	<-rootCtx.Done()
	entry.Info("shutting down admin-api")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		entry.WithError(err).Error("graceful shutdown failed")
	}
}
