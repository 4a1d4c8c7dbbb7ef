// Package api serves the staff-facing HTTP API over the persistence
// gateway: record listing and status changes, assistance resolution,
// reconciliation and health.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/internal/gateway"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
)

// Service is the part of the gateway exposed over HTTP.
type Service interface {
	ListRecords(ctx context.Context) ([]patient.Record, error)
	UpdateStatus(ctx context.Context, id string, status patient.Status) error
	ListAssistance(ctx context.Context) ([]kiosk.AssistanceRequest, error)
	ResolveAssistance(ctx context.Context, id, by string) error
	Reconcile(ctx context.Context) (gateway.ReconcileResult, error)
}

// Check probes one dependency for readiness.
type Check func(ctx context.Context) error

type RouterConfig struct {
	Service  Service
	Log      *logrus.Entry
	Registry *prometheus.Registry
	// Required checks fail readiness; optional ones only degrade it.
	Required map[string]Check
	Optional map[string]Check
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	metrics := NewMetrics(cfg.Registry)

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(metrics.Middleware)

	health := NewHealthHandler(cfg.Required, cfg.Optional, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	r.Get("/records", listRecordsHandler(cfg.Service))
	r.Get("/records/stats", recordStatsHandler(cfg.Service))
	r.Patch("/records/{id}/status", updateStatusHandler(cfg.Service))

	r.Get("/assistance", listAssistanceHandler(cfg.Service, false))
	r.Get("/assistance/pending", listAssistanceHandler(cfg.Service, true))
	r.Post("/assistance/{id}/resolve", resolveAssistanceHandler(cfg.Service))

	r.Post("/sync", syncHandler(cfg.Service, metrics))

	return r
}
