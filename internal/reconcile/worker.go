// Package reconcile periodically pushes unsynced local records to the
// remote mirror.
package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/internal/gateway"
	redisclient "github.com/mrsinham/vitalis/internal/redis"
)

// Reconciler is the gateway's sweep.
type Reconciler interface {
	Reconcile(ctx context.Context) (gateway.ReconcileResult, error)
}

// Worker runs a sweep at startup and then on every interval, each one
// under the lock reconcile:<kioskID>.
type Worker struct {
	rec      Reconciler
	locker   redisclient.Locker
	kioskID  string
	interval time.Duration
	timeout  time.Duration
	log      *logrus.Entry
}

// NewWorker creates a worker. A nil locker means no coordination.
func NewWorker(rec Reconciler, locker redisclient.Locker, kioskID string, interval time.Duration, log *logrus.Entry) *Worker {
	if locker == nil {
		locker = redisclient.NoopLocker{}
	}
	return &Worker{
		rec:      rec,
		locker:   locker,
		kioskID:  kioskID,
		interval: interval,
		timeout:  20 * time.Second,
		log:      log.WithField("component", "reconcile"),
	}
}

// LockName is the lock guarding this kiosk's sweep.
func (w *Worker) LockName() string { return "reconcile:" + w.kioskID }

// Run blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutdown signal received, stopping reconciliation")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs one locked sweep and logs its outcome.
func (w *Worker) RunOnce(ctx context.Context) (gateway.ReconcileResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	var res gateway.ReconcileResult
	err := w.locker.WithLock(runCtx, w.LockName(), func(lctx context.Context) error {
		var err error
		res, err = w.rec.Reconcile(lctx)
		return err
	})

	switch {
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		w.log.Info("another worker holds the reconciliation lock, skipping")
	case errors.Is(err, gateway.ErrNoMirror):
		w.log.Debug("no remote mirror, nothing to reconcile")
	case err != nil:
		w.log.WithError(err).Error("reconciliation run failed")
	default:
		w.log.WithFields(logrus.Fields{
			"synced":   res.Synced,
			"failed":   res.Failed,
			"duration": time.Since(start).String(),
		}).Info("reconciliation run complete")
	}
	return res, err
}
