package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/internal/events"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/store"
)

// Submit stores a draft as a new Waiting record. The local write must
// succeed; the remote write is attempted once and only sets the sync flag.
func (g *Gateway) Submit(ctx context.Context, draft patient.Draft) (patient.Record, error) {
	id, err := g.NextID()
	if err != nil {
		return patient.Record{}, fmt.Errorf("allocate id: %w", err)
	}

	rec := patient.Record{
		Draft:       draft.Clone(),
		ID:          id,
		CheckInTime: g.now(),
		Status:      patient.StatusWaiting,
	}
	if err := g.local.PrependRecord(rec); err != nil {
		return patient.Record{}, fmt.Errorf("store record %s: %w", id, err)
	}

	if g.mirror != nil {
		if g.pushRecord(ctx, rec) {
			rec.Synced = true
		}
	}

	g.publish(ctx, events.Event{Type: events.RecordCreated, Key: rec.ID, Payload: rec})
	return rec, nil
}

// pushRecord mirrors one record and flips its local sync flag on success.
func (g *Gateway) pushRecord(ctx context.Context, rec patient.Record) bool {
	rctx, cancel := g.remoteCtx(ctx)
	defer cancel()

	if err := g.mirror.InsertRecord(rctx, rec); err != nil {
		g.warn("sync record "+rec.ID, err)
		return false
	}
	if err := g.local.UpdateRecord(rec.ID, func(r *patient.Record) { r.Synced = true }); err != nil {
		g.warn("mark synced "+rec.ID, err)
		return false
	}
	return true
}

// ListRecords returns records newest first, preferring the mirror.
func (g *Gateway) ListRecords(ctx context.Context) ([]patient.Record, error) {
	if g.mirror != nil {
		rctx, cancel := g.remoteCtx(ctx)
		records, err := g.mirror.ListRecords(rctx)
		cancel()
		if err == nil {
			return records, nil
		}
		g.warn("list records", err)
	}

	records, err := g.local.Records()
	if err != nil {
		return nil, fmt.Errorf("list local records: %w", err)
	}
	return records, nil
}

// UpdateStatus changes a record's status locally first, then remotely.
// A record unknown locally may still exist in the mirror.
func (g *Gateway) UpdateStatus(ctx context.Context, id string, status patient.Status) error {
	err := g.local.UpdateRecord(id, func(r *patient.Record) { r.Status = status })
	switch {
	case errors.Is(err, store.ErrNotFound):
		if g.mirror == nil {
			return fmt.Errorf("%s: %w", id, ErrRecordNotFound)
		}
	case err != nil:
		return fmt.Errorf("update local status: %w", err)
	}

	if g.mirror != nil {
		rctx, cancel := g.remoteCtx(ctx)
		rerr := g.mirror.UpdateStatus(rctx, id, status)
		cancel()
		if rerr != nil {
			g.warn("update status "+id, rerr)
		}
	}

	g.publish(ctx, events.Event{Type: events.RecordStatusChanged, Key: id, Payload: map[string]string{"status": string(status)}})
	return nil
}

// ClearAll erases local records. The mirror is never touched.
func (g *Gateway) ClearAll() error {
	if err := g.local.ClearRecords(); err != nil {
		return fmt.Errorf("clear local records: %w", err)
	}
	g.log.Warn("local records cleared")
	return nil
}

// ReconcileResult summarises one sweep.
type ReconcileResult struct {
	Synced  int
	Failed  int
	Skipped int
}

// Reconcile retries the mirror write for every unsynced local record.
// Already-synced records are skipped; failures wait for the next sweep.
func (g *Gateway) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var res ReconcileResult
	if g.mirror == nil {
		return res, ErrNoMirror
	}

	records, err := g.local.Records()
	if err != nil {
		return res, fmt.Errorf("load local records: %w", err)
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if rec.Synced {
			res.Skipped++
			continue
		}
		if g.pushRecord(ctx, rec) {
			res.Synced++
		} else {
			res.Failed++
		}
	}

	g.log.WithFields(logrus.Fields{
		"synced":  res.Synced,
		"failed":  res.Failed,
		"skipped": res.Skipped,
	}).Info("reconciliation sweep complete")
	return res, nil
}
