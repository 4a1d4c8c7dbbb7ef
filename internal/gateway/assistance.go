package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"

	"github.com/mrsinham/vitalis/internal/events"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/store"
)

// CreateAssistance records a pending help request from kioskID.
func (g *Gateway) CreateAssistance(ctx context.Context, kioskID string) (kiosk.AssistanceRequest, error) {
	req := kiosk.AssistanceRequest{
		ID:        "AST-" + ksuid.New().String(),
		KioskID:   kioskID,
		Timestamp: g.now(),
		Status:    kiosk.AssistancePending,
	}
	if err := g.local.PrependAssistance(req); err != nil {
		return kiosk.AssistanceRequest{}, fmt.Errorf("store assistance request: %w", err)
	}

	if g.mirror != nil {
		rctx, cancel := g.remoteCtx(ctx)
		err := g.mirror.InsertAssistance(rctx, req)
		cancel()
		if err != nil {
			g.warn("insert assistance "+req.ID, err)
		}
	}

	g.publish(ctx, events.Event{Type: events.AssistanceRequested, Key: req.ID, KioskID: kioskID, Payload: req})
	return req, nil
}

// ListAssistance returns requests newest first, preferring the mirror.
func (g *Gateway) ListAssistance(ctx context.Context) ([]kiosk.AssistanceRequest, error) {
	if g.mirror != nil {
		rctx, cancel := g.remoteCtx(ctx)
		reqs, err := g.mirror.ListAssistance(rctx)
		cancel()
		if err == nil {
			return reqs, nil
		}
		g.warn("list assistance", err)
	}

	reqs, err := g.local.AssistanceRequests()
	if err != nil {
		return nil, fmt.Errorf("list local assistance: %w", err)
	}
	return reqs, nil
}

// ResolveAssistance marks a request resolved, locally first.
func (g *Gateway) ResolveAssistance(ctx context.Context, id, by string) error {
	at := g.now()
	err := g.local.UpdateAssistance(id, func(r *kiosk.AssistanceRequest) {
		r.Status = kiosk.AssistanceResolved
		r.ResolvedAt = &at
		r.ResolvedBy = by
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		if g.mirror == nil {
			return fmt.Errorf("%s: %w", id, ErrRequestNotFound)
		}
	case err != nil:
		return fmt.Errorf("resolve local assistance: %w", err)
	}

	if g.mirror != nil {
		rctx, cancel := g.remoteCtx(ctx)
		rerr := g.mirror.ResolveAssistance(rctx, id, at, by)
		cancel()
		if rerr != nil {
			g.warn("resolve assistance "+id, rerr)
		}
	}

	g.publish(ctx, events.Event{Type: events.AssistanceResolved, Key: id, Payload: map[string]string{"resolvedBy": by}})
	return nil
}

// FindAssistance returns the request with the given ID from ListAssistance.
func (g *Gateway) FindAssistance(ctx context.Context, id string) (kiosk.AssistanceRequest, error) {
	reqs, err := g.ListAssistance(ctx)
	if err != nil {
		return kiosk.AssistanceRequest{}, err
	}
	for _, r := range reqs {
		if r.ID == id {
			return r, nil
		}
	}
	return kiosk.AssistanceRequest{}, fmt.Errorf("%s: %w", id, ErrRequestNotFound)
}
