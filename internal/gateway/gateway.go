// Package gateway turns check-in drafts into durable records. The local
// store is written first and is authoritative; the remote mirror and the
// event publisher are best-effort and their failures only raise warnings.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/internal/events"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/store"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrRequestNotFound = errors.New("assistance request not found")
	ErrNoMirror        = errors.New("remote mirror not configured")
)

// Mirror is the remote copy of kiosk data.
type Mirror interface {
	InsertRecord(ctx context.Context, rec patient.Record) error
	ListRecords(ctx context.Context) ([]patient.Record, error)
	UpdateStatus(ctx context.Context, id string, status patient.Status) error
	InsertAssistance(ctx context.Context, req kiosk.AssistanceRequest) error
	ListAssistance(ctx context.Context) ([]kiosk.AssistanceRequest, error)
	ResolveAssistance(ctx context.Context, id string, at time.Time, by string) error
}

// Gateway is the kiosk's single persistence entry point.
type Gateway struct {
	local     *store.Store
	mirror    Mirror
	publisher events.Publisher
	log       *logrus.Entry
	now       func() time.Time
	prefix    string
	timeout   time.Duration
	onWarning func(error)
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMirror enables the remote mirror.
func WithMirror(m Mirror) Option {
	return func(g *Gateway) { g.mirror = m }
}

// WithPublisher enables event publishing.
func WithPublisher(p events.Publisher) Option {
	return func(g *Gateway) { g.publisher = p }
}

// WithLogger sets the log entry used for warnings.
func WithLogger(log *logrus.Entry) Option {
	return func(g *Gateway) { g.log = log }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithIDPrefix sets the record ID prefix.
func WithIDPrefix(prefix string) Option {
	return func(g *Gateway) { g.prefix = prefix }
}

// WithRemoteTimeout bounds each remote call.
func WithRemoteTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithWarningHandler receives every non-fatal remote failure.
func WithWarningHandler(fn func(error)) Option {
	return func(g *Gateway) { g.onWarning = fn }
}

// New creates a gateway over the local store.
func New(local *store.Store, opts ...Option) *Gateway {
	g := &Gateway{
		local:   local,
		log:     logrus.NewEntry(logrus.StandardLogger()),
		now:     time.Now,
		prefix:  "LRD",
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.WithField("component", "gateway")

	if g.mirror == nil {
		g.log.Warn("remote mirror not configured, running in local-only mode")
	}
	return g
}

// RemoteEnabled reports whether a mirror is configured.
func (g *Gateway) RemoteEnabled() bool { return g.mirror != nil }

// NextID allocates PREFIX-YYYYMMDD-NNNN from the daily sequence. IDs are
// unique per kiosk and day only.
func (g *Gateway) NextID() (string, error) {
	now := g.now()
	seq, err := g.local.NextSequence(now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", g.prefix, now.Format("20060102"), seq), nil
}

// Settings returns the saved kiosk settings.
func (g *Gateway) Settings() (kiosk.Settings, error) {
	return g.local.Settings()
}

// SaveSettings persists kiosk settings.
func (g *Gateway) SaveSettings(s kiosk.Settings) error {
	if err := g.local.SaveSettings(s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (g *Gateway) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

// warn reports a non-fatal failure.
func (g *Gateway) warn(op string, err error) {
	g.log.WithError(err).WithField("op", op).Warn("remote operation failed, local copy kept")
	if g.onWarning != nil {
		g.onWarning(fmt.Errorf("%s: %w", op, err))
	}
}

// publish sends an event if a publisher is configured.
func (g *Gateway) publish(ctx context.Context, e events.Event) {
	if g.publisher == nil {
		return
	}
	e.At = g.now()
	pctx, cancel := g.remoteCtx(ctx)
	defer cancel()
	if err := g.publisher.Publish(pctx, e); err != nil {
		g.warn("publish "+e.Type, err)
	}
}
