// Package bootstrap builds the persistence gateway from configuration. The
// kiosk, the sync worker, the admin API and the seeder share it.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/internal/config"
	"github.com/mrsinham/vitalis/internal/events"
	"github.com/mrsinham/vitalis/internal/gateway"
	redisclient "github.com/mrsinham/vitalis/internal/redis"
	"github.com/mrsinham/vitalis/internal/remote"
	"github.com/mrsinham/vitalis/internal/store"
)

// Runtime owns every connection opened for a process.
type Runtime struct {
	Store     *store.Store
	Gateway   *gateway.Gateway
	Pool      *pgxpool.Pool
	Mirror    *remote.PgMirror
	Redis     *goredis.Client
	Publisher events.Publisher
}

// Options tune Open per process.
type Options struct {
	// Redis connects the lock server when configured.
	Redis bool
	// OnWarning receives non-fatal gateway failures.
	OnWarning func(error)
	// Gateway options applied after the configured ones.
	Gateway []gateway.Option
}

// Open creates the data directory, opens the local store and connects the
// optional mirror, lock server and event publisher. A configured mirror is
// always wired: when it is unreachable at startup records stay unsynced
// until a later push or sweep reaches it.
func Open(ctx context.Context, cfg config.Config, log *logrus.Entry, opts Options) (*Runtime, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	local, err := store.Open(cfg.StorePath())
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Store: local}

	gwOpts := []gateway.Option{
		gateway.WithLogger(log),
		gateway.WithIDPrefix(cfg.IDPrefix),
		gateway.WithRemoteTimeout(cfg.RemoteTimeout),
		gateway.WithWarningHandler(opts.OnWarning),
	}

	if cfg.RemoteEnabled() {
		pool, err := remote.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			local.Close()
			return nil, err
		}
		rt.Pool = pool
		rt.Mirror = remote.NewPgMirror(pool)
		gwOpts = append(gwOpts, gateway.WithMirror(rt.Mirror))

		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := rt.Mirror.EnsureSchema(pgCtx); err != nil {
			log.WithError(err).Warn("remote mirror unreachable, records sync once it is back")
		}
		cancel()
	}

	if cfg.KafkaEnabled() {
		rt.Publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		gwOpts = append(gwOpts, gateway.WithPublisher(rt.Publisher))
	}

	if opts.Redis && cfg.RedisEnabled() {
		rdb, err := redisclient.NewClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, reconciliation runs unlocked")
		} else {
			rt.Redis = rdb
		}
	}

	rt.Gateway = gateway.New(local, append(gwOpts, opts.Gateway...)...)
	return rt, nil
}

// Locker returns the Redis lock when connected, otherwise a no-op.
func (rt *Runtime) Locker(ttl time.Duration) redisclient.Locker {
	if rt.Redis == nil {
		return redisclient.NoopLocker{}
	}
	return redisclient.NewRedisLocker(rt.Redis, ttl)
}

// Close releases every connection, local store last.
func (rt *Runtime) Close() error {
	if rt.Publisher != nil {
		_ = rt.Publisher.Close()
	}
	if rt.Redis != nil {
		_ = rt.Redis.Close()
	}
	if rt.Pool != nil {
		rt.Pool.Close()
	}
	return rt.Store.Close()
}
