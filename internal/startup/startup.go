package startup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EternisAI/kvgate/internal/db"
	"github.com/EternisAI/kvgate/internal/metrics"
	"github.com/EternisAI/kvgate/internal/profiles"
	"github.com/EternisAI/kvgate/internal/readiness"
	"github.com/EternisAI/kvgate/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	DependencyRedis    = "redis"
	DependencyPostgres = "postgres"

	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var ErrUnknownBackend = errors.New("unknown profile backend")

type ReadinessConfig struct {
	readiness.Config `mapstructure:",squash"`
	FailFastOnAuth   bool `mapstructure:"fail_fast_on_auth"`
}

type ProfilesConfig struct {
	Backend   string `mapstructure:"backend"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// HealthReporter receives per-dependency readiness. The gRPC health server
// implements it.
type HealthReporter interface {
	SetServiceServing(service string, serving bool)
}

// Gates carries what every readiness gate in the process shares.
type Gates struct {
	Config         readiness.Config
	FailFastOnAuth bool
	Metrics        *metrics.Metrics
	Health         HealthReporter
	Sleeper        readiness.Sleeper
}

func gateFor[C any](g Gates, dependency string, prober readiness.Prober[C], classify func(error) string, failFast func(error) bool) *readiness.Gate[C] {
	var opts []readiness.Option[C]
	if g.Sleeper != nil {
		opts = append(opts, readiness.WithSleeper[C](g.Sleeper))
	}
	if failFast != nil {
		opts = append(opts, readiness.WithFailFast[C](failFast))
	}
	if g.Metrics != nil {
		opts = append(opts, readiness.WithObserver[C](g.Metrics.ObserveProbe(dependency, classify)))
	}
	return readiness.New[C](dependency, prober, g.Config, opts...)
}

func (g Gates) report(dependency string, err error) {
	if g.Metrics != nil {
		state := readiness.Ready
		if err != nil {
			state = readiness.Exhausted
		}
		g.Metrics.SetReadinessState(dependency, state)
	}
	if g.Health != nil {
		g.Health.SetServiceServing(dependency, err == nil)
	}
}

// AwaitRedis blocks until the store at addr answers PING and returns the
// live client, or a *readiness.StartupError.
func AwaitRedis(ctx context.Context, g Gates, addr string, cfg store.Config) (*redis.Client, error) {
	var failFast func(error) bool
	if g.FailFastOnAuth {
		failFast = store.IsAuthError
	}

	prober := store.NewRedisProber(addr, cfg)
	slog.Info("Waiting for Redis", "address", prober.Addr(),
		"max_attempts", g.Config.MaxAttempts, "retry_interval", g.Config.RetryInterval)

	client, err := gateFor[*redis.Client](g, DependencyRedis, prober, store.Classify, failFast).Await(ctx)
	g.report(DependencyRedis, err)
	return client, err
}

// AwaitPostgres builds a pool for cfg, waits until it answers a ping, and
// applies migrations.
func AwaitPostgres(ctx context.Context, g Gates, cfg db.Config) (*pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx, cfg.Url, cfg.Schema)
	if err != nil {
		return nil, err
	}

	if _, err := gateFor[*pgxpool.Pool](g, DependencyPostgres, db.NewProber(pool), nil, nil).Await(ctx); err != nil {
		g.report(DependencyPostgres, err)
		pool.Close()
		return nil, err
	}

	if err := db.RunMigrations(cfg.Url, cfg.Schema); err != nil {
		g.report(DependencyPostgres, err)
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	g.report(DependencyPostgres, nil)
	return pool, nil
}

// OpenProfiles returns the configured profile repository and a func that
// releases whatever it opened.
func OpenProfiles(ctx context.Context, g Gates, cfg ProfilesConfig, client *redis.Client, dbCfg db.Config) (profiles.Repository, func(), error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendRedis:
		return profiles.NewRedisRepository(client, cfg.KeyPrefix), func() {}, nil
	case BackendPostgres:
		pool, err := AwaitPostgres(ctx, g, dbCfg)
		if err != nil {
			return nil, nil, err
		}
		return profiles.NewPostgresRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
