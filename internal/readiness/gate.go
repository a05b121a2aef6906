package readiness

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultMaxAttempts   = 30
	DefaultRetryInterval = 1 * time.Second
)

type State int

const (
	Polling State = iota
	Ready
	Exhausted
)

func (s State) String() string {
	switch s {
	case Polling:
		return "polling"
	case Ready:
		return "ready"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Prober opens a connection to a dependency and issues a liveness probe.
// A nil error means the dependency is reachable and initialized; the
// returned handle is owned by the caller from then on.
type Prober[C any] interface {
	Probe(ctx context.Context) (C, error)
}

// ProberFunc adapts a function into a Prober.
type ProberFunc[C any] func(ctx context.Context) (C, error)

func (f ProberFunc[C]) Probe(ctx context.Context) (C, error) { return f(ctx) }

type Config struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// ProbeState is the per-attempt view handed to observers.
type ProbeState struct {
	Attempt   int
	Connected bool
	Err       error
}

// Result is the outcome of one gate run. Conn is only set when State is Ready.
type Result[C any] struct {
	State    State
	Conn     C
	Attempts int
	Err      error
}

type Gate[C any] struct {
	name     string
	prober   Prober[C]
	cfg      Config
	sleeper  Sleeper
	failFast func(error) bool
	observer func(ProbeState)
}

type Option[C any] func(*Gate[C])

// WithSleeper replaces the timer used between attempts.
func WithSleeper[C any](s Sleeper) Option[C] {
	return func(g *Gate[C]) { g.sleeper = s }
}

// WithFailFast stops polling as soon as fn reports an error as permanent.
func WithFailFast[C any](fn func(error) bool) Option[C] {
	return func(g *Gate[C]) { g.failFast = fn }
}

// WithObserver is called once per attempt, after the probe returns.
func WithObserver[C any](fn func(ProbeState)) Option[C] {
	return func(g *Gate[C]) { g.observer = fn }
}

func New[C any](name string, prober Prober[C], cfg Config, opts ...Option[C]) *Gate[C] {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryInterval < 0 {
		cfg.RetryInterval = 0
	}

	g := &Gate[C]{
		name:    name,
		prober:  prober,
		cfg:     cfg,
		sleeper: RealSleeper{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run polls the dependency until it is ready or attempts are exhausted.
// No state is kept between calls.
func (g *Gate[C]) Run(ctx context.Context) Result[C] {
	var (
		zero    C
		lastErr error
		state   ProbeState
	)

	for state.Attempt = 0; state.Attempt < g.cfg.MaxAttempts; state.Attempt++ {
		if err := ctx.Err(); err != nil {
			return Result[C]{State: Exhausted, Conn: zero, Attempts: state.Attempt, Err: err}
		}

		conn, err := g.prober.Probe(ctx)
		state.Connected = err == nil
		state.Err = err
		g.observe(state)

		if err == nil {
			slog.Info("Dependency is ready", "dependency", g.name, "attempt", state.Attempt+1)
			return Result[C]{State: Ready, Conn: conn, Attempts: state.Attempt + 1}
		}
		lastErr = err

		if g.failFast != nil && g.failFast(err) {
			slog.Error("Dependency failed with a permanent error", "dependency", g.name, "error", err)
			return Result[C]{State: Exhausted, Conn: zero, Attempts: state.Attempt + 1, Err: err}
		}

		if state.Attempt == g.cfg.MaxAttempts-1 {
			break
		}

		slog.Info("Waiting for dependency to be ready",
			"dependency", g.name,
			"attempt", state.Attempt+1,
			"max_attempts", g.cfg.MaxAttempts,
			"error", err)

		if err := g.sleeper.Sleep(ctx, g.cfg.RetryInterval); err != nil {
			return Result[C]{State: Exhausted, Conn: zero, Attempts: state.Attempt + 1, Err: err}
		}
	}

	return Result[C]{State: Exhausted, Conn: zero, Attempts: g.cfg.MaxAttempts, Err: lastErr}
}

// Await is Run with the outcome folded into Go's (value, error) form.
// Exhaustion is reported as *StartupError.
func (g *Gate[C]) Await(ctx context.Context) (C, error) {
	res := g.Run(ctx)
	if res.State == Ready {
		return res.Conn, nil
	}
	var zero C
	return zero, &StartupError{Dependency: g.name, Attempts: res.Attempts, Err: res.Err}
}

func (g *Gate[C]) Config() Config {
	return g.cfg
}

func (g *Gate[C]) observe(s ProbeState) {
	if g.observer != nil {
		g.observer(s)
	}
}
