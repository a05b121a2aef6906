package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultDialTimeout = 2 * time.Second

type Config struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	DB          int           `mapstructure:"db"`
	Password    string        `mapstructure:"password"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RedisProber dials a fresh client on every attempt and PINGs it. A client
// whose PING fails is closed before the error is returned.
type RedisProber struct {
	addr string
	cfg  Config
}

func NewRedisProber(addr string, cfg Config) *RedisProber {
	if addr == "" {
		addr = cfg.Addr()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	return &RedisProber{addr: addr, cfg: cfg}
}

func (p *RedisProber) Probe(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        p.addr,
		DB:          p.cfg.DB,
		Password:    p.cfg.Password,
		DialTimeout: p.cfg.DialTimeout,
		MaxRetries:  -1,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			slog.Debug("Failed to close probe client", "error", closeErr)
		}
		return nil, fmt.Errorf("ping %s: %w", p.addr, err)
	}

	slog.Info("Successfully connected to Redis", "address", p.addr)
	return client, nil
}

func (p *RedisProber) Addr() string {
	return p.addr
}

// IsConnRefused reports whether err is a refused TCP connection.
func IsConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

// IsLoading reports whether the server answered but is still loading its
// dataset into memory.
func IsLoading(err error) bool {
	return err != nil && strings.Contains(err.Error(), "LOADING")
}

// IsAuthError reports whether the server rejected the configured credentials.
// Retrying cannot fix these.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "WRONGPASS") || strings.Contains(msg, "NOAUTH")
}

// Classify names the outcome of a probe for logs and metrics.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ready"
	case IsConnRefused(err):
		return "refused"
	case IsLoading(err):
		return "loading"
	case IsAuthError(err):
		return "auth"
	default:
		return "error"
	}
}
