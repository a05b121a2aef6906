// kvgate-wait blocks until the configured Redis answers PING, then exits 0.
// It exits 1 once the readiness attempts are exhausted.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/EternisAI/kvgate/internal/readiness"
	"github.com/EternisAI/kvgate/internal/startup"
)

var AppVersion string

func main() {
	InitConfig()

	slog.Info("kvgate wait", "version", AppVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gates := startup.Gates{
		Config:         config.Readiness.Config,
		FailFastOnAuth: config.Readiness.FailFastOnAuth,
	}

	client, err := startup.AwaitRedis(ctx, gates, "", config.Store)
	if err != nil {
		var startupErr *readiness.StartupError
		if errors.As(err, &startupErr) {
			slog.Error("Redis did not become ready", "attempts", startupErr.Attempts, "error", startupErr.Err)
		} else {
			slog.Error("Wait failed", "error", err)
		}
		os.Exit(1)
	}

	if err := client.Close(); err != nil {
		slog.Warn("Failed to close Redis client", "error", err)
	}
	slog.Info("Redis is ready", "address", config.Store.Addr())
}
