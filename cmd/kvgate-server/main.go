package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	internalhttp "github.com/EternisAI/kvgate/internal/api/http"
	grpchealth "github.com/EternisAI/kvgate/internal/grpc/health"
	"github.com/EternisAI/kvgate/internal/launcher"
	"github.com/EternisAI/kvgate/internal/metrics"
	"github.com/EternisAI/kvgate/internal/startup"
	"github.com/EternisAI/kvgate/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var AppVersion string

const shutdownTimeout = 10 * time.Second

func main() {
	InitConfig()

	slog.Info("kvgate server", "version", AppVersion)

	if err := run(); err != nil {
		slog.Error("Startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var healthSrv *grpchealth.Server
	errChan := make(chan error, 2)
	if config.Grpc.Enabled {
		healthSrv = grpchealth.NewServer(config.Grpc.Port, startup.DependencyRedis, startup.DependencyPostgres)
		go func() {
			if err := healthSrv.Start(); err != nil {
				errChan <- fmt.Errorf("gRPC server error: %w", err)
			}
		}()
	}

	backing, err := launcher.New(config.Launcher, config.Store.Addr())
	if err != nil {
		return err
	}
	addr, err := backing.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to launch backing store: %w", err)
	}

	gates := startup.Gates{
		Config:         config.Readiness.Config,
		FailFastOnAuth: config.Readiness.FailFastOnAuth,
		Metrics:        m,
	}
	if healthSrv != nil {
		gates.Health = healthSrv
	}

	client, err := startup.AwaitRedis(ctx, gates, addr, config.Store)
	if err != nil {
		stopBacking(backing)
		stopHealth(healthSrv)
		return err
	}
	kv := store.NewRedisStore(client)

	repo, releaseProfiles, err := startup.OpenProfiles(ctx, gates, config.Profiles, client, config.DB)
	if err != nil {
		_ = kv.Close()
		stopBacking(backing)
		stopHealth(healthSrv)
		return err
	}

	services := &internalhttp.Services{
		Store:    kv,
		Profiles: repo,
		Metrics:  m,
		Auth:     config.Auth,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "PATCH", "GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	internalhttp.SetupRoute(engine, services)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Http.Port),
		Handler: engine,
	}

	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if healthSrv != nil {
		healthSrv.SetServing(true)
	}

	select {
	case err := <-errChan:
		slog.Error("Server error", "error", err)
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	}

	slog.Info("Shutting down servers...")
	if healthSrv != nil {
		healthSrv.SetServing(false)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server stopped")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		stopHealth(healthSrv)
	}()

	wg.Wait()

	releaseProfiles()
	if err := kv.Close(); err != nil {
		slog.Warn("Failed to close Redis client", "error", err)
	}
	stopBacking(backing)

	slog.Info("Shutdown complete")
	return nil
}

func stopHealth(s *grpchealth.Server) {
	if s == nil {
		return
	}
	if err := s.StopWithTimeout(shutdownTimeout); err != nil {
		slog.Error("gRPC server shutdown error", "error", err)
	}
}

func stopBacking(l launcher.Launcher) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := l.Stop(ctx); err != nil {
		slog.Warn("Failed to stop backing store", "error", err)
	}
}
