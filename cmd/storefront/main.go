package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/auth"
	"github.com/matheusmosca/storefront/internal/config"
	"github.com/matheusmosca/storefront/internal/idempotency"
	"github.com/matheusmosca/storefront/internal/logger"
	"github.com/matheusmosca/storefront/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	flush, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer flush()

	if err := run(cfg); err != nil {
		zap.L().Error("storefront stopped with error", zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	providers, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("Error shutting down telemetry", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewOrderMetrics(providers.Meter(cfg.Telemetry.ServiceName))
	if err != nil {
		return err
	}

	// Initialize store
	b, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer b.Close()

	keys, closeKeys, err := openIdempotency(cfg.Redis)
	if err != nil {
		return err
	}
	defer closeKeys()

	// Initialize dependencies
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	guard := idempotency.NewGuard(keys, cfg.Redis.IdempotencyTTL)
	a := newApp(cfg.Telemetry.ServiceName, b, tokens, providers.TracerProvider, metrics, guard)

	if err := a.users.EnsureAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return err
	}

	if cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      a.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("🚀 Storefront listening",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
