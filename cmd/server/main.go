package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tendant/simple-portfolio/pkg/portfolio/api"
	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
)

func main() {
	// A missing .env file is fine; the process environment still applies
	_ = godotenv.Load()

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.ServerConfig) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(cfg *config.ServerConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := cfg.Build(ctx, logger)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}
	defer rt.Close()

	opts := []api.Option{
		api.WithLogger(logger),
		api.WithCORSOrigins(cfg.CORSAllowedOrigins...),
	}
	if rt.Files != nil {
		opts = append(opts, api.WithFiles(rt.Files))
	}
	if cfg.AdminEnabled() {
		auth, err := api.NewAuth(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			return fmt.Errorf("configure admin auth: %w", err)
		}
		opts = append(opts, api.WithAuth(auth))
	} else {
		logger.Warn("ADMIN_PASSWORD_HASH not set; admin routes are disabled")
	}
	if !rt.Signer.IsEnabled() && rt.Files != nil {
		logger.Warn("SIGNATURE_SECRET_KEY not set; file URLs are unsigned")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.New(rt.Service, opts...).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Portfolio server starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"database", cfg.DatabaseType,
			"storage", cfg.Storage.Type,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}
