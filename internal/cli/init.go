// Package cli holds the initialization steps shared by the server and
// worker binaries.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chitieu/internal/config"
	"chitieu/internal/logging"
)

// SetupLogger configures the default structured logger and returns it.
func SetupLogger() *slog.Logger {
	logging.Setup()
	return slog.Default()
}

// LoadEnvFile loads the .env file for local development. Errors are ignored
// since the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// GracefulShutdown returns a context cancelled on SIGINT/SIGTERM and a
// channel closed once cleanup has run.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		awaitCleanup(logger, timeout, cleanup)
		cancel()
		close(done)
	}()

	return ctx, done
}

// awaitCleanup runs cleanup and returns as soon as it finishes, bounded by
// timeout. A cleanup that overruns is abandoned, not waited out.
func awaitCleanup(logger *slog.Logger, timeout time.Duration, cleanup func()) {
	finished := make(chan struct{})
	go func() {
		if cleanup != nil {
			cleanup()
		}
		close(finished)
	}()

	select {
	case <-finished:
		logger.Info("Shutdown complete")
	case <-time.After(timeout):
		logger.Warn("Shutdown timeout reached")
	}
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
