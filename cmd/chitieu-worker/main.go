package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"chitieu/internal/amqp"
	"chitieu/internal/cli"
	gsheet "chitieu/internal/sheets/google"
	"chitieu/internal/storage"
	"chitieu/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting chitieu-worker")

	repo, err := storage.NewRepository(cfg.SQLiteDBPath, cfg.SheetPrefix)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("Worker needs GOOGLE_SPREADSHEET_ID to push expenses")
		os.Exit(1)
	}
	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, cfg.SyncBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// drain anything that accumulated while the worker was down
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// queue consumption is optional; the rescan alone keeps the sheet
	// eventually consistent
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			err := amqpClient.ConsumeExpenseSync(ctx, func(msg *amqp.ExpenseSyncMessage) error {
				return syncWorker.HandleSyncMessage(ctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("No AMQP URL configured, running rescan only")
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := syncWorker.ProcessPendingExpenses(ctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
