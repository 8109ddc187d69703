package backend

import (
	"context"
	"fmt"
	"log/slog"

	"chitieu/internal/adapters"
	"chitieu/internal/amqp"
	"chitieu/internal/services"
	gsheet "chitieu/internal/sheets/google"
	"chitieu/internal/sheets/memory"
	"chitieu/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewRepository(config.SQLiteDBPath, config.SheetPrefix)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without a broker the sync worker's rescan still
	// drains pending rows.
	var publisher services.SyncPublisher
	if config.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync queue", "error", err)
		} else {
			publisher = amqpClient
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	expenseService := services.NewExpenseService(repo, publisher)
	adapter := adapters.NewSQLiteAdapter(repo, expenseService)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	return &Result{
		Backend: adapter,
		Cleanup: expenseService.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"spreadsheet_id", config.GoogleSpreadsheetID)

	return &Result{Backend: cli}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	store := memory.New(config.SheetPrefix)

	f.logger.Info("Initialized memory backend", "sheet_prefix", config.SheetPrefix)

	return &Result{Backend: store}, nil
}
