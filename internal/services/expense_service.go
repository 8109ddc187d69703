// Package services orchestrates writes that span the local store and the
// sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"chitieu/internal/core"
	"chitieu/internal/storage"
)

// SyncPublisher announces stored expense rows to the sync queue.
type SyncPublisher interface {
	PublishExpenseSync(ctx context.Context, id, version int64, period core.Period) error
}

// ExpenseService saves expenses to SQLite and queues them for the
// spreadsheet sync worker.
type ExpenseService struct {
	storage   *storage.Repository
	publisher SyncPublisher
}

func NewExpenseService(storage *storage.Repository, publisher SyncPublisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateExpense saves the expense locally, then publishes a sync message.
// A publish failure is logged and swallowed: the row stays pending and the
// worker's periodic rescan picks it up later.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.ExpenseRecord) (string, error) {
	stored, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return "", err
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, relying on periodic rescan", "id", stored.ID)
		return s.storage.SheetName(stored.Period), nil
	}
	if err := s.publisher.PublishExpenseSync(ctx, stored.ID, stored.Version, stored.Period); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", stored.ID, "error", err)
	}

	return s.storage.SheetName(stored.Period), nil
}

// Close releases the underlying store and, if present, the queue connection.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if closer, ok := s.publisher.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
