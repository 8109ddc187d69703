// Package worker pushes locally stored expenses to the spreadsheet
// substrate, driven by queue messages with a periodic rescan as backstop.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"chitieu/internal/amqp"
	"chitieu/internal/sheets"
	"chitieu/internal/storage"
)

// SyncWorker replays pending SQLite rows onto the spreadsheet.
type SyncWorker struct {
	storage   *storage.Repository
	sheets    sheets.ExpenseAppender
	batchSize int
}

func NewSyncWorker(storage *storage.Repository, sheets sheets.ExpenseAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sync message from the queue.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ExpenseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version,
		"period", msg.Period)

	stored, err := w.storage.GetExpense(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}
	return w.push(ctx, stored)
}

// ProcessPendingExpenses drains one batch of rows the queue missed. This is
// the backstop for lost messages and publish failures.
func (w *SyncWorker) ProcessPendingExpenses(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	for _, p := range pending {
		stored, err := w.storage.GetExpense(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get expense", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}
		if err := w.push(ctx, stored); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense", "id", p.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupSyncCheck drains a larger backlog once at worker startup to recover
// from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup", "count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		stored, err := w.storage.GetExpense(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get expense for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			failed++
			continue
		}
		if err := w.push(ctx, stored); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense during startup",
				"id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) push(ctx context.Context, stored storage.StoredExpense) error {
	sheet, err := w.sheets.Append(ctx, stored.Record)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, stored.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", stored.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, stored.ID); err != nil {
		// the push itself worked, so don't fail the message
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", stored.ID, "error", err)
	}

	slog.InfoContext(ctx, "Synced expense to sheet",
		"id", stored.ID,
		"sheet", sheet,
		"payer", stored.Record.Payer,
		"amount", stored.Record.Amount)
	return nil
}
