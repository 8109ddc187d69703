// Package adapters binds the SQLite store and the expense service to the
// substrate ports the HTTP server consumes.
package adapters

import (
	"context"

	"chitieu/internal/core"
	"chitieu/internal/services"
	"chitieu/internal/sheets"
	"chitieu/internal/storage"
)

// SQLiteAdapter exposes the local store through the same ports the sheet
// backends implement: reads go straight to the repository, writes go through
// the service so they also reach the sync queue.
type SQLiteAdapter struct {
	repo    *storage.Repository
	service *services.ExpenseService
}

var (
	_ sheets.PartitionReader = (*SQLiteAdapter)(nil)
	_ sheets.ExpenseAppender = (*SQLiteAdapter)(nil)
)

func NewSQLiteAdapter(repo *storage.Repository, service *services.ExpenseService) *SQLiteAdapter {
	return &SQLiteAdapter{repo: repo, service: service}
}

func (a *SQLiteAdapter) ReadPartition(ctx context.Context, p core.Period) (core.Partition, error) {
	return a.repo.ReadPartition(ctx, p)
}

func (a *SQLiteAdapter) Append(ctx context.Context, e core.ExpenseRecord) (string, error) {
	return a.service.CreateExpense(ctx, e)
}
