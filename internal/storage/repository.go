// Package storage is the local SQLite substrate. It keeps the same month
// partitioning and row semantics as the sheet backends and additionally
// tracks which rows still have to be pushed to the spreadsheet.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"chitieu/internal/core"
	"chitieu/internal/ledger"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db     *sql.DB
	prefix string
}

func NewRepository(dbPath, sheetPrefix string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, prefix: sheetPrefix}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SheetName is the partition name the sheet backend would use for p.
func (r *Repository) SheetName(p core.Period) string {
	return r.prefix + string(p)
}

// StoredExpense is one expense row together with its database identity, used
// by the sync worker to push rows to the spreadsheet.
type StoredExpense struct {
	ID      int64
	Version int64
	Period  core.Period
	Record  core.ExpenseRecord
}

// PendingSync is the minimal row identity carried by a sync queue message.
type PendingSync struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// CreateExpense validates and inserts the expense into the partition of its
// date. The first write to a period also seeds an all-zero settlement block,
// matching what a freshly bootstrapped sheet holds.
func (r *Repository) CreateExpense(ctx context.Context, e core.ExpenseRecord) (StoredExpense, error) {
	if err := e.Validate(); err != nil {
		return StoredExpense{}, err
	}
	p, err := core.PeriodOfDate(e.Date)
	if err != nil {
		return StoredExpense{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return StoredExpense{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (period, date, description, payer, amount,
			split_vu, split_duyen, split_phi, split_troi, participants, share)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p), e.Date, e.Description, string(e.Payer), e.Amount,
		e.SplitBy[core.MemberVu], e.SplitBy[core.MemberDuyen],
		e.SplitBy[core.MemberPhi], e.SplitBy[core.MemberTroi],
		e.Participants, e.Share)
	if err != nil {
		return StoredExpense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return StoredExpense{}, fmt.Errorf("last insert id: %w", err)
	}

	for _, sender := range core.Members() {
		for _, receiver := range core.Members() {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO settlements (period, sender, receiver, amount)
				VALUES (?, ?, ?, 0)`,
				string(p), string(sender), string(receiver)); err != nil {
				return StoredExpense{}, fmt.Errorf("seed settlement block: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return StoredExpense{}, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"period", p,
		"payer", e.Payer,
		"amount", e.Amount)

	return StoredExpense{ID: id, Version: 1, Period: p, Record: e}, nil
}

// GetExpense loads one expense row by database ID.
func (r *Repository) GetExpense(ctx context.Context, id int64) (StoredExpense, error) {
	var (
		stored                    StoredExpense
		period, date, desc, payer string
		amount                    float64
		sVu, sDuyen, sPhi, sTroi  bool
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT period, date, description, payer, amount,
			split_vu, split_duyen, split_phi, split_troi, version
		FROM expenses WHERE id = ?`, id).Scan(
		&period, &date, &desc, &payer, &amount,
		&sVu, &sDuyen, &sPhi, &sTroi, &stored.Version)
	if err != nil {
		return StoredExpense{}, fmt.Errorf("get expense %d: %w", id, err)
	}

	stored.ID = id
	stored.Period = core.Period(period)
	stored.Record = core.NewExpense(date, desc, core.Member(payer), amount, map[core.Member]bool{
		core.MemberVu:    sVu,
		core.MemberDuyen: sDuyen,
		core.MemberPhi:   sPhi,
		core.MemberTroi:  sTroi,
	})
	return stored, nil
}

// ReadPartition implements sheets.PartitionReader. Rows come back in insert
// order so the same position-derived IDs apply as on the sheet backends; a
// period nothing was ever written to reports the not-found marker.
func (r *Repository) ReadPartition(ctx context.Context, p core.Period) (core.Partition, error) {
	name := r.SheetName(p)

	sheetRows, err := r.expenseRows(ctx, p)
	if err != nil {
		return core.Partition{}, err
	}
	settlement, err := r.settlementRows(ctx, p)
	if err != nil {
		return core.Partition{}, err
	}

	if len(sheetRows) == 0 && len(settlement) == 0 {
		return core.Partition{SheetName: name, Err: "Sheet not found"}, nil
	}
	return core.Partition{
		SheetName:  name,
		Expenses:   ledger.ReadExpenses(sheetRows, 2),
		Settlement: settlement,
	}, nil
}

func (r *Repository) expenseRows(ctx context.Context, p core.Period) ([][]any, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, description, payer, amount,
			split_vu, split_duyen, split_phi, split_troi, participants, share
		FROM expenses WHERE period = ? ORDER BY id`, string(p))
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		var (
			date, desc, payer        string
			amount, share            float64
			sVu, sDuyen, sPhi, sTroi bool
			participants             int
		)
		if err := rows.Scan(&date, &desc, &payer, &amount,
			&sVu, &sDuyen, &sPhi, &sTroi, &participants, &share); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, []any{date, desc, payer, amount, sVu, sDuyen, sPhi, sTroi, float64(participants), share})
	}
	return out, rows.Err()
}

func (r *Repository) settlementRows(ctx context.Context, p core.Period) ([]core.RawSettlementRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sender, receiver, amount
		FROM settlements WHERE period = ? ORDER BY rowid`, string(p))
	if err != nil {
		return nil, fmt.Errorf("query settlements: %w", err)
	}
	defer rows.Close()

	var (
		order []string
		cells = make(map[string]map[core.Member]float64)
	)
	for rows.Next() {
		var sender, receiver string
		var amount float64
		if err := rows.Scan(&sender, &receiver, &amount); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		if _, ok := cells[sender]; !ok {
			order = append(order, sender)
			cells[sender] = make(map[core.Member]float64)
		}
		if m, ok := core.ParseMember(receiver); ok {
			cells[sender][m] = amount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]core.RawSettlementRow, 0, len(order))
	for _, sender := range order {
		out = append(out, core.RawSettlementRow{Sender: sender, Receivers: cells[sender]})
	}
	return out, nil
}

// ReplaceSettlement overwrites a period's settlement block. The matrix is
// maintained externally; this is the write path for whoever recomputes it.
func (r *Repository) ReplaceSettlement(ctx context.Context, p core.Period, settlement []core.RawSettlementRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM settlements WHERE period = ?`, string(p)); err != nil {
		return fmt.Errorf("clear settlement block: %w", err)
	}
	for _, row := range settlement {
		for _, receiver := range core.Members() {
			amount, ok := row.Receivers[receiver]
			if !ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO settlements (period, sender, receiver, amount)
				VALUES (?, ?, ?, ?)`,
				string(p), row.Sender, string(receiver), amount); err != nil {
				return fmt.Errorf("insert settlement cell: %w", err)
			}
		}
	}
	return tx.Commit()
}

// GetPendingSync returns rows still waiting for a spreadsheet push, oldest
// first. Rows that already failed are retried until their attempt budget is
// spent.
func (r *Repository) GetPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, created_at
		FROM expenses
		WHERE sync_status IN ('pending', 'error') AND sync_attempts < 5
		ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync: %w", err)
	}
	defer rows.Close()

	var out []PendingSync
	for rows.Next() {
		var (
			pending   PendingSync
			createdAt string
		)
		if err := rows.Scan(&pending.ID, &pending.Version, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			pending.CreatedAt = t
		}
		out = append(out, pending)
	}
	return out, rows.Err()
}

// MarkSynced records a successful spreadsheet push.
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET sync_status = 'synced', updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed push and burns one retry attempt.
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET sync_status = 'error',
			sync_attempts = sync_attempts + 1,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "Expense marked with sync error", "id", id)
	return nil
}
