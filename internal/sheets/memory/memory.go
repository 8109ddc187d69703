// Package memory is the in-process substrate used for local development and
// tests. It mimics the sheet layout row for row so the same reader code runs
// against it.
package memory

import (
	"context"
	"sync"

	"chitieu/internal/core"
	"chitieu/internal/ledger"
)

type partition struct {
	rows       [][]any // expense rows as a sheet would hold them, first data row is row 2
	settlement []core.RawSettlementRow
}

// Store holds one partition per period, created lazily on first append.
type Store struct {
	mu     sync.Mutex
	prefix string
	parts  map[core.Period]*partition
}

func New(prefix string) *Store {
	return &Store{prefix: prefix, parts: make(map[core.Period]*partition)}
}

func (s *Store) sheetName(p core.Period) string {
	return s.prefix + string(p)
}

// Append stores the expense in the partition of its date, bootstrapping the
// partition on first write.
func (s *Store) Append(_ context.Context, e core.ExpenseRecord) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	p, err := core.PeriodOfDate(e.Date)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	part := s.parts[p]
	if part == nil {
		part = &partition{settlement: bootstrapSettlement()}
		s.parts[p] = part
	}
	row := []any{e.Date, e.Description, string(e.Payer), e.Amount}
	for _, m := range core.Members() {
		row = append(row, e.SplitBy[m])
	}
	row = append(row, float64(e.Participants), e.Share)
	part.rows = append(part.rows, row)
	return s.sheetName(p), nil
}

// ReadPartition returns the period's snapshot, or an empty snapshot with the
// not-found marker when nothing was ever written there.
func (s *Store) ReadPartition(_ context.Context, p core.Period) (core.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.sheetName(p)
	part := s.parts[p]
	if part == nil {
		return core.Partition{SheetName: name, Err: "Sheet not found"}, nil
	}
	settlement := make([]core.RawSettlementRow, len(part.settlement))
	for i, row := range part.settlement {
		cp := core.RawSettlementRow{Sender: row.Sender, Receivers: make(map[core.Member]float64, len(row.Receivers))}
		for k, v := range row.Receivers {
			cp.Receivers[k] = v
		}
		settlement[i] = cp
	}
	return core.Partition{
		SheetName:  name,
		Expenses:   ledger.ReadExpenses(part.rows, 2),
		Settlement: settlement,
	}, nil
}

// SetSettlement replaces a partition's settlement block, creating the
// partition if needed. The matrix is externally maintained; this is the
// stand-in for someone editing those cells.
func (s *Store) SetSettlement(p core.Period, rows []core.RawSettlementRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	part := s.parts[p]
	if part == nil {
		part = &partition{}
		s.parts[p] = part
	}
	part.settlement = rows
}

// SeedRows injects raw expense rows, bypassing validation, so tests can
// exercise the reader's drop rules through the port.
func (s *Store) SeedRows(p core.Period, rows [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	part := s.parts[p]
	if part == nil {
		part = &partition{settlement: bootstrapSettlement()}
		s.parts[p] = part
	}
	part.rows = append(part.rows, rows...)
}

// bootstrapSettlement seeds the settlement block the way a fresh sheet gets
// it: every member as sender, all cells implicitly zero.
func bootstrapSettlement() []core.RawSettlementRow {
	members := core.Members()
	rows := make([]core.RawSettlementRow, len(members))
	for i, sender := range members {
		rows[i] = core.RawSettlementRow{
			Sender:    string(sender),
			Receivers: make(map[core.Member]float64, len(members)),
		}
		for _, receiver := range members {
			rows[i].Receivers[receiver] = 0
		}
	}
	return rows
}
