package ledger

import (
	"testing"

	"chitieu/internal/core"
)

func TestReadExpensesEndToEnd(t *testing.T) {
	rows := [][]any{
		{"2024-01-05", "Cafe", "Vũ", 50000.0, true, true, false, false, 2.0, 25000.0},
	}
	got := ReadExpenses(rows, 2)
	if len(got) != 1 {
		t.Fatalf("records: got %d, want 1", len(got))
	}
	e := got[0]
	if e.ID != "row-2" {
		t.Fatalf("id: got %s, want row-2", e.ID)
	}
	if e.Payer != core.MemberVu || e.Amount != 50000 {
		t.Fatalf("unexpected record: %+v", e)
	}
	if e.Participants != 2 || e.Share != 25000 {
		t.Fatalf("derived fields: count=%d share=%v", e.Participants, e.Share)
	}
	if !e.SplitBy[core.MemberVu] || !e.SplitBy[core.MemberDuyen] || e.SplitBy[core.MemberPhi] {
		t.Fatalf("split flags: %v", e.SplitBy)
	}
}

func TestReadExpensesDropsIncompleteRows(t *testing.T) {
	rows := [][]any{
		{"", "Cafe", "Vũ", 50000.0},                   // no date
		{"2024-01-05", "", "Vũ", 50000.0},             // no description
		{"2024-01-05", "Cafe", "", 50000.0},           // no payer
		{"2024-01-05", "Cafe", "Vũ", ""},              // no amount
		{"2024-01-05", "Cafe", "Vũ", 0.0},             // zero amount is falsy
		{"2024-01-05", "Cơm trưa", "Duyên", 120000.0}, // valid
		{},                                            // fully empty padding row
	}
	got := ReadExpenses(rows, 2)
	if len(got) != 1 {
		t.Fatalf("records: got %d, want 1 (%+v)", len(got), got)
	}
	if got[0].Description != "Cơm trưa" {
		t.Fatalf("kept wrong row: %+v", got[0])
	}
	// The ID reflects the storage row, not the position among valid rows.
	if got[0].ID != "row-7" {
		t.Fatalf("id: got %s, want row-7", got[0].ID)
	}
}

func TestReadExpensesPreservesInputOrder(t *testing.T) {
	rows := [][]any{
		{"2024-01-01", "A", "Vũ", 1.0},
		{"2024-01-02", "B", "Phi", 2.0},
		{"2024-01-03", "C", "Trổi", 3.0},
	}
	got := ReadExpenses(rows, 2)
	if len(got) != 3 {
		t.Fatalf("records: got %d, want 3", len(got))
	}
	for i, want := range []string{"A", "B", "C"} {
		if got[i].Description != want {
			t.Fatalf("order at %d: got %s, want %s", i, got[i].Description, want)
		}
	}
}

func TestReadExpensesReadsShareFromShareColumn(t *testing.T) {
	// The stored share deliberately differs from the participant count and
	// from amount/count, so reading any neighbouring column cannot pass.
	rows := [][]any{
		{"2024-01-05", "Taxi", "Phi", 90000.0, false, false, true, true, 3.0, 20000.0},
	}
	got := ReadExpenses(rows, 2)
	if len(got) != 1 {
		t.Fatalf("records: got %d, want 1", len(got))
	}
	if got[0].Participants != 3 {
		t.Fatalf("count: got %d, want 3", got[0].Participants)
	}
	if got[0].Share != 20000 {
		t.Fatalf("share: got %v, want 20000", got[0].Share)
	}
}

func TestReadExpensesDerivesMissingColumns(t *testing.T) {
	// Row without the stored count/share columns: derive them.
	rows := [][]any{
		{"2024-01-05", "Ăn tối", "Phi", 90000.0, "TRUE", "true", "FALSE", false},
	}
	got := ReadExpenses(rows, 2)
	if len(got) != 1 {
		t.Fatalf("records: got %d, want 1", len(got))
	}
	if got[0].Participants != 2 || got[0].Share != 45000 {
		t.Fatalf("derived: count=%d share=%v", got[0].Participants, got[0].Share)
	}
}
