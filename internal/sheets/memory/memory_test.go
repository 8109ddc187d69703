package memory

import (
	"context"
	"testing"

	"chitieu/internal/core"
)

func TestAppendBootstrapsPartition(t *testing.T) {
	s := New("T")
	e := core.NewExpense("2024-01-05", "Cafe", core.MemberVu, 50000, map[core.Member]bool{
		core.MemberVu:    true,
		core.MemberDuyen: true,
	})
	name, err := s.Append(context.Background(), e)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if name != "T01" {
		t.Fatalf("sheet name: got %s, want T01", name)
	}

	part, err := s.ReadPartition(context.Background(), "01")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if part.Err != "" {
		t.Fatalf("unexpected partition error: %s", part.Err)
	}
	if len(part.Expenses) != 1 {
		t.Fatalf("expenses: got %d, want 1", len(part.Expenses))
	}
	got := part.Expenses[0]
	if got.ID != "row-2" || got.Participants != 2 || got.Share != 25000 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Bootstrap seeds the settlement block: every member as sender, all
	// amounts zero until externally populated.
	if len(part.Settlement) != 4 {
		t.Fatalf("settlement rows: got %d, want 4", len(part.Settlement))
	}
	for _, row := range part.Settlement {
		if _, ok := core.ParseMember(row.Sender); !ok {
			t.Fatalf("non-member sender %q in bootstrap", row.Sender)
		}
		for receiver, amount := range row.Receivers {
			if amount != 0 {
				t.Fatalf("bootstrap cell %s→%s not zero: %v", row.Sender, receiver, amount)
			}
		}
	}
}

func TestReadMissingPartition(t *testing.T) {
	s := New("T")
	part, err := s.ReadPartition(context.Background(), "09")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if part.Err != "Sheet not found" {
		t.Fatalf("err field: got %q", part.Err)
	}
	if len(part.Expenses) != 0 || len(part.Settlement) != 0 {
		t.Fatalf("missing partition must be empty: %+v", part)
	}
	if part.SheetName != "T09" {
		t.Fatalf("sheet name: got %s", part.SheetName)
	}
}

func TestAppendRejectsInvalidRecord(t *testing.T) {
	s := New("T")
	bad := core.NewExpense("2024-01-05", "", core.MemberVu, 100, nil)
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestAppendRoutesByDatePeriod(t *testing.T) {
	s := New("T")
	jan := core.NewExpense("2024-01-05", "Cafe", core.MemberVu, 100, map[core.Member]bool{core.MemberVu: true})
	feb := core.NewExpense("2024-02-10", "Chợ", core.MemberPhi, 200, map[core.Member]bool{core.MemberPhi: true})
	if _, err := s.Append(context.Background(), jan); err != nil {
		t.Fatalf("append jan: %v", err)
	}
	if _, err := s.Append(context.Background(), feb); err != nil {
		t.Fatalf("append feb: %v", err)
	}

	p1, _ := s.ReadPartition(context.Background(), "01")
	p2, _ := s.ReadPartition(context.Background(), "02")
	if len(p1.Expenses) != 1 || len(p2.Expenses) != 1 {
		t.Fatalf("partition routing: jan=%d feb=%d", len(p1.Expenses), len(p2.Expenses))
	}
	if p2.Expenses[0].Description != "Chợ" {
		t.Fatalf("wrong record in feb: %+v", p2.Expenses[0])
	}
}
