package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"chitieu/internal/core"
	"chitieu/internal/storage"
)

type fakePublisher struct {
	published []int64
	periods   []core.Period
	err       error
}

func (f *fakePublisher) PublishExpenseSync(_ context.Context, id, _ int64, period core.Period) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	f.periods = append(f.periods, period)
	return nil
}

func newTestService(t *testing.T, pub SyncPublisher) (*ExpenseService, *storage.Repository) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"), "T")
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewExpenseService(repo, pub), repo
}

func TestCreateExpensePublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)

	e := core.NewExpense("2025-07-14", "Ăn tối", core.MemberVu, 50000,
		map[core.Member]bool{core.MemberVu: true, core.MemberPhi: true})
	sheet, err := svc.CreateExpense(context.Background(), e)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sheet != "T07" {
		t.Fatalf("sheet: got %q, want T07", sheet)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published: %v", pub.published)
	}
	if len(pub.periods) != 1 || pub.periods[0] != "07" {
		t.Fatalf("published periods: %v", pub.periods)
	}
}

func TestCreateExpensePublishFailureIsNonFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, repo := newTestService(t, pub)

	e := core.NewExpense("2025-07-14", "Cà phê", core.MemberPhi, 30000,
		map[core.Member]bool{core.MemberPhi: true})
	sheet, err := svc.CreateExpense(context.Background(), e)
	if err != nil {
		t.Fatalf("create must succeed despite publish failure: %v", err)
	}
	if sheet != "T07" {
		t.Fatalf("sheet: got %q", sheet)
	}

	// the row stays pending so the rescan can retry it
	pending, err := repo.GetPendingSync(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending: got %d rows, want 1", len(pending))
	}
}

func TestCreateExpenseNilPublisher(t *testing.T) {
	svc, _ := newTestService(t, nil)

	e := core.NewExpense("2025-02-01", "Đi chợ", core.MemberDuyen, 40000,
		map[core.Member]bool{core.MemberDuyen: true, core.MemberTroi: true})
	sheet, err := svc.CreateExpense(context.Background(), e)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sheet != "T02" {
		t.Fatalf("sheet: got %q", sheet)
	}
}

func TestCreateExpenseRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t, &fakePublisher{})

	e := core.NewExpense("2025-07-14", "", core.MemberVu, 100, nil)
	if _, err := svc.CreateExpense(context.Background(), e); err != core.ErrEmptyDescription {
		t.Fatalf("want ErrEmptyDescription, got %v", err)
	}
}
