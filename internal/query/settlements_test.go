package query

import (
	"reflect"
	"testing"

	"chitieu/internal/core"
)

func settlementFixture() []core.SettlementEntry {
	return Flatten([]core.RawSettlementRow{
		{Sender: "Vũ", Receivers: map[core.Member]float64{core.MemberDuyen: 10000, core.MemberPhi: 50000}},
		{Sender: "Phi", Receivers: map[core.Member]float64{core.MemberVu: 20000}},
	})
}

func TestFlattenStableOrder(t *testing.T) {
	got := settlementFixture()
	want := []core.SettlementEntry{
		{Sender: core.MemberVu, Receiver: core.MemberDuyen, Amount: 10000},
		{Sender: core.MemberVu, Receiver: core.MemberPhi, Amount: 50000},
		{Sender: core.MemberPhi, Receiver: core.MemberVu, Amount: 20000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("flatten: got %+v, want %+v", got, want)
	}
}

func TestFlattenSkipsNonPositiveCells(t *testing.T) {
	got := Flatten([]core.RawSettlementRow{
		{Sender: "Phi", Receivers: map[core.Member]float64{core.MemberVu: 20000, core.MemberDuyen: 0}},
	})
	want := []core.SettlementEntry{{Sender: core.MemberPhi, Receiver: core.MemberVu, Amount: 20000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("flatten: got %+v, want %+v", got, want)
	}
}

func TestSettlementsFilterMatchesEitherParty(t *testing.T) {
	entries := settlementFixture()

	got := Settlements(entries, SettlementParams{Search: "phi"})
	if len(got) != 2 {
		t.Fatalf("filter phi: got %d entries, want 2 (%+v)", len(got), got)
	}
	if got := Settlements(entries, SettlementParams{Search: "nobody"}); len(got) != 0 {
		t.Fatalf("expected empty result")
	}
	if got := Settlements(entries, SettlementParams{Search: "  "}); len(got) != len(entries) {
		t.Fatalf("blank filter dropped entries")
	}
}

func TestSettlementsSortByAmount(t *testing.T) {
	got := Settlements(settlementFixture(), SettlementParams{
		Sort: SettlementSort{Column: ColumnAmount, Order: Ascending},
	})
	for i := 1; i < len(got); i++ {
		if got[i].Amount < got[i-1].Amount {
			t.Fatalf("amounts not non-decreasing: %+v", got)
		}
	}

	got = Settlements(settlementFixture(), SettlementParams{
		Sort: SettlementSort{Column: ColumnAmount, Order: Descending},
	})
	if got[0].Amount != 50000 {
		t.Fatalf("desc: first amount %v", got[0].Amount)
	}
}

func TestSettlementsSortBySender(t *testing.T) {
	got := Settlements(settlementFixture(), SettlementParams{
		Sort: SettlementSort{Column: ColumnSender, Order: Ascending},
	})
	// Phi sorts before Vũ; entries of the same sender keep flatten order.
	want := []core.Member{core.MemberPhi, core.MemberVu, core.MemberVu}
	for i := range want {
		if got[i].Sender != want[i] {
			t.Fatalf("sender order at %d: got %s, want %s", i, got[i].Sender, want[i])
		}
	}
}

func TestSettlementSortToggle(t *testing.T) {
	var s SettlementSort

	s = s.Toggle(ColumnAmount)
	if s.Column != ColumnAmount || s.Order != Ascending {
		t.Fatalf("first click: %+v", s)
	}
	s = s.Toggle(ColumnAmount)
	if s.Column != ColumnAmount || s.Order != Descending {
		t.Fatalf("second click: %+v", s)
	}
	s = s.Toggle(ColumnAmount)
	if s.Column != ColumnNone || s.Order != Unsorted {
		t.Fatalf("third click must clear sorting: %+v", s)
	}

	// Clicking a different column resets to ascending on that column.
	s = SettlementSort{Column: ColumnSender, Order: Descending}
	s = s.Toggle(ColumnReceiver)
	if s.Column != ColumnReceiver || s.Order != Ascending {
		t.Fatalf("column switch: %+v", s)
	}

	// Cleared sort shows the flattening order again.
	got := Settlements(settlementFixture(), SettlementParams{Sort: SettlementSort{}})
	if !reflect.DeepEqual(got, settlementFixture()) {
		t.Fatalf("unsorted view diverged from flatten order: %+v", got)
	}
}

func TestSettlementsPure(t *testing.T) {
	entries := settlementFixture()
	snapshot := make([]core.SettlementEntry, len(entries))
	copy(snapshot, entries)

	_ = Settlements(entries, SettlementParams{Sort: SettlementSort{Column: ColumnAmount, Order: Descending}})
	if !reflect.DeepEqual(entries, snapshot) {
		t.Fatalf("input mutated: %+v", entries)
	}
}
