package core

import "testing"

func TestNewExpenseDerivesSplit(t *testing.T) {
	e := NewExpense("2024-01-05", "Cafe", MemberVu, 50000, map[Member]bool{
		MemberVu:    true,
		MemberDuyen: true,
	})
	if e.Participants != 2 {
		t.Fatalf("participants: got %d, want 2", e.Participants)
	}
	if e.Share != 25000 {
		t.Fatalf("share: got %v, want 25000", e.Share)
	}
	// Missing flags are filled in as false.
	for _, m := range Members() {
		if _, ok := e.SplitBy[m]; !ok {
			t.Fatalf("split map missing member %s", m)
		}
	}
	if e.SplitBy[MemberPhi] || e.SplitBy[MemberTroi] {
		t.Fatalf("unexpected true flag: %v", e.SplitBy)
	}
}

func TestNewExpenseZeroParticipants(t *testing.T) {
	e := NewExpense("2024-01-05", "Cafe", MemberVu, 50000, nil)
	if e.Participants != 0 {
		t.Fatalf("participants: got %d, want 0", e.Participants)
	}
	if e.Share != 0 {
		t.Fatalf("share: got %v, want 0", e.Share)
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("degenerate split must still validate, got %v", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := NewExpense("2024-01-05", "Cafe", MemberVu, 50000, map[Member]bool{MemberVu: true})
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		e    ExpenseRecord
		want error
	}{
		{"empty date", NewExpense("", "Cafe", MemberVu, 1, nil), ErrEmptyDate},
		{"bad date", NewExpense("05/01/2024", "Cafe", MemberVu, 1, nil), ErrInvalidDate},
		{"empty description", NewExpense("2024-01-05", "  ", MemberVu, 1, nil), ErrEmptyDescription},
		{"unknown payer", NewExpense("2024-01-05", "Cafe", "Ai đó", 1, nil), ErrUnknownPayer},
		{"zero amount", NewExpense("2024-01-05", "Cafe", MemberVu, 0, nil), ErrInvalidAmount},
		{"negative amount", NewExpense("2024-01-05", "Cafe", MemberVu, -10, nil), ErrInvalidAmount},
	}
	for _, tc := range cases {
		if err := tc.e.Validate(); err != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestMembersClosedSet(t *testing.T) {
	got := Members()
	want := []Member{MemberVu, MemberDuyen, MemberPhi, MemberTroi}
	if len(got) != len(want) {
		t.Fatalf("registry size: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("registry order at %d: got %s, want %s", i, got[i], want[i])
		}
	}
	// Mutating the returned slice must not leak into the registry.
	got[0] = "Khác"
	if m := Members(); m[0] != MemberVu {
		t.Fatalf("registry mutated through returned slice")
	}
}

func TestParseMember(t *testing.T) {
	if m, ok := ParseMember("Trổi"); !ok || m != MemberTroi {
		t.Fatalf("ParseMember Trổi: got %q ok=%v", m, ok)
	}
	if _, ok := ParseMember("Column 1"); ok {
		t.Fatalf("placeholder must not resolve to a member")
	}
	if _, ok := ParseMember(""); ok {
		t.Fatalf("empty name must not resolve to a member")
	}
}
