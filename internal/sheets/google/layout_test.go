package google

import (
	"testing"

	"chitieu/internal/core"
)

func TestParseSettlementRows(t *testing.T) {
	// L2:P5 as the Sheets API returns it: sender label then the four
	// receiver columns Phi, Trổi, Vũ, Duyên.
	values := [][]any{
		{"Vũ", 0.0, 0.0, 0.0, 10000.0},
		{"Duyên", 5000.0, 0.0, 0.0, 0.0},
		{"Phi", 0.0, 0.0, 20000.0},
		{"Trổi"},
	}
	rows := parseSettlementRows(values)
	if len(rows) != 4 {
		t.Fatalf("rows: got %d, want 4", len(rows))
	}
	if rows[0].Sender != "Vũ" || rows[0].Receivers[core.MemberDuyen] != 10000 {
		t.Fatalf("row 0: %+v", rows[0])
	}
	if rows[1].Receivers[core.MemberPhi] != 5000 {
		t.Fatalf("row 1: %+v", rows[1])
	}
	// Short rows pad missing cells with zero.
	if rows[2].Receivers[core.MemberVu] != 20000 || rows[2].Receivers[core.MemberDuyen] != 0 {
		t.Fatalf("row 2: %+v", rows[2])
	}
	for _, amount := range rows[3].Receivers {
		if amount != 0 {
			t.Fatalf("row 3 must be all zero: %+v", rows[3])
		}
	}
}

func TestExpenseHeaderLayout(t *testing.T) {
	h := expenseHeader()
	if len(h) != 10 {
		t.Fatalf("header width: got %d, want 10", len(h))
	}
	if h[2] != "Người trả" || h[4] != "Vũ" || h[9] != "Tiền mỗi người" {
		t.Fatalf("unexpected header: %v", h)
	}
}

func TestSettlementHeaderLayout(t *testing.T) {
	h := settlementHeader()
	want := []any{"", "Phi", "Trổi", "Vũ", "Duyên"}
	if len(h) != len(want) {
		t.Fatalf("header width: got %d", len(h))
	}
	for i := range want {
		if h[i] != want[i] {
			t.Fatalf("header at %d: got %v, want %v", i, h[i], want[i])
		}
	}
}

func TestValueFloatForms(t *testing.T) {
	cases := []struct {
		row  []any
		want float64
	}{
		{[]any{"x", 12.5}, 12.5},
		{[]any{"x", "12,5"}, 12.5},
		{[]any{"x", "20000"}, 20000},
		{[]any{"x", ""}, 0},
		{[]any{"x", "abc"}, 0},
		{[]any{"x"}, 0},
	}
	for _, tc := range cases {
		if got := valueFloat(tc.row, 1); got != tc.want {
			t.Fatalf("valueFloat(%v): got %v, want %v", tc.row, got, tc.want)
		}
	}
}
