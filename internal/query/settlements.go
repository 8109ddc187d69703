package query

import (
	"sort"
	"strings"

	"chitieu/internal/core"
)

// Column identifies a sortable settlement-list column.
type Column int

const (
	ColumnNone Column = iota
	ColumnSender
	ColumnReceiver
	ColumnAmount
)

// ParseColumn maps a query parameter to a column; anything unrecognized
// means no active column.
func ParseColumn(s string) Column {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sender":
		return ColumnSender
	case "receiver":
		return ColumnReceiver
	case "amount":
		return ColumnAmount
	default:
		return ColumnNone
	}
}

// SettlementSort is the active column plus its direction.
type SettlementSort struct {
	Column Column
	Order  Direction
}

// Toggle applies a click on col: a new column starts ascending, a second
// click flips to descending, a third clears sorting entirely.
func (s SettlementSort) Toggle(col Column) SettlementSort {
	if s.Column != col {
		return SettlementSort{Column: col, Order: Ascending}
	}
	next := s.Order.Next()
	if next == Unsorted {
		return SettlementSort{}
	}
	return SettlementSort{Column: col, Order: next}
}

// SettlementParams selects and orders the flattened settlement list.
type SettlementParams struct {
	// Search matches sender or receiver, case-insensitive substring.
	Search string
	Sort   SettlementSort
}

// Flatten turns cleaned settlement rows into one entry per positive cell.
// Iteration is stable: rows in input order, receivers in registry order.
func Flatten(rows []core.RawSettlementRow) []core.SettlementEntry {
	var out []core.SettlementEntry
	for _, row := range rows {
		for _, receiver := range core.Members() {
			amount, ok := row.Receivers[receiver]
			if !ok || amount <= 0 {
				continue
			}
			out = append(out, core.SettlementEntry{
				Sender:   core.Member(row.Sender),
				Receiver: receiver,
				Amount:   amount,
			})
		}
	}
	return out
}

// Settlements applies the filter stage then the column sort to a flattened
// list. The input slice is left untouched; with no active sort the flattening
// order is preserved.
func Settlements(entries []core.SettlementEntry, p SettlementParams) []core.SettlementEntry {
	out := make([]core.SettlementEntry, 0, len(entries))
	for _, e := range entries {
		if matches(p.Search, string(e.Sender), string(e.Receiver)) {
			out = append(out, e)
		}
	}

	if p.Sort.Column == ColumnNone || p.Sort.Order == Unsorted {
		return out
	}

	coll := newCollator()
	less := func(a, b core.SettlementEntry) bool {
		switch p.Sort.Column {
		case ColumnSender:
			return coll.CompareString(string(a.Sender), string(b.Sender)) < 0
		case ColumnReceiver:
			return coll.CompareString(string(a.Receiver), string(b.Receiver)) < 0
		default:
			return a.Amount < b.Amount
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if p.Sort.Order == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
