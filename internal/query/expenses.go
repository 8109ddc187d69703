package query

import (
	"sort"

	"chitieu/internal/core"
)

// ExpenseParams selects and orders the expense list.
type ExpenseParams struct {
	// Search filters on description, case-insensitive substring.
	Search string
	// Order sorts by description when set; Unsorted shows the most recently
	// appended row first (reverse storage order).
	Order Direction
}

// Expenses applies the filter stage then the sort stage to a ledger view.
// The input slice is left untouched.
func Expenses(records []core.ExpenseRecord, p ExpenseParams) []core.ExpenseRecord {
	out := make([]core.ExpenseRecord, 0, len(records))
	for _, e := range records {
		if matches(p.Search, e.Description) {
			out = append(out, e)
		}
	}

	switch p.Order {
	case Ascending, Descending:
		coll := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			c := coll.CompareString(out[i].Description, out[j].Description)
			if p.Order == Descending {
				return c > 0
			}
			return c < 0
		})
	default:
		// Reader output is chronological by insertion; the default view wants
		// the newest entry on top.
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
