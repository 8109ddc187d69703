// Package ledger turns raw partition data from the persistence substrate
// into typed records. It is a read-side cleanliness layer: malformed rows are
// dropped silently, never surfaced as errors, because the substrate performs
// no validation of its own.
package ledger

import (
	"strconv"
	"strings"

	"chitieu/internal/core"
)

// Expense row layout within a partition: date, description, payer, total
// amount, one split flag per member in registry order, participant count,
// per-person share.
const (
	colDate = iota
	colDescription
	colPayer
	colAmount
	colSplitFirst
	colCount = colSplitFirst + 4
	colShare = colCount + 1
)

// ReadExpenses converts the raw ordered expense rows of one partition into
// valid typed records. firstRow is the storage row number of rows[0]; IDs are
// derived from storage position only, so they stay stable across reads even
// when invalid rows are interleaved. Output order matches input order; any
// most-recent-first reversal is a query concern.
func ReadExpenses(rows [][]any, firstRow int) []core.ExpenseRecord {
	var out []core.ExpenseRecord
	for i, row := range rows {
		date := cellString(row, colDate)
		desc := cellString(row, colDescription)
		payer := cellString(row, colPayer)
		amount, hasAmount := cellFloat(row, colAmount)
		// Truthy check on the four key fields: a zero amount is as absent as
		// an empty cell.
		if date == "" || desc == "" || payer == "" || !hasAmount || amount == 0 {
			continue
		}

		split := make(map[core.Member]bool, 4)
		for j, m := range core.Members() {
			split[m] = cellBool(row, colSplitFirst+j)
		}
		e := core.ExpenseRecord{
			ID:          "row-" + strconv.Itoa(firstRow+i),
			Date:        date,
			Description: desc,
			Payer:       core.Member(payer),
			Amount:      amount,
			SplitBy:     split,
		}
		// Prefer the stored derived columns; recompute when a row predates
		// them or holds junk.
		if n, ok := cellInt(row, colCount); ok {
			e.Participants = n
		} else {
			for _, m := range core.Members() {
				if split[m] {
					e.Participants++
				}
			}
		}
		if share, ok := cellFloat(row, colShare); ok {
			e.Share = share
		} else if e.Participants > 0 {
			e.Share = e.Amount / float64(e.Participants)
		}
		out = append(out, e)
	}
	return out
}

func cellString(row []any, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	switch v := row[idx].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func cellFloat(row []any, idx int) (float64, bool) {
	if idx < 0 || idx >= len(row) {
		return 0, false
	}
	switch v := row[idx].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func cellInt(row []any, idx int) (int, bool) {
	f, ok := cellFloat(row, idx)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// cellBool reads a split flag. Sheets hands checkboxes back as booleans but
// older rows carry "TRUE"/"FALSE" strings.
func cellBool(row []any, idx int) bool {
	if idx < 0 || idx >= len(row) {
		return false
	}
	switch v := row[idx].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
