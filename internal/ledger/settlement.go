package ledger

import (
	"strings"

	"chitieu/internal/core"
)

// The settlement block shares its sheet with the ledger, so reads can pick up
// layout artifacts: the spare header cell Sheets labels "Column 1" and
// auto-named "Unknown..." rows. Neither is a participant.
const (
	placeholderSender = "Column 1"
	unknownPrefix     = "Unknown"
)

// NormalizeSettlement cleans the externally aggregated matrix: rows with an
// empty, placeholder, or unknown-prefixed sender are dropped whole, and
// non-positive receiver cells are dropped from the rows that survive. No
// arithmetic happens here; the matrix is display input, never derived state.
func NormalizeSettlement(rows []core.RawSettlementRow) []core.RawSettlementRow {
	var out []core.RawSettlementRow
	for _, row := range rows {
		sender := strings.TrimSpace(row.Sender)
		if sender == "" || sender == placeholderSender || strings.HasPrefix(sender, unknownPrefix) {
			continue
		}
		clean := core.RawSettlementRow{
			Sender:    sender,
			Receivers: make(map[core.Member]float64, len(row.Receivers)),
		}
		for receiver, amount := range row.Receivers {
			if amount > 0 {
				clean.Receivers[receiver] = amount
			}
		}
		out = append(out, clean)
	}
	return out
}
