package google

import (
	"strconv"
	"strings"

	"chitieu/internal/core"
)

// Fixed partition layout, shared by bootstrap and reads.
const (
	expenseRange    = "A2:J"
	settlementRange = "L2:P5"
)

// settlementReceiverOrder is the receiver column order of the settlement
// block (M through P). It differs from the registry order; the labels were
// laid out by hand in the first spreadsheet and every later sheet copies it.
var settlementReceiverOrder = []core.Member{
	core.MemberPhi,
	core.MemberTroi,
	core.MemberVu,
	core.MemberDuyen,
}

func expenseHeader() []any {
	header := []any{"Date", "Description", "Người trả", "Total Amount"}
	for _, m := range core.Members() {
		header = append(header, string(m))
	}
	return append(header, "Số người", "Tiền mỗi người")
}

func settlementHeader() []any {
	header := []any{""}
	for _, m := range settlementReceiverOrder {
		header = append(header, string(m))
	}
	return header
}

func settlementSenderLabels() [][]any {
	rows := make([][]any, 0, len(core.Members()))
	for _, m := range core.Members() {
		rows = append(rows, []any{string(m)})
	}
	return rows
}

// parseSettlementRows converts the raw L2:P5 block into sender rows. Cell
// cleaning (placeholders, non-positive amounts) is deliberately left to the
// normalizer; this only maps columns to receivers.
func parseSettlementRows(values [][]any) []core.RawSettlementRow {
	var out []core.RawSettlementRow
	for _, row := range values {
		r := core.RawSettlementRow{
			Sender:    valueString(row, 0),
			Receivers: make(map[core.Member]float64, len(settlementReceiverOrder)),
		}
		for i, receiver := range settlementReceiverOrder {
			r.Receivers[receiver] = valueFloat(row, i+1)
		}
		out = append(out, r)
	}
	return out
}

func valueString(row []any, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func valueFloat(row []any, idx int) float64 {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	switch v := row[idx].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
