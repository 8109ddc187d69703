package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyDate        = errors.New("empty date")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownPayer     = errors.New("unknown payer")
	ErrInvalidAmount    = errors.New("invalid amount")
)

type (
	// ExpenseRecord is one ledger row with its derived split fields.
	// Amounts are plain đồng values as stored by the substrate; shares can be
	// fractional so no cent arithmetic applies here.
	ExpenseRecord struct {
		ID           string          `json:"id"`
		Date         string          `json:"date"` // ISO YYYY-MM-DD
		Description  string          `json:"description"`
		Payer        Member          `json:"payer"`
		Amount       float64         `json:"amount"`
		SplitBy      map[Member]bool `json:"splitBy"`
		Participants int             `json:"count"`
		Share        float64         `json:"splitAmount"`
	}

	// RawSettlementRow is one sender row of the externally aggregated
	// settlement matrix, exactly as the substrate stores it. Cells may be
	// zero, negative, or belong to placeholder senders; cleaning is the
	// normalizer's job.
	RawSettlementRow struct {
		Sender    string             `json:"sender"`
		Receivers map[Member]float64 `json:"receivers"`
	}

	// SettlementEntry is one positive debt after flattening the cleaned matrix.
	SettlementEntry struct {
		Sender   Member  `json:"sender"`
		Receiver Member  `json:"receiver"`
		Amount   float64 `json:"amount"`
	}

	// Partition is the snapshot of one month's ledger as read from the
	// substrate. Err carries the partition-not-found case; it is data, not a
	// transport failure.
	Partition struct {
		SheetName  string             `json:"sheetName"`
		Expenses   []ExpenseRecord    `json:"expenses"`
		Settlement []RawSettlementRow `json:"settlement"`
		Err        string             `json:"error,omitempty"`
	}
)

// NewExpense builds a fully derived record from raw input: the split map is
// normalized (missing flags become false) and the participant count and
// per-person share are computed. Zero participants is a valid degenerate case
// with a zero share. Pure; no validation happens here.
func NewExpense(date, description string, payer Member, amount float64, splitBy map[Member]bool) ExpenseRecord {
	e := ExpenseRecord{
		Date:        date,
		Description: description,
		Payer:       payer,
		Amount:      amount,
		SplitBy:     NormalizeSplit(splitBy),
	}
	for _, m := range Members() {
		if e.SplitBy[m] {
			e.Participants++
		}
	}
	if e.Participants > 0 {
		e.Share = e.Amount / float64(e.Participants)
	}
	return e
}

// Validate checks the write-path contract: date, description, payer and
// amount must all be present, the payer must be in the registry and the
// amount strictly positive. Read-path row filtering is the ledger reader's
// concern and never reaches this.
func (e ExpenseRecord) Validate() error {
	d := strings.TrimSpace(e.Date)
	if d == "" {
		return ErrEmptyDate
	}
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if _, ok := ParseMember(string(e.Payer)); !ok {
		return ErrUnknownPayer
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
