package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"chitieu/internal/core"
	"chitieu/internal/ledger"
	"chitieu/internal/query"
)

const substrateTimeout = 7 * time.Second

type errorResponse struct {
	Error string `json:"error"`
}

type createResponse struct {
	Success bool   `json:"success"`
	Sheet   string `json:"sheet"`
}

// expensePayload is the wire form of a new expense. Split flags arrive keyed
// by member name; unknown names are ignored at this boundary.
type expensePayload struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Payer       string          `json:"payer"`
	Amount      float64         `json:"amount"`
	SplitBy     map[string]bool `json:"splitBy"`
}

type createRequest struct {
	Action  string         `json:"action"`
	Payload expensePayload `json:"payload"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// periodParam resolves the month query parameter, defaulting to the current
// month when absent.
func periodParam(r *http.Request) (core.Period, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return core.CurrentPeriod(), nil
	}
	return core.ParsePeriod(raw)
}

// loadPartition fetches a period's snapshot through the cache.
func (s *Server) loadPartition(ctx context.Context, p core.Period) (core.Partition, error) {
	if part, ok := s.partitionCache.Get(string(p)); ok {
		return part, nil
	}

	ctx, cancel := context.WithTimeout(ctx, substrateTimeout)
	defer cancel()

	part, err := s.reader.ReadPartition(ctx, p)
	if err != nil {
		return core.Partition{}, err
	}
	s.partitionCache.Set(string(p), part)
	return part, nil
}

// handleData serves the full month snapshot: raw expense list, cleaned
// settlement matrix and the partition name, in one payload.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, err := periodParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	part, err := s.loadPartition(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read partition", "period", p, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read month data")
		return
	}

	part.Settlement = ledger.NormalizeSettlement(part.Settlement)
	if part.Expenses == nil {
		part.Expenses = []core.ExpenseRecord{}
	}
	if part.Settlement == nil {
		part.Settlement = []core.RawSettlementRow{}
	}
	writeJSON(w, http.StatusOK, part)
}

// handleExpenses serves the filtered, sorted expense list on GET and appends
// a new expense on POST.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	p, err := periodParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	part, err := s.loadPartition(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read partition", "period", p, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read month data")
		return
	}

	params := query.ExpenseParams{
		Search: r.URL.Query().Get("q"),
		Order:  query.ParseDirection(r.URL.Query().Get("sort")),
	}
	out := query.Expenses(part.Expenses, params)
	if out == nil {
		out = []core.ExpenseRecord{}
	}
	writeJSON(w, http.StatusOK, struct {
		SheetName string               `json:"sheetName"`
		Expenses  []core.ExpenseRecord `json:"expenses"`
		Error     string               `json:"error,omitempty"`
	}{SheetName: part.SheetName, Expenses: out, Error: part.Err})
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Action != "create" {
		writeError(w, http.StatusBadRequest, "unsupported action")
		return
	}

	splitBy := make(map[core.Member]bool, len(req.Payload.SplitBy))
	for name, on := range req.Payload.SplitBy {
		if m, ok := core.ParseMember(name); ok {
			splitBy[m] = on
		}
	}
	expense := core.NewExpense(
		req.Payload.Date,
		req.Payload.Description,
		core.Member(req.Payload.Payer),
		req.Payload.Amount,
		splitBy,
	)
	if err := expense.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), substrateTimeout)
	defer cancel()
	sheet, err := s.appender.Append(ctx, expense)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to append expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	p, err := core.PeriodOfDate(expense.Date)
	if err == nil {
		s.partitionCache.Delete(string(p))
	}
	slog.InfoContext(r.Context(), "Expense created",
		"sheet", sheet,
		"payer", expense.Payer,
		"amount", expense.Amount,
		"participants", expense.Participants)
	writeJSON(w, http.StatusOK, createResponse{Success: true, Sheet: sheet})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyDate) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrUnknownPayer) ||
		errors.Is(err, core.ErrInvalidAmount)
}

// handleSettlements serves the flattened, filtered, column-sorted settlement
// list.
func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, err := periodParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	part, err := s.loadPartition(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read partition", "period", p, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read month data")
		return
	}

	entries := query.Flatten(ledger.NormalizeSettlement(part.Settlement))
	params := query.SettlementParams{
		Search: r.URL.Query().Get("q"),
		Sort: query.SettlementSort{
			Column: query.ParseColumn(r.URL.Query().Get("sort")),
			Order:  query.ParseDirection(r.URL.Query().Get("dir")),
		},
	}
	out := query.Settlements(entries, params)
	if out == nil {
		out = []core.SettlementEntry{}
	}
	writeJSON(w, http.StatusOK, struct {
		SheetName   string                 `json:"sheetName"`
		Settlements []core.SettlementEntry `json:"settlements"`
		Error       string                 `json:"error,omitempty"`
	}{SheetName: part.SheetName, Settlements: out, Error: part.Err})
}
