package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"chitieu/internal/core"
	"chitieu/internal/ledger"
	ports "chitieu/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads and appends month partitions stored as sheets named
// "<prefix><MM>" inside one spreadsheet. The expense block occupies A:J, the
// settlement block L1:P5.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetPrefix   string
}

// Ensure interface conformance
var (
	_ ports.PartitionReader = (*Client)(nil)
	_ ports.ExpenseAppender = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_PREFIX (default "T"), plus service account
// credentials via GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	prefix := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_PREFIX"))
	if prefix == "" {
		prefix = "T"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetPrefix:   prefix,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) sheetName(p core.Period) string {
	return c.sheetPrefix + string(p)
}

// ReadPartition implements ports.PartitionReader. A missing sheet comes back
// as an empty snapshot with the Err marker, not a transport error.
func (c *Client) ReadPartition(ctx context.Context, p core.Period) (core.Partition, error) {
	if c.svc == nil {
		return core.Partition{}, errors.New("sheets service not initialized")
	}
	title := c.sheetName(p)

	exists, err := c.sheetExists(ctx, title)
	if err != nil {
		return core.Partition{}, fmt.Errorf("lookup sheet %s: %w", title, err)
	}
	if !exists {
		return core.Partition{SheetName: title, Err: "Sheet not found"}, nil
	}

	expResp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, fmt.Sprintf("%s!%s", title, expenseRange)).Context(ctx).Do()
	if err != nil {
		return core.Partition{}, fmt.Errorf("read %s expenses: %w", title, err)
	}
	setResp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, fmt.Sprintf("%s!%s", title, settlementRange)).Context(ctx).Do()
	if err != nil {
		return core.Partition{}, fmt.Errorf("read %s settlement: %w", title, err)
	}

	return core.Partition{
		SheetName:  title,
		Expenses:   ledger.ReadExpenses(expResp.Values, 2),
		Settlement: parseSettlementRows(setResp.Values),
	}, nil
}

// Append implements ports.ExpenseAppender, creating and seeding the month
// sheet on first write.
func (c *Client) Append(ctx context.Context, e core.ExpenseRecord) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	p, err := core.PeriodOfDate(e.Date)
	if err != nil {
		return "", err
	}
	title := c.sheetName(p)

	if err := c.ensureSheet(ctx, title); err != nil {
		return "", fmt.Errorf("ensure sheet %s: %w", title, err)
	}

	row := []any{e.Date, e.Description, string(e.Payer), e.Amount}
	for _, m := range core.Members() {
		row = append(row, e.SplitBy[m])
	}
	row = append(row, e.Participants, e.Share)

	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, fmt.Sprintf("%s!%s", title, expenseRange), vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", title, err)
	}

	slog.InfoContext(ctx, "Expense appended to sheet",
		"sheet", title,
		"description", e.Description,
		"amount", e.Amount,
		"participants", e.Participants)
	return title, nil
}

func (c *Client) sheetExists(ctx context.Context, title string) (bool, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return false, err
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// ensureSheet creates the month sheet with its fixed layout when it does not
// exist yet: header row for the expense block, settlement header at L1 and
// the sender labels below it.
func (c *Client) ensureSheet(ctx context.Context, title string) error {
	exists, err := c.sheetExists(ctx, title)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	seeds := []struct {
		rng    string
		values [][]any
	}{
		{"A1:J1", [][]any{expenseHeader()}},
		{"L1:P1", [][]any{settlementHeader()}},
		{"L2:L5", settlementSenderLabels()},
	}
	for _, seed := range seeds {
		vr := &gsheet.ValueRange{Values: seed.values}
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!%s", title, seed.rng), vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("seed %s: %w", seed.rng, err)
		}
	}

	slog.InfoContext(ctx, "Bootstrapped month sheet", "sheet", title)
	return nil
}
