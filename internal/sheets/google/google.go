package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"finbuddy/internal/ledger"
	ports "finbuddy/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is the tab written when none is configured.
const DefaultSheetName = "Ledger"

// Client mirrors the ledger into one tab of a spreadsheet: expense rows in
// A:D and a budget summary in F1:G3.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.LedgerMirror = (*Client)(nil)

type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// New creates a client authenticated with a service account. Extra options
// are appended after the credentials.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := credentials(ctx, cfg)
	if err != nil {
		return nil, err
	}
	all := append([]goption.ClientOption{
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, opts...)
	svc, err := gsheet.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newClient(svc, cfg), nil
}

// NewWithService wraps an existing service, as built by tests against a fake endpoint.
func NewWithService(svc *gsheet.Service, cfg Config) *Client {
	return newClient(svc, cfg)
}

func newClient(svc *gsheet.Service, cfg Config) *Client {
	name := strings.TrimSpace(cfg.SheetName)
	if name == "" {
		name = DefaultSheetName
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: name}
}

// credentials prefers inline JSON over a file, then GOOGLE_APPLICATION_CREDENTIALS.
func credentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", file)
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

// Mirror clears the rows range and rewrites rows and summary in one batch.
func (c *Client) Mirror(ctx context.Context, snap ledger.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rowsRange := fmt.Sprintf("%s!A1:D", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rowsRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rowsRange, err)
	}

	req := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data: []*gsheet.ValueRange{
			{Range: fmt.Sprintf("%s!A1:D%d", c.sheetName, len(snap.Expenses)+1), Values: Rows(snap)},
			{Range: fmt.Sprintf("%s!F1:G3", c.sheetName), Values: Summary(snap)},
		},
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("write ledger to %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Mirrored ledger to spreadsheet",
		"sheet", c.sheetName,
		"revision", snap.Revision,
		"rows", len(snap.Expenses))
	return nil
}

// Rows renders a header plus one row per expense.
func Rows(snap ledger.Snapshot) [][]any {
	out := make([][]any, 0, len(snap.Expenses)+1)
	out = append(out, []any{"Date", "Name", "Category", "Amount"})
	for _, e := range snap.Expenses {
		out = append(out, []any{e.Date.String(), e.Name, e.Category, e.Amount.String()})
	}
	return out
}

// Summary renders the budget, spent and remaining block.
func Summary(snap ledger.Snapshot) [][]any {
	st := snap.Status()
	return [][]any{
		{"Budget", st.Budget.String()},
		{"Spent", st.Spent.String()},
		{"Remaining", st.Remaining.String()},
	}
}
