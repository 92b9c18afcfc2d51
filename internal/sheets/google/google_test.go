package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finbuddy/internal/core"
	"finbuddy/internal/ledger"
)

func sampleSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		Budget: core.Money{Cents: 100000},
		Expenses: []core.Expense{
			{Date: core.NewDate(2024, 1, 1), Name: "Rent", Category: "Housing", Amount: core.Money{Cents: 80000}},
			{Date: core.NewDate(2024, 1, 5), Name: "Coffee", Category: "Food", Amount: core.Money{Cents: 45050}},
		},
		Revision: 4,
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("New() error = %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("New() error = %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "id", ServiceAccountFile: "/nonexistent/sa.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("New() error = %v", err)
	}
}

func TestRowsAndSummary(t *testing.T) {
	snap := sampleSnapshot()
	rows := Rows(snap)
	if len(rows) != 3 {
		t.Fatalf("Rows() len = %d, want 3", len(rows))
	}
	if rows[0][0] != "Date" || rows[2][1] != "Coffee" || rows[2][3] != "450.50" {
		t.Errorf("Rows() = %v", rows)
	}
	sum := Summary(snap)
	if sum[1][1] != "1250.50" || sum[2][1] != "-250.50" {
		t.Errorf("Summary() = %v", sum)
	}
}

type recorded struct {
	path string
	body string
}

func TestMirror_ClearsThenWrites(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recorded
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{path: r.URL.Path, body: string(b)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx, goption.WithEndpoint(ts.URL+"/"), goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	c := NewWithService(svc, Config{SpreadsheetID: "sheet-1"})

	if err := c.Mirror(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2: %+v", len(calls), calls)
	}
	if !strings.HasSuffix(calls[0].path, ":clear") || !strings.Contains(calls[0].path, "Ledger!A1:D") {
		t.Errorf("first call = %s, want a clear of Ledger!A1:D", calls[0].path)
	}
	if !strings.HasSuffix(calls[1].path, "values:batchUpdate") {
		t.Errorf("second call = %s, want batchUpdate", calls[1].path)
	}

	var req gsheet.BatchUpdateValuesRequest
	if err := json.Unmarshal([]byte(calls[1].body), &req); err != nil {
		t.Fatalf("decode batch body: %v", err)
	}
	if len(req.Data) != 2 || req.Data[0].Range != "Ledger!A1:D3" || req.Data[1].Range != "Ledger!F1:G3" {
		t.Errorf("batch ranges = %+v", req.Data)
	}
}

func TestMirror_PropagatesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
	}))
	defer ts.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx, goption.WithEndpoint(ts.URL+"/"), goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	err = NewWithService(svc, Config{SpreadsheetID: "x", SheetName: "Tab"}).Mirror(ctx, sampleSnapshot())
	if err == nil || !strings.Contains(err.Error(), "clear Tab!A1:D") {
		t.Fatalf("Mirror() error = %v", err)
	}
}

func TestMirror_NilService(t *testing.T) {
	if err := (&Client{}).Mirror(context.Background(), ledger.Snapshot{}); err == nil {
		t.Fatal("Mirror() without service should fail")
	}
}
