package preview

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestLinesDropsEmptyLinesOnly(t *testing.T) {
	got, total := Lines("date,name,amt\r\n\r\n2024-01-01,Rent,10000\n\n \n2024-01-05,\"Coffee, large\",150\n", 0)
	want := []string{"date,name,amt", "2024-01-01,Rent,10000", " ", "2024-01-05,\"Coffee, large\",150"}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadTruncatesAtLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&b, "row-%d\n", i)
	}
	res, err := Read("big.csv", strings.NewReader(b.String()), DefaultLimit)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(res.Lines) != 200 || res.Total != 250 || !res.Truncated {
		t.Errorf("got lines=%d total=%d truncated=%v", len(res.Lines), res.Total, res.Truncated)
	}
	if res.Lines[199] != "row-199" {
		t.Errorf("last line = %q", res.Lines[199])
	}
}

func TestReadReportsCutAtMaxUpload(t *testing.T) {
	row := strings.Repeat("x", 99) + "\n"
	body := strings.Repeat(row, MaxUpload/len(row)+10)
	res, err := Read("huge.csv", strings.NewReader(body), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !res.Cut || !res.Truncated {
		t.Errorf("cut=%v truncated=%v, want both true", res.Cut, res.Truncated)
	}
	if want := MaxUpload / len(row); res.Total != want {
		t.Errorf("total = %d, want %d whole lines", res.Total, want)
	}

	exact := strings.Repeat("y", MaxUpload)
	res, err = Read("exact.csv", strings.NewReader(exact), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if res.Cut || res.Total != 1 {
		t.Errorf("file of exactly MaxUpload bytes: cut=%v total=%d", res.Cut, res.Total)
	}
}

func TestReadNoFile(t *testing.T) {
	if _, err := Read("", nil, 10); !errors.Is(err, ErrNoFile) {
		t.Errorf("Read(nil) error = %v, want ErrNoFile", err)
	}
}
