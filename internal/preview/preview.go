// Package preview shows the leading lines of an uploaded CSV file without
// interpreting its columns.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// DefaultLimit is the number of lines shown when no limit is configured.
const DefaultLimit = 200

// MaxUpload bounds how much of a file is read.
const MaxUpload = 5 << 20

var ErrNoFile = errors.New("no file selected")

var lineBreak = regexp.MustCompile(`\r?\n`)

// Result is the preview of one file.
type Result struct {
	Name      string
	Lines     []string
	Total     int
	Truncated bool
	// Cut reports that the file exceeded MaxUpload. Total then counts only
	// the lines read before the cut.
	Cut bool
}

// Lines splits text on line breaks, drops empty lines and keeps the first limit.
// A limit below one means DefaultLimit.
func Lines(text string, limit int) ([]string, int) {
	if limit < 1 {
		limit = DefaultLimit
	}
	var out []string
	total := 0
	for _, line := range lineBreak.Split(text, -1) {
		if line == "" {
			continue
		}
		total++
		if len(out) < limit {
			out = append(out, line)
		}
	}
	return out, total
}

// Read previews r. A nil reader is ErrNoFile.
func Read(name string, r io.Reader, limit int) (Result, error) {
	if r == nil {
		return Result{}, ErrNoFile
	}
	b, err := io.ReadAll(io.LimitReader(r, MaxUpload+1))
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", name, err)
	}
	cut := len(b) > MaxUpload
	if cut {
		b = b[:MaxUpload]
		// drop the partial last line
		if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
			b = b[:i]
		}
	}
	lines, total := Lines(string(b), limit)
	return Result{
		Name:      name,
		Lines:     lines,
		Total:     total,
		Truncated: cut || total > len(lines),
		Cut:       cut,
	}, nil
}
