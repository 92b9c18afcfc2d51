// Package charts renders the spend-by-date bar chart and the
// spend-by-category pie chart as PNG or SVG.
package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/sync/errgroup"

	"finbuddy/internal/ledger"
)

// ErrNoData is returned when a series has nothing to plot.
var ErrNoData = errors.New("no data to chart")

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

var (
	barColor = drawing.Color{R: 112, G: 199, B: 237, A: 166}

	piePalette = []drawing.Color{
		{R: 0x00, G: 0xC9, B: 0xA7, A: 255},
		{R: 0xFF, G: 0xB3, B: 0x47, A: 255},
		{R: 0xFF, G: 0x6B, B: 0x6B, A: 255},
		{R: 0x4D, G: 0x96, B: 0xFF, A: 255},
		{R: 0x6B, G: 0xCB, B: 0x77, A: 255},
		{R: 0xFF, G: 0xD9, B: 0x3D, A: 255},
	}
)

// Renderer draws charts at a fixed size.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: 800, Height: 400}
}

// DateBar draws one bar per date label.
func (r *Renderer) DateBar(s ledger.Series, f Format) ([]byte, error) {
	if s.Len() == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, s.Len())
	every := labelEvery(r.Width-100, len(bars))
	maxValue := 0.0
	for i, label := range s.Labels {
		v := s.Values[i].Units()
		if v > maxValue {
			maxValue = v
		}
		if i%every != 0 {
			label = ""
		}
		bars[i] = chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	barWidth := (r.Width - 100) / (2 * len(bars))
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}

	graph := chart.BarChart{
		Title:  "Spend by date",
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		BarWidth: barWidth,
		XAxis:    chart.Style{FontSize: 8, TextWrap: chart.TextWrapNone},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(f.provider(), &buf); err != nil {
		return nil, fmt.Errorf("render date chart: %w", err)
	}
	return buf.Bytes(), nil
}

// minLabelWidth is roughly the width of a YYYY-MM-DD label at font size 8.
const minLabelWidth = 50

// labelEvery returns the stride between labelled bars so that date labels
// spread over plotWidth pixels do not overlap.
func labelEvery(plotWidth, bars int) int {
	if bars == 0 {
		return 1
	}
	slot := plotWidth / bars
	if slot >= minLabelWidth {
		return 1
	}
	if slot < 1 {
		slot = 1
	}
	return (minLabelWidth + slot - 1) / slot
}

// CategoryPie draws one slice per category, colors cycling through the palette.
func (r *Renderer) CategoryPie(s ledger.Series, f Format) ([]byte, error) {
	if s.Len() == 0 || s.Total().Cents <= 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, s.Len())
	for i, label := range s.Labels {
		c := piePalette[i%len(piePalette)]
		values[i] = chart.Value{
			Label: label,
			Value: s.Values[i].Units(),
			Style: chart.Style{FillColor: c, StrokeColor: chart.ColorWhite},
		}
	}

	graph := chart.PieChart{
		Title:  "Spend by category",
		Width:  r.Height,
		Height: r.Height,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(f.provider(), &buf); err != nil {
		return nil, fmt.Errorf("render category chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Pair holds both rendered charts for one snapshot.
type Pair struct {
	Date     []byte
	Category []byte
}

// RenderBoth draws the two charts for snap concurrently.
func (r *Renderer) RenderBoth(ctx context.Context, snap ledger.Snapshot, f Format) (Pair, error) {
	var p Pair
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := r.DateBar(snap.GroupByDate(), f)
		if err != nil {
			return err
		}
		p.Date = b
		return ctx.Err()
	})
	g.Go(func() error {
		b, err := r.CategoryPie(snap.GroupByCategory(), f)
		if err != nil {
			return err
		}
		p.Category = b
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Pair{}, err
	}
	return p, nil
}
