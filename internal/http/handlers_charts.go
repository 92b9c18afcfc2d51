package http

import (
	"errors"
	"net/http"
	"strings"

	"finbuddy/internal/charts"
	applog "finbuddy/internal/log"
)

// handleChart serves /charts/{date|category}.{png|svg} for the current ledger.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ext, ok := strings.Cut(r.PathValue("file"), ".")
	if !ok {
		http.NotFound(w, r)
		return
	}
	kind := charts.Kind(name)
	if kind != charts.ByDate && kind != charts.ByCategory {
		http.NotFound(w, r)
		return
	}
	format, err := charts.ParseFormat(ext)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	img, err := s.charts.Render(s.ledger.Snapshot(), kind, format)
	if errors.Is(err, charts.ErrNoData) {
		http.Error(w, "no expenses to chart", http.StatusNotFound)
		return
	}
	if err != nil {
		s.slog.LogError(r.Context(), "Chart render failed", err, applog.ComponentCharts, "render", nil)
		http.Error(w, "chart rendering failed", http.StatusInternalServerError)
		return
	}
	s.metrics.ChartRendered(string(kind), string(format))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(img)
}
