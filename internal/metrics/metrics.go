// Package metrics exposes Prometheus collectors for ledger activity,
// HTTP traffic and the background worker.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finbuddy/internal/ledger"
)

const namespace = "finbuddy"

type Metrics struct {
	registry *prometheus.Registry

	ledgerOps      *prometheus.CounterVec
	expenses       prometheus.Gauge
	budget         prometheus.Gauge
	spent          prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	toolRequests   *prometheus.CounterVec
	chartRenders   *prometheus.CounterVec
	eventsProduced *prometheus.CounterVec
	mirrorSyncs    *prometheus.CounterVec
}

var _ ledger.Observer = (*Metrics)(nil)

// New registers every collector on a fresh registry, plus the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ledgerOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Committed ledger mutations by operation",
		}, []string{"operation"}),
		expenses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_expenses",
			Help:      "Number of expenses in the ledger",
		}),
		budget: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_budget",
			Help:      "Current budget in currency units",
		}),
		spent: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_spent",
			Help:      "Sum of all expenses in currency units",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		toolRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_requests_total",
			Help:      "Calculator, preview, chat and auth requests by outcome",
		}, []string{"tool", "status"}),
		chartRenders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_renders_total",
			Help:      "Chart requests by kind and format",
		}, []string{"kind", "format"}),
		eventsProduced: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_events_published_total",
			Help:      "Ledger change events sent to the broker by outcome",
		}, []string{"status"}),
		mirrorSyncs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_syncs_total",
			Help:      "Spreadsheet mirror writes by outcome",
		}, []string{"status"}),
	}
}

// LedgerChanged updates the ledger gauges from the committed snapshot.
func (m *Metrics) LedgerChanged(_ context.Context, ev ledger.Event) {
	st := ev.Snapshot.Status()
	m.ledgerOps.WithLabelValues(string(ev.Op)).Inc()
	m.expenses.Set(float64(len(ev.Snapshot.Expenses)))
	m.budget.Set(st.Budget.Units())
	m.spent.Set(st.Spent.Units())
}

// Observe seeds the gauges from a snapshot taken at startup.
func (m *Metrics) Observe(s ledger.Snapshot) {
	st := s.Status()
	m.expenses.Set(float64(len(s.Expenses)))
	m.budget.Set(st.Budget.Units())
	m.spent.Set(st.Spent.Units())
}

func (m *Metrics) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) Tool(tool string, err error) {
	m.toolRequests.WithLabelValues(tool, outcome(err)).Inc()
}

func (m *Metrics) ChartRendered(kind, format string) {
	m.chartRenders.WithLabelValues(kind, format).Inc()
}

func (m *Metrics) EventPublished(err error) {
	m.eventsProduced.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) MirrorSynced(err error) {
	m.mirrorSyncs.WithLabelValues(outcome(err)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
