// Package metrics exposes Prometheus instruments for category resolution
// and the HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Veraticus/spendwise/internal/model"
)

const namespace = "spendwise"

// Metrics groups the collectors the application records into.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	resolutions     *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	suggestions     *prometheus.CounterVec
	expenseWrites   *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "category_resolutions_total",
				Help:      "Category resolutions by the fallback tier that produced the result",
			},
			[]string{"path"},
		),
		resolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "category_resolution_duration_seconds",
				Help:      "Time spent resolving a category for one note",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
			},
		),
		suggestions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "category_suggestions_total",
				Help:      "Suggestion requests by the source that answered",
			},
			[]string{"source"},
		),
		expenseWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expense_writes_total",
				Help:      "Expense writes by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
	}

	reg.MustRegister(m.resolutions, m.resolveDuration, m.suggestions, m.expenseWrites, m.httpRequests)
	return m
}

// ObserveResolution records one resolution and how long it took.
func (m *Metrics) ObserveResolution(path model.ResolutionPath, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(string(path)).Inc()
	m.resolveDuration.Observe(elapsed.Seconds())
}

// ObserveSuggestion records which source answered a suggestion request.
func (m *Metrics) ObserveSuggestion(source string) {
	if m == nil {
		return
	}
	m.suggestions.WithLabelValues(source).Inc()
}

// ObserveExpenseWrite records an expense create, update or delete.
func (m *Metrics) ObserveExpenseWrite(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.expenseWrites.WithLabelValues(operation, outcome).Inc()
}

// ObserveHTTPRequest records a served request.
func (m *Metrics) ObserveHTTPRequest(route, method, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, code).Inc()
}
