package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/spendwise/internal/model"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveResolution(model.PathRemote, 20*time.Millisecond)
	m.ObserveResolution(model.PathLexical, time.Millisecond)
	m.ObserveResolution(model.PathLexical, time.Millisecond)
	m.ObserveSuggestion("lexical")
	m.ObserveExpenseWrite("create", nil)
	m.ObserveExpenseWrite("create", errors.New("boom"))
	m.ObserveHTTPRequest("/api/v1/expenses", "POST", "201")

	assert.InDelta(t, 1, testutil.ToFloat64(m.resolutions.WithLabelValues("remote")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.resolutions.WithLabelValues("lexical")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.suggestions.WithLabelValues("lexical")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.expenseWrites.WithLabelValues("create", "error")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpRequests))

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveResolution(model.PathNone, time.Millisecond)
		m.ObserveSuggestion("remote")
		m.ObserveExpenseWrite("delete", nil)
		m.ObserveHTTPRequest("/", "GET", "200")
	})
}
