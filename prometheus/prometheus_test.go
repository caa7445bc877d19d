package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func useTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	origRegisterer, origGatherer := registerer, gatherer
	registerer, gatherer = reg, reg
	t.Cleanup(func() {
		registerer, gatherer = origRegisterer, origGatherer
	})
	return reg
}

func find(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestCounters(t *testing.T) {
	reg := useTestRegistry(t)
	RegisterCounters(prometheus.CounterOpts{Name: "test_counter_total", Help: "test"})
	// registering twice keeps the first collector
	RegisterCounters(prometheus.CounterOpts{Name: "test_counter_total", Help: "test"})

	CounterInc("test_counter_total")
	CounterInc("test_counter_total")
	CounterInc("unknown_counter")

	family := find(t, reg, "test_counter_total")
	require.NotNil(t, family)
	require.InDelta(t, 2, family.GetMetric()[0].GetCounter().GetValue(), 0)
}

func TestCounterVecs(t *testing.T) {
	reg := useTestRegistry(t)
	RegisterCounterVecs(CounterVecOpts{
		CounterOpts: prometheus.CounterOpts{Name: "test_by_kind_total", Help: "test"},
		Labels:      []string{"kind"},
	})
	CounterVecInc("test_by_kind_total", "timeout")
	CounterVecInc("test_by_kind_total", "timeout")
	CounterVecInc("test_by_kind_total", "connection")

	family := find(t, reg, "test_by_kind_total")
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 2)
}

func TestGaugesAndHistograms(t *testing.T) {
	reg := useTestRegistry(t)
	RegisterGauges(prometheus.GaugeOpts{Name: "test_gauge", Help: "test"})
	RegisterHistograms(prometheus.HistogramOpts{Name: "test_seconds", Help: "test"})

	GaugeSet("test_gauge", 7)
	GaugeInc("test_gauge")
	HistogramObserve("test_seconds", 0.2)
	HistogramObserve("unknown_seconds", 0.2)

	require.InDelta(t, 8, find(t, reg, "test_gauge").GetMetric()[0].GetGauge().GetValue(), 0)
	require.Equal(t, uint64(1), find(t, reg, "test_seconds").GetMetric()[0].GetHistogram().GetSampleCount())

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, Endpoint, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "test_gauge 8")
}

func TestConfigAddress(t *testing.T) {
	require.Equal(t, "localhost:9091", Config{Host: "localhost", Port: 9091}.Address())
}
