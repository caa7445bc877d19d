package prometheus

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xinsproject/servicecall/log"
)

const (
	// Endpoint the endpoint for exposing the metrics
	Endpoint = "/metrics"
)

var (
	gauges        map[string]prometheus.Gauge
	gaugesMutex   sync.RWMutex
	counters      map[string]prometheus.Counter
	countersMutex sync.RWMutex
	counterVecs   map[string]*prometheus.CounterVec
	counterVecsMu sync.RWMutex
	histograms    map[string]prometheus.Histogram
	histogramsMu  sync.RWMutex

	registerer prometheus.Registerer = prometheus.DefaultRegisterer
	gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer

	initOnce sync.Once
)

// Init initializes the metrics maps.
func Init() {
	initOnce.Do(func() {
		gauges = make(map[string]prometheus.Gauge)
		counters = make(map[string]prometheus.Counter)
		counterVecs = make(map[string]*prometheus.CounterVec)
		histograms = make(map[string]prometheus.Histogram)
	})
}

// Handler returns the http handler serving the gathered metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register tolerates a collector registered twice under the same name and returns
// the one already registered in that case
func register(c prometheus.Collector) prometheus.Collector {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		log.Errorf("failed to register prometheus collector: %v", err)
	}
	return c
}

// RegisterGauges registers the provided gauge metrics to the Prometheus registerer.
func RegisterGauges(opts ...prometheus.GaugeOpts) {
	Init()
	gaugesMutex.Lock()
	defer gaugesMutex.Unlock()

	for _, options := range opts {
		gauges[options.Name] = register(prometheus.NewGauge(options)).(prometheus.Gauge) //nolint:forcetypeassert
	}
}

// GaugeSet sets the value for gauge with the given name.
func GaugeSet(name string, value float64) {
	if g, ok := gauge(name); ok {
		g.Set(value)
	}
}

// GaugeInc increments the gauge with the given name.
func GaugeInc(name string) {
	if g, ok := gauge(name); ok {
		g.Inc()
	}
}

func gauge(name string) (prometheus.Gauge, bool) {
	gaugesMutex.RLock()
	defer gaugesMutex.RUnlock()

	g, exist := gauges[name]
	if !exist {
		log.Warnf("gauge %s does not exist", name)
	}
	return g, exist
}

// RegisterCounters registers the provided counter metrics to the Prometheus registerer.
func RegisterCounters(opts ...prometheus.CounterOpts) {
	Init()
	countersMutex.Lock()
	defer countersMutex.Unlock()

	for _, options := range opts {
		counters[options.Name] = register(prometheus.NewCounter(options)).(prometheus.Counter) //nolint:forcetypeassert
	}
}

// CounterInc increments the counter with the given name.
func CounterInc(name string) {
	countersMutex.RLock()
	defer countersMutex.RUnlock()

	c, exist := counters[name]
	if !exist {
		log.Warnf("counter %s does not exist", name)
		return
	}
	c.Inc()
}

// CounterVecOpts holds options for the CounterVec type.
type CounterVecOpts struct {
	prometheus.CounterOpts
	Labels []string
}

// RegisterCounterVecs registers the provided counter vec metrics to the Prometheus registerer.
func RegisterCounterVecs(opts ...CounterVecOpts) {
	Init()
	counterVecsMu.Lock()
	defer counterVecsMu.Unlock()

	for _, options := range opts {
		vec := prometheus.NewCounterVec(options.CounterOpts, options.Labels)
		counterVecs[options.Name] = register(vec).(*prometheus.CounterVec) //nolint:forcetypeassert
	}
}

// CounterVecInc increments the counter vec with the given name and label values.
func CounterVecInc(name string, labelValues ...string) {
	counterVecsMu.RLock()
	defer counterVecsMu.RUnlock()

	vec, exist := counterVecs[name]
	if !exist {
		log.Warnf("counter vec %s does not exist", name)
		return
	}
	vec.WithLabelValues(labelValues...).Inc()
}

// RegisterHistograms registers the provided histogram metrics to the Prometheus registerer.
func RegisterHistograms(opts ...prometheus.HistogramOpts) {
	Init()
	histogramsMu.Lock()
	defer histogramsMu.Unlock()

	for _, options := range opts {
		histograms[options.Name] = register(prometheus.NewHistogram(options)).(prometheus.Histogram) //nolint:forcetypeassert
	}
}

// HistogramObserve records value in the histogram with the given name.
func HistogramObserve(name string, value float64) {
	histogramsMu.RLock()
	defer histogramsMu.RUnlock()

	h, exist := histograms[name]
	if !exist {
		log.Warnf("histogram %s does not exist", name)
		return
	}
	h.Observe(value)
}
