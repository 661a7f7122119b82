package metrics

import (
	"math"
	"net/http"
	"time"

	"github.com/STTM-NSU/holdings/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for fetch cycles and the cache.
// It owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal    *prometheus.CounterVec // labels: result
	FetchDuration  prometheus.Histogram
	CacheTotal     *prometheus.CounterVec // labels: result
	Holdings       prometheus.Gauge
	CurrentValue   prometheus.Gauge
	TotalPnL       prometheus.Gauge
	CyclesInFlight prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holdings_fetch_cycles_total",
			Help: "Completed fetch cycles by outcome",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "holdings_fetch_duration_seconds",
			Help:    "Remote holdings fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		CacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holdings_cache_operations_total",
			Help: "Cache reads and writes by outcome",
		}, []string{"result"}),
		Holdings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holdings_positions",
			Help: "Number of holdings in the last adopted portfolio",
		}),
		CurrentValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holdings_current_value",
			Help: "Current value of the last adopted portfolio",
		}),
		TotalPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holdings_total_pnl",
			Help: "Total profit and loss of the last adopted portfolio",
		}),
		CyclesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holdings_fetch_cycles_in_flight",
			Help: "Fetch cycles started but not finished",
		}),
	}

	m.registry.MustRegister(
		m.CyclesTotal,
		m.FetchDuration,
		m.CacheTotal,
		m.Holdings,
		m.CurrentValue,
		m.TotalPnL,
		m.CyclesInFlight,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCache(result string) {
	m.CacheTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) CycleStarted() {
	m.CyclesInFlight.Inc()
}

// CycleFinished records the outcome; result is "success" or an error kind.
func (m *Metrics) CycleFinished(result string, fetchDuration time.Duration) {
	m.CyclesInFlight.Dec()
	m.CyclesTotal.WithLabelValues(result).Inc()
	m.FetchDuration.Observe(fetchDuration.Seconds())
}

func (m *Metrics) ObservePortfolio(s model.Summary) {
	m.Holdings.Set(float64(s.Holdings))
	m.CurrentValue.Set(finiteOrZero(s.CurrentValue))
	m.TotalPnL.Set(finiteOrZero(s.TotalPnL))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
