package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
)

// Metrics holds the service's Prometheus collectors. Each instance owns
// its registry so that several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// requests counts HTTP requests by method, route and status
	requests *prometheus.CounterVec

	// duration tracks request latency by method and route
	duration *prometheus.HistogramVec

	// conversions counts date conversions by direction
	conversions *prometheus.CounterVec

	// events counts saved-date mutations by operation
	events *prometheus.CounterVec
}

// NewMetrics registers the service collectors, plus gauges reading the
// converter's new-year cache counters.
func NewMetrics(conv *calendar.Converter) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hebcal_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hebcal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"method", "route"}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hebcal_conversions_total",
			Help: "Date conversions by direction",
		}, []string{"direction"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hebcal_events_total",
			Help: "Saved-date mutations by operation",
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.requests,
		m.duration,
		m.conversions,
		m.events,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "hebcal_new_year_cache_hits_total",
			Help: "Rosh Hashanah lookups served from the cache",
		}, func() float64 {
			hits, _ := conv.CacheStats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "hebcal_new_year_cache_misses_total",
			Help: "Rosh Hashanah lookups that ran the molad arithmetic",
		}, func() float64 {
			_, misses := conv.CacheStats()
			return float64(misses)
		}),
	)

	return m
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Conversion directions used as the conversions label.
const (
	toHebrew    = "to_hebrew"
	toGregorian = "to_gregorian"
)
