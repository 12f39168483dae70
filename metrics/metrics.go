// Package metrics exposes Prometheus metrics for the HTTP API and the analyzer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
)

// Collector holds all Prometheus metrics for the application. Each
// collector owns its registry so tests can create as many as they need.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Analyses      *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	PageFetches   *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	BreakerOpen   prometheus.Gauge
	ReportsSaved  prometheus.Counter
	ChatMessages  prometheus.Counter
}

// NewCollector creates a collector with every metric registered under namespace
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses served, by kind",
		}, []string{"kind"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Analyzer cache lookups by cache and result",
		}, []string{"cache", "result"}),
		PageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_fetches_total",
			Help:      "Page fetches by outcome",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_fetch_duration_seconds",
			Help:      "Time spent downloading pages",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15},
		}),
		BreakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_circuit_open",
			Help:      "1 while the page fetch circuit breaker is open",
		}),
		ReportsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_saved_total",
			Help:      "Total number of saved reports",
		}),
		ChatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Questions answered by the assistant",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Analyses,
		c.CacheLookups,
		c.PageFetches,
		c.FetchDuration,
		c.BreakerOpen,
		c.ReportsSaved,
		c.ChatMessages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry all metrics are registered with
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// CacheLookup implements analyzer.Recorder
func (c *Collector) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(cache, result).Inc()
}

// PageFetched implements analyzer.Recorder
func (c *Collector) PageFetched(outcome string, duration time.Duration) {
	c.PageFetches.WithLabelValues(outcome).Inc()
	c.FetchDuration.Observe(duration.Seconds())
}

// BreakerState implements analyzer.Recorder
func (c *Collector) BreakerState(state gobreaker.State) {
	if state == gobreaker.StateOpen {
		c.BreakerOpen.Set(1)
		return
	}
	c.BreakerOpen.Set(0)
}
