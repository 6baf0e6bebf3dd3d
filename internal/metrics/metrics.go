// Package metrics exposes Prometheus instrumentation for the search index,
// the translation cache and the HTTP layer. A nil *Collector is valid and
// records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Translation cache outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheEmpty = "empty"
	CacheError = "error"
)

// Collector owns a private registry with the service metrics.
type Collector struct {
	registry *prometheus.Registry

	indexBuildDuration *prometheus.HistogramVec
	indexEntries       *prometheus.GaugeVec
	embedErrors        *prometheus.CounterVec
	searches           *prometheus.CounterVec
	translations       *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		indexBuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "impacthub_index_build_duration_seconds",
				Help:    "Duration of full vector index builds by collection",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"collection"},
		),
		indexEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "impacthub_index_entries",
				Help: "Current number of entries in the vector index by collection",
			},
			[]string{"collection"},
		),
		embedErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "impacthub_embedding_errors_total",
				Help: "Embedding provider failures by collection and stage",
			},
			[]string{"collection", "stage"},
		),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "impacthub_searches_total",
				Help: "Search requests by collection and effective mode",
			},
			[]string{"collection", "mode"},
		),
		translations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "impacthub_translation_cache_total",
				Help: "Translation cache lookups by collection and outcome",
			},
			[]string{"collection", "outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "impacthub_http_requests_total",
				Help: "HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "impacthub_http_request_duration_seconds",
				Help:    "HTTP request latency by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	registry.MustRegister(
		c.indexBuildDuration,
		c.indexEntries,
		c.embedErrors,
		c.searches,
		c.translations,
		c.httpRequests,
		c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveIndexBuild records a completed index build.
func (c *Collector) ObserveIndexBuild(collection string, d time.Duration) {
	if c == nil {
		return
	}
	c.indexBuildDuration.WithLabelValues(collection).Observe(d.Seconds())
}

// SetIndexEntries sets the current entry count of an index.
func (c *Collector) SetIndexEntries(collection string, n int) {
	if c == nil {
		return
	}
	c.indexEntries.WithLabelValues(collection).Set(float64(n))
}

// IncEmbedError counts an embedding failure. Stage is "build", "upsert" or "query".
func (c *Collector) IncEmbedError(collection, stage string) {
	if c == nil {
		return
	}
	c.embedErrors.WithLabelValues(collection, stage).Inc()
}

// IncSearch counts a search request served in the given mode.
func (c *Collector) IncSearch(collection, mode string) {
	if c == nil {
		return
	}
	c.searches.WithLabelValues(collection, mode).Inc()
}

// IncTranslation counts a translation cache lookup outcome.
func (c *Collector) IncTranslation(collection, outcome string) {
	if c == nil {
		return
	}
	c.translations.WithLabelValues(collection, outcome).Inc()
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method string, code int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Registry returns the Prometheus registry for HTTP exposure.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
