package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitedex_http_requests_total",
		Help: "HTTP requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sitedex_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitedex_imports_total",
		Help: "URL imports reaching the pipeline, by final outcome.",
	}, []string{"outcome"})

	importPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitedex_import_pages_total",
		Help: "Pages encountered during imports, by per-page outcome.",
	}, []string{"outcome"})
)

// MetricsMiddleware records request counts and latency per route
type MetricsMiddleware struct{}

// NewMetricsMiddleware creates a new MetricsMiddleware
func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// Handler wraps an http.Handler with Prometheus instrumentation.
// The matched ServeMux pattern keeps label cardinality bounded;
// unmatched requests all share one label value.
func (m *MetricsMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// countProgressEvent maps one progress event onto the import metrics
func countProgressEvent(event domain.CrawlProgressEvent) {
	switch event.Type {
	case domain.ProgressPageReady:
		importPagesTotal.WithLabelValues("ready").Inc()
	case domain.ProgressPageSkipped:
		importPagesTotal.WithLabelValues("skipped").Inc()
	case domain.ProgressPageError:
		importPagesTotal.WithLabelValues("failed").Inc()
	case domain.ProgressCrawlComplete:
		importsTotal.WithLabelValues("completed").Inc()
	case domain.ProgressCrawlError:
		importsTotal.WithLabelValues("crawl_error").Inc()
	}
}
