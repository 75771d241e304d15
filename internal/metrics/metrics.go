// Package metrics registers the Prometheus collectors of the service and the
// HTTP middleware that feeds them.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	ChatIntentsTotal     *prometheus.CounterVec
	GenerationsTotal     *prometheus.CounterVec
	BookmarkFlushesTotal *prometheus.CounterVec
}

// New returns the process-wide metrics, registering them on first use.
//
// Metrics:
//   - studydesk_http_requests_total{route,method,status}
//   - studydesk_http_request_duration_seconds{route,method}
//   - studydesk_chat_intents_total{intent}
//   - studydesk_assignment_generations_total{result}
//   - studydesk_bookmark_flushes_total{result}
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "studydesk_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"route", "method", "status"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "studydesk_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"route", "method"},
			),
			ChatIntentsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "studydesk_chat_intents_total",
					Help: "Total number of chatbot replies by matched intent",
				},
				[]string{"intent"},
			),
			GenerationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "studydesk_assignment_generations_total",
					Help: "Total number of generated assignment documents",
				},
				[]string{"result"},
			),
			BookmarkFlushesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "studydesk_bookmark_flushes_total",
					Help: "Total number of bookmark flush attempts",
				},
				[]string{"result"},
			),
		}
	})

	return globalMetrics
}

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Middleware records every request under its chi route pattern, so that path
// parameters do not explode the label space.
func (m *Metrics) Middleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		h.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
