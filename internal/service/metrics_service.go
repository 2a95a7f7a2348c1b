package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	eventsEmitted   *prometheus.CounterVec
	eventsLost      prometheus.Counter
	pollRuns        prometheus.Counter
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	eventsEmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_events_total",
		Help: "Total notification events handed to the dispatcher",
	}, []string{"type"})

	eventsLost := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_events_lost_total",
		Help: "Notification events dropped after exhausting delivery retries",
	})

	pollRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_poll_runs_total",
		Help: "Executions of the unread-count refresh poller",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, eventsEmitted, eventsLost, pollRuns, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		eventsEmitted:   eventsEmitted,
		eventsLost:      eventsLost,
		pollRuns:        pollRuns,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// ObserveEventEmitted counts an event handed to the dispatcher.
func (m *MetricsService) ObserveEventEmitted(eventType string) {
	if m == nil {
		return
	}
	m.eventsEmitted.WithLabelValues(eventType).Inc()
}

// ObserveEventLost counts an event dropped after retries.
func (m *MetricsService) ObserveEventLost() {
	if m == nil {
		return
	}
	m.eventsLost.Inc()
}

// ObservePollRun counts one poller execution.
func (m *MetricsService) ObservePollRun() {
	if m == nil {
		return
	}
	m.pollRuns.Inc()
}
