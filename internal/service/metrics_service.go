package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/employee-admin-client/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation of the client.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	notifications   *prometheus.CounterVec
}

// NewMetricsService registers the client collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_requests_total",
		Help: "Total number of GraphQL operations by outcome",
	}, []string{"operation", "outcome"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphql_request_duration_seconds",
		Help:    "Duration of GraphQL operations in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Total notifications shown by severity",
	}, []string{"severity"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestTotal, requestDuration, notifications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		notifications:   notifications,
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

// ObserveOperation records one GraphQL round trip.
func (m *MetricsService) ObserveOperation(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(operation, outcome).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveNotification counts a shown notification.
func (m *MetricsService) ObserveNotification(severity models.Severity) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(string(severity)).Inc()
}
