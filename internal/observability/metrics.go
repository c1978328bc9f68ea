package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	httpRequestsTotal       *prometheus.CounterVec
	httpLatencySeconds      *prometheus.HistogramVec
	httpErrorsTotal         *prometheus.CounterVec
	navigationsTotal        *prometheus.CounterVec
	notificationsAddedTotal *prometheus.CounterVec
	notificationsReadTotal  prometheus.Counter
	workspacesActive        prometheus.Gauge
	sseClientsActive        prometheus.Gauge
	loginAttemptsTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the shell API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shell_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shell_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shell_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		navigationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shell_navigations_total",
			Help: "Navigate calls by outcome.",
		}, []string{"outcome"})

		notificationsAddedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shell_notifications_added_total",
			Help: "Notifications added by category.",
		}, []string{"category"})

		notificationsReadTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shell_notifications_read_total",
			Help: "Notifications transitioned from unread to read.",
		})

		workspacesActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shell_workspaces_active",
			Help: "Client workspaces currently held in memory.",
		})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shell_notification_stream_clients",
			Help: "Open notification streams.",
		})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shell_login_attempts_total",
			Help: "Mock login attempts by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			navigationsTotal,
			notificationsAddedTotal,
			notificationsReadTotal,
			workspacesActive,
			sseClientsActive,
			loginAttemptsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// NavigationsTotal exposes the navigation outcome counter.
func NavigationsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return navigationsTotal
}

// NotificationsAddedTotal exposes the per-category addition counter.
func NotificationsAddedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsAddedTotal
}

// NotificationsReadTotal exposes the read transition counter.
func NotificationsReadTotal() prometheus.Counter {
	RegisterMetrics()
	return notificationsReadTotal
}

// WorkspacesActive exposes the live workspace gauge.
func WorkspacesActive() prometheus.Gauge {
	RegisterMetrics()
	return workspacesActive
}

// SSEClientsActive exposes the open stream gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}

// LoginAttempts exposes the login result counter.
func LoginAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return loginAttemptsTotal
}
