package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce               sync.Once
	apiRequestsTotal           *prometheus.CounterVec
	apiLatencySeconds          *prometheus.HistogramVec
	apiErrorsTotal             *prometheus.CounterVec
	notificationsPublished     *prometheus.CounterVec
	sseClientsActive           prometheus.Gauge
	chatMessagesTotal          *prometheus.CounterVec
	uploadLatencySeconds       prometheus.Histogram
	uploadRejectedTotal        *prometheus.CounterVec
	statusTransitionsTotal     *prometheus.CounterVec
	statusTransitionsForbidden prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_notifications_published_total",
			Help: "Notifications persisted and fanned out, by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portal_sse_clients_active",
			Help: "Currently connected notification stream clients.",
		})

		chatMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_chat_messages_total",
			Help: "Chat messages accepted, by room kind.",
		}, []string{"kind"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_upload_duration_seconds",
			Help:    "Attachment upload duration including storage round trip.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_upload_rejected_total",
			Help: "Attachment uploads rejected before storage, by reason.",
		}, []string{"reason"})

		statusTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_status_transitions_total",
			Help: "Request status transitions applied, by target status.",
		}, []string{"to"})

		statusTransitionsForbidden = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_status_transitions_forbidden_total",
			Help: "Status transitions refused by the lifecycle rules.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			notificationsPublished,
			sseClientsActive,
			chatMessagesTotal,
			uploadLatencySeconds,
			uploadRejectedTotal,
			statusTransitionsTotal,
			statusTransitionsForbidden,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// NotificationsPublishedTotal exposes the notification fan-out counter.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// SSEClientsActive exposes the connected stream clients gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}

// ChatMessagesTotal exposes the chat message counter.
func ChatMessagesTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return chatMessagesTotal
}

// UploadLatency exposes the upload duration histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}

// UploadRejected exposes the rejected-upload counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// StatusTransitions exposes the applied-transition counter.
func StatusTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return statusTransitionsTotal
}

// StatusTransitionsForbidden exposes the refused-transition counter.
func StatusTransitionsForbidden() prometheus.Counter {
	RegisterMetrics()
	return statusTransitionsForbidden
}
