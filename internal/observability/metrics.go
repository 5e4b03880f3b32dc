package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	apiRequestsTotal    *prometheus.CounterVec
	apiLatencySeconds   *prometheus.HistogramVec
	apiErrorsTotal      *prometheus.CounterVec
	gradesComputedTotal *prometheus.CounterVec
	promotionsTotal     *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scolaris_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scolaris_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scolaris_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		gradesComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scolaris_grades_computed_total",
			Help: "Total number of grade documents computed, by kind.",
		}, []string{"kind"})

		promotionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scolaris_promotions_total",
			Help: "Total number of promotion decisions, by outcome.",
		}, []string{"outcome"})

		notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scolaris_notifications_published_total",
			Help: "Total number of notifications fanned out to guardians, by kind.",
		}, []string{"kind"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			gradesComputedTotal,
			promotionsTotal,
			notificationsTotal,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for served requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// GradesComputedTotal exposes the counter for computed grade documents.
func GradesComputedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return gradesComputedTotal
}

// PromotionsTotal exposes the counter for promotion decisions.
func PromotionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return promotionsTotal
}

// NotificationsPublishedTotal exposes the counter for guardian notifications.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsTotal
}
