package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuotesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agency_quotes_generated_total",
			Help: "Total number of quote breakdowns produced by the estimator",
		},
		[]string{"complexity", "classifier", "narrative"},
	)

	EstimatorFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agency_estimator_fallbacks_total",
			Help: "Total number of remote estimator steps replaced by the deterministic path",
		},
		[]string{"stage", "reason"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agency_llm_request_duration_seconds",
			Help:    "Duration of remote text-generation requests in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agency_notifications_total",
			Help: "Total number of notification attempts",
		},
		[]string{"kind", "outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agency_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	QuotesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agency_quotes_expired_total",
			Help: "Total number of quotes marked expired by the expiry job",
		},
	)
)

// Handler exposes the default registry for scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
