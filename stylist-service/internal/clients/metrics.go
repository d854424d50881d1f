package clients

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindMetadata = "metadata"
	kindImage    = "image"

	statusSuccess       = "success"
	statusError         = "error"
	statusEmptyResponse = "error_empty_response"
	statusTimeout       = "error_timeout"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_ai_requests_total",
			Help: "Total number of requests to generation providers.",
		},
		[]string{"provider", "kind", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylist_ai_request_duration_seconds",
			Help:    "Histogram of generation provider request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "kind"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylist_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts for metadata requests.",
			Buckets: prometheus.LinearBuckets(50, 50, 20), // 50, 100, ..., 1000
		},
		[]string{"model"},
	)
)

func observeRequest(provider, kind string, seconds float64, err error) {
	status := statusSuccess
	switch {
	case err == nil:
	case isTimeout(err):
		status = statusTimeout
	default:
		status = statusError
	}
	aiRequestsTotal.With(prometheus.Labels{"provider": provider, "kind": kind, "status": status}).Inc()
	if err == nil {
		aiRequestDuration.With(prometheus.Labels{"provider": provider, "kind": kind}).Observe(seconds)
	}
}
