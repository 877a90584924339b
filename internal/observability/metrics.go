package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the service. Admission rejections and quota
// exhaustions are expected, frequent outcomes and are counted here rather
// than logged as errors.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "waypoint",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	AdmissionRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "admission",
		Name:      "rejected_total",
		Help:      "Requests rejected by the per-client admission controller.",
	})

	QuotaExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "quota",
		Name:      "exhausted_total",
		Help:      "Outbound reservations refused because a category pool was empty.",
	}, []string{"category"})

	ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Outbound mapping provider calls by category and outcome.",
	}, []string{"category", "outcome"})

	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "llm",
		Name:      "requests_total",
		Help:      "LLM completion calls by outcome.",
	}, []string{"outcome"})
)
