package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Calls made to the backend API.",
		},
		[]string{"method", "resource", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Backend API call latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)
)

func observe(method, resource, status string, start time.Time) {
	requestsTotal.WithLabelValues(method, resource, status).Inc()
	requestDuration.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
}
