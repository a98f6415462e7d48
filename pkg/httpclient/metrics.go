package httpclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketclient_requests_total",
			Help: "Total number of outgoing marketplace API requests",
		},
		[]string{"method", "status"},
	)

	clientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketclient_request_duration_seconds",
			Help:    "Outgoing marketplace API request duration in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func observeRequest(method, status string, start time.Time) {
	clientRequestsTotal.WithLabelValues(method, status).Inc()
	clientRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
