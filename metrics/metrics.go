package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	RPCCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rpc_calls_total", Help: "Total procedure calls by result code"},
		[]string{"path", "code"},
	)
	ApplicationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "applications_created_total", Help: "Total volunteer applications submitted"},
	)
	ApplicationsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "applications_cancelled_total", Help: "Total volunteer applications cancelled"},
	)
)

func Register() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, RPCCalls, ApplicationsCreated, ApplicationsCancelled)
}
