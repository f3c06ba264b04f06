package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "todo_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	LevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_level_transitions_total",
		Help: "Level transitions recorded by the leveling engine.",
	})

	AttachmentBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_attachment_bytes_total",
		Help: "Bytes written to the blob store by attachment uploads.",
	})
)
