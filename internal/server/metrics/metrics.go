// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload outcomes used as the "result" label of UploadFiles.
const (
	UploadStored       = "stored"
	UploadTooLarge     = "too_large"
	UploadBadType      = "bad_type"
	UploadBadSignature = "bad_signature"
	UploadStoreFailed  = "store_failed"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbannest_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "urbannest_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	UploadFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbannest_upload_files_total",
			Help: "Uploaded image files by outcome",
		},
		[]string{"result"},
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "urbannest_upload_bytes_total",
			Help: "Bytes written to the object store",
		},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbannest_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)
)
