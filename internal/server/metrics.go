package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrpatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qrpatch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Pipeline metrics
	extractRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrpatch_extract_requests_total",
			Help: "Total number of extraction requests",
		},
		[]string{"status"},
	)

	replaceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrpatch_replace_requests_total",
			Help: "Total number of replacement requests",
		},
		[]string{"status"},
	)

	extractDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrpatch_extract_duration_seconds",
			Help:    "Extraction duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	replaceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrpatch_replace_duration_seconds",
			Help:    "Replacement duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	markersDetected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrpatch_markers_detected",
			Help:    "Number of markers detected per document",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50},
		},
	)

	// File upload metrics
	uploadSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrpatch_upload_size_bytes",
			Help:    "Size of uploaded files in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024, 50 * 1024 * 1024},
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qrpatch_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrpatch_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"},
	)
)
