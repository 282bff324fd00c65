package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequests counts calls to the analysis backend by operation and outcome.
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logdash_backend_requests_total",
			Help: "Total number of requests sent to the backend",
		},
		[]string{"op", "status"},
	)
	// BackendLatency is the latency of backend requests.
	BackendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logdash_backend_request_duration_seconds",
			Help:    "Backend request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	// HTTPRequests counts requests served by the dashboard API.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logdash_http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// HTTPLatency is the latency of dashboard API requests.
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logdash_http_request_duration_seconds",
			Help:    "Dashboard HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// StoreEntries is the size of the entry store after the last reload.
	StoreEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "logdash_store_entries",
		Help: "Entries held by the dashboard after the last reload",
	})
	// LiveEntries counts parsed lines from the live tail by level.
	LiveEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logdash_live_entries_total",
			Help: "Lines parsed from tailed files",
		},
		[]string{"level"},
	)
	// LinesSkipped counts lines dropped as parse failures.
	LinesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logdash_lines_skipped_total",
		Help: "Lines that could not be parsed",
	})
	// LiveDropped counts live entries dropped for slow subscribers.
	LiveDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logdash_live_dropped_total",
		Help: "Live entries dropped because a subscriber was full",
	})
)
