// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics provides Prometheus metrics for the portal backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheRequests counts query-layer lookups by result: hit, miss, shared.
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "cache_requests_total",
			Help:      "Query layer lookups by result",
		},
		[]string{"result"},
	)

	// CacheInflight tracks fetches currently running under single-flight.
	CacheInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portal",
			Name:      "cache_inflight_fetches",
			Help:      "Upstream fetches currently in flight",
		},
	)

	// SourceErrors counts failed search sources and settings lookups.
	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "source_errors_total",
			Help:      "Failed upstream lookups by source",
		},
		[]string{"source"},
	)

	// ExportsTotal counts press-release exports by status: ok, failed.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "exports_total",
			Help:      "Press release exports by status",
		},
		[]string{"status"},
	)

	// HTTPRequests counts API requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures API request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portal",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
