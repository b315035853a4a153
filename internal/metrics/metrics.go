// Package metrics provides Prometheus metrics for the mindtype service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationsTotal tracks classifications by outcome code ("ok" or an error code)
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindtype",
			Subsystem: "engine",
			Name:      "classifications_total",
			Help:      "Total number of classifications by outcome",
		},
		[]string{"outcome"},
	)

	// ClassificationDuration tracks engine time per classification in seconds
	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mindtype",
			Subsystem: "engine",
			Name:      "classification_duration_seconds",
			Help:      "Duration of classifications in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// FinalTypesTotal tracks how often each final type is assigned
	FinalTypesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindtype",
			Subsystem: "engine",
			Name:      "final_types_total",
			Help:      "Total number of results per final type id",
		},
		[]string{"final_type_id"},
	)

	// CatalogReloadsTotal tracks catalog reload attempts by status
	CatalogReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindtype",
			Subsystem: "catalog",
			Name:      "reloads_total",
			Help:      "Total number of catalog reloads by status",
		},
		[]string{"status"},
	)

	// ResultCacheLookups tracks result cache hits and misses
	ResultCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindtype",
			Subsystem: "server",
			Name:      "result_cache_lookups_total",
			Help:      "Result cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// HTTPRequestsTotal tracks inbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindtype",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)
)
