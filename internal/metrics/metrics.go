// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seoscope_fetch_attempts_total",
		Help: "Proxy fetch attempts by outcome.",
	}, []string{"outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seoscope_cache_lookups_total",
		Help: "Keyword analysis cache lookups by result.",
	}, []string{"result"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "seoscope_analysis_duration_seconds",
		Help:    "Wall time of a full keyword analysis run.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	AnalysesByStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seoscope_analyses_total",
		Help: "Completed analysis runs by final status.",
	}, []string{"status"})
)
