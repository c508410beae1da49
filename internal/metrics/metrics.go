package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Collection metrics
	IndicatorsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatmesh_indicators_collected_total",
			Help: "Total number of indicators fetched, by source and status",
		},
		[]string{"source", "status"},
	)

	ActorsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatmesh_actors_collected_total",
			Help: "Total number of actor profiles fetched, by source and status",
		},
		[]string{"source", "status"},
	)

	CollectorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatmesh_collector_failures_total",
			Help: "Total number of collector fetch failures",
		},
		[]string{"source"},
	)

	CollectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "threatmesh_collection_duration_seconds",
			Help:    "Duration of one collection phase across all sources",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Analysis metrics
	DeduplicatedIndicators = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "threatmesh_deduplicated_indicators",
			Help: "Indicator count after deduplication in the latest run",
		},
	)

	CorrelationsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatmesh_correlations_found_total",
			Help: "Total correlations emitted, by correlation type",
		},
		[]string{"type"},
	)

	PivotsFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "threatmesh_pivots_found_total",
			Help: "Total infrastructure pivots emitted",
		},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "threatmesh_analysis_duration_seconds",
			Help:    "Duration of a full analysis run",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	AnalysisErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "threatmesh_analysis_errors_total",
			Help: "Total pipeline-level analysis failures",
		},
	)
)
