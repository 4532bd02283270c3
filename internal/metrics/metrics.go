// Package metrics holds the prometheus collectors for the pantry interpreter
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantry_parse_total",
			Help: "Pantry text parses by committed strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	ClassifyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantry_classify_total",
			Help: "Category classifications by outcome (match, no_match, ambiguous, empty)",
		},
		[]string{"outcome"},
	)

	KeywordIndexLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyword_index_loads_total",
			Help: "Keyword index load attempts by outcome",
		},
		[]string{"outcome"},
	)

	KeywordIndexEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "keyword_index_entries",
			Help: "Number of keyword entries in the current index snapshot",
		},
	)

	KeywordIndexLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "keyword_index_load_duration_seconds",
			Help:    "Time spent fetching keywords from the source",
			Buckets: prometheus.DefBuckets,
		},
	)
)
