package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	nodes         prometheus.Histogram
	depth         prometheus.Histogram
	locates       *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trapmap_builds_total",
			Help: "Structures built by the viewer, by result.",
		}, []string{"result"}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "trapmap_build_duration_seconds",
			Help:    "Time to insert every segment of a scene.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		nodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "trapmap_search_nodes",
			Help:    "Distinct search graph nodes per built structure.",
			Buckets: prometheus.ExponentialBuckets(4, 2, 12),
		}),
		depth: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "trapmap_search_depth",
			Help:    "Longest root to leaf path per built structure.",
			Buckets: prometheus.LinearBuckets(2, 4, 12),
		}),
		locates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trapmap_locate_total",
			Help: "Point location queries, by result.",
		}, []string{"result"}),
	}
}
