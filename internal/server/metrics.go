package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simplex_solves_total",
		Help: "Solve jobs finished, by terminal status.",
	}, []string{"status"})

	solvePivots = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simplex_solve_pivots",
		Help:    "Number of pivots per completed solve.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)
