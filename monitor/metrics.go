// monitor/metrics.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package monitor

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultClear    = "clear"
	ResultConflict = "conflict"
	ResultLoss     = "loss"
	// ResultFiltered labels conflicts dropped by the session filter time.
	ResultFiltered = "filtered"
)

var (
	detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airsep",
			Name:      "detections_total",
			Help:      "Pair detections evaluated, partitioned by result.",
		},
		[]string{"result"},
	)

	resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airsep",
			Name:      "resolutions_total",
			Help:      "Resolutions computed, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	cycleSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "airsep",
			Name:      "cycle_seconds",
			Help:      "Latency of a monitor update cycle in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	sessionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "airsep",
			Name:      "sessions",
			Help:      "Pair sessions currently cached.",
		},
	)
)

// RegisterMetrics attaches the monitor collectors to the supplied
// Prometheus registerer. Collectors that are already registered are
// skipped.
func RegisterMetrics(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		detectionsTotal,
		resolutionsTotal,
		cycleSeconds,
		sessionsGauge,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func observeCycle(d time.Duration, sessions int) {
	if d < 0 {
		d = 0
	}
	cycleSeconds.Observe(d.Seconds())
	sessionsGauge.Set(float64(sessions))
}
