// detect/detector.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package detect predicts losses of separation between an ownship and an
// intruder flying at constant velocity.
//
// Detectors are pure functions of their thresholds and the geometry and
// may be shared freely. A Session wraps one detector with the state
// needed for the compute-then-query protocol of a surveillance cycle.
package detect

import (
	gomath "math"
)

// Detector is a conflict detection model.
type Detector interface {
	// Detect returns the interval within [0, T] during which the pair
	// violates the model's protected volume. The boundary of the volume
	// counts as inside.
	Detect(g Geometry, T float64) Interval
	// LossOfSeparation reports whether the pair is inside the protected
	// volume right now; this is a strict comparison with the distance
	// thresholds.
	LossOfSeparation(g Geometry) bool
	String() string
}

// finish fills in the critical time and distance for a conflict span.
func finish(g Geometry, sp span, tca float64) Interval {
	if sp.empty() || gomath.IsNaN(sp.lo) || gomath.IsNaN(sp.hi) {
		return NoConflict
	}
	tca = min(max(tca, sp.lo), sp.hi)
	return Interval{
		Conflict:               true,
		TimeIn:                 sp.lo,
		TimeOut:                sp.hi,
		CriticalTime:           tca,
		DistanceAtCriticalTime: g.At(tca).Length(),
	}
}
