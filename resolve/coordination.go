// resolve/coordination.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package resolve

import (
	"github.com/airsep/airsep/math"
)

// HorizontalCoordination returns the horizontal sense, +1 or -1, that
// both aircraft of a pair compute identically from their own relative
// state s and relative velocity v: swapping the aircraft negates both
// vectors and leaves the determinant unchanged. Maneuvers in that sense
// increase the horizontal miss distance.
func HorizontalCoordination(s, v math.Vect3) int {
	return math.SignNonZero(s.Horizontal().Det(v.Horizontal()))
}

// VerticalCoordination returns +1 (climb) when the ownship is above the
// intruder and -1 (descend) when below. At equal altitude the aircraft
// with the smaller ID climbs.
func VerticalCoordination(sz float64, ownID, trafficID string) int {
	if sz > 0 {
		return 1
	} else if sz < 0 {
		return -1
	}
	if ownID < trafficID {
		return 1
	}
	return -1
}

// horizontalSense is the sign of det(s_h, vo'_h - vo_h), or 0 when the
// change is parallel to s or absent.
func horizontalSense(s, vo, candidate math.Vect3) int {
	d := s.Horizontal().Det(candidate.Horizontal().Sub(vo.Horizontal()))
	if math.AlmostZero(d) {
		return 0
	}
	return int(math.Sign(d))
}

// senseAllowed reports whether a candidate with the given sense may be
// used under coordination epsilon eps. eps 0 allows anything, as does a
// candidate without a definite sense.
func senseAllowed(sense, eps int) bool {
	return eps == 0 || sense == 0 || sense == eps
}
