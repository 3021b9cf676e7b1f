// math/heading.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// tracks and directions

// Tracks are measured in radians clockwise from true north.

// NormalizeTrack reduces t to [0,2pi).
func NormalizeTrack(t float64) float64 {
	t = gomath.Mod(t, 2*gomath.Pi)
	if t < 0 {
		t += 2 * gomath.Pi
	}
	if t >= 2*gomath.Pi {
		// Mod of a tiny negative value can round up to 2pi.
		t = 0
	}
	return t
}

// SignedTurn returns the turn from cur to target taking the short way
// around: positive is clockwise (right), negative counter-clockwise.
func SignedTurn(cur, target float64) float64 {
	d := NormalizeTrack(target - cur)
	if d > gomath.Pi {
		d -= 2 * gomath.Pi
	}
	return d
}

///////////////////////////////////////////////////////////////////////////
// velocities

// VelocityTrkGsVs returns the velocity for the given track (radians),
// ground speed and vertical speed.
func VelocityTrkGsVs(trk, gs, vs float64) Vect3 {
	s, c := gomath.Sincos(trk)
	return Vect3{gs * s, gs * c, vs}
}

// Track returns the track of v; 0 when v has no horizontal component.
func Track(v Vect3) float64 {
	if v.Horizontal().IsZero() {
		return 0
	}
	// atan2 normally measures w.r.t. +x and counter-clockwise; passing
	// (x,y) instead gives clockwise from +y.
	return NormalizeTrack(gomath.Atan2(v[0], v[1]))
}

func GroundSpeed(v Vect3) float64 {
	return v.HorizontalDistance()
}

// WithTrack returns v turned to track trk, keeping its ground speed and
// vertical speed.
func WithTrack(v Vect3, trk float64) Vect3 {
	return VelocityTrkGsVs(trk, GroundSpeed(v), v[2])
}

// WithGroundSpeed returns v with ground speed gs along its current track.
func WithGroundSpeed(v Vect3, gs float64) Vect3 {
	return VelocityTrkGsVs(Track(v), gs, v[2])
}

// WithVerticalSpeed returns v with its vertical component replaced;
// the horizontal components are copied directly so that no track needs
// to be recovered.
func WithVerticalSpeed(v Vect3, vs float64) Vect3 {
	return Vect3{v[0], v[1], vs}
}
