// math/core.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Epsilon is the tolerance used by AlmostZero and AlmostEqual. Squared
// speeds in m^2/s^2 are the smallest quantities compared against it.
const Epsilon = 1e-10

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Sign[V constraints.Signed | constraints.Float](v V) V {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

// SignNonZero is like Sign but returns 1 for 0.
func SignNonZero(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func AlmostZero(v float64) bool {
	return Abs(v) < Epsilon
}

func AlmostEqual(a, b float64) bool {
	return AlmostZero(a - b)
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !gomath.IsNaN(v) && !gomath.IsInf(v, 0)
}

// QuadraticRoots returns the real roots r0 <= r1 of a*t^2 + 2*b*t + c = 0.
// The half-linear-coefficient form matches the relative-motion equations
// |s + t v|^2 = D^2, where b = s.v. ok is false when a is (almost) zero or
// the discriminant is negative.
func QuadraticRoots(a, b, c float64) (r0, r1 float64, ok bool) {
	if AlmostZero(a) {
		return 0, 0, false
	}
	disc := b*b - a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := gomath.Sqrt(disc)
	r0, r1 = (-b-sq)/a, (-b+sq)/a
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	return r0, r1, true
}
