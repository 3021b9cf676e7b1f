// detect/geometry.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package detect

import (
	"github.com/airsep/airsep/math"
)

// Aircraft is a kinematic state in the local east/north/up frame, in
// internal units.
type Aircraft struct {
	Position math.Vect3
	Velocity math.Vect3
}

// Geometry is the relative state of an ownship/intruder pair: S is the
// ownship position minus the intruder's. It is derived fresh each cycle.
type Geometry struct {
	S  math.Vect3
	Vo math.Vect3
	Vi math.Vect3
}

// NewGeometry computes the relative geometry of own with respect to
// intruder.
func NewGeometry(own, intruder Aircraft) Geometry {
	return Geometry{
		S:  own.Position.Sub(intruder.Position),
		Vo: own.Velocity,
		Vi: intruder.Velocity,
	}
}

// V returns the relative velocity vo - vi.
func (g Geometry) V() math.Vect3 {
	return g.Vo.Sub(g.Vi)
}

// WithOwnshipVelocity returns g with the ownship velocity replaced; the
// relative position is unchanged.
func (g Geometry) WithOwnshipVelocity(vo math.Vect3) Geometry {
	g.Vo = vo
	return g
}

// Reverse returns the geometry as seen from the intruder.
func (g Geometry) Reverse() Geometry {
	return Geometry{S: g.S.Neg(), Vo: g.Vi, Vi: g.Vo}
}

// At returns the relative position after t seconds.
func (g Geometry) At(t float64) math.Vect3 {
	return g.S.Linear(g.V(), t)
}

// RangeRate is the rate of change of the 3-D range times the range;
// it's negative when the aircraft are closing.
func (g Geometry) RangeRate() float64 {
	return g.S.Dot(g.V())
}

// HorizontalTCPA returns the time of horizontal closest approach, which
// may be negative; it's 0 when the horizontal relative velocity is zero.
func (g Geometry) HorizontalTCPA() float64 {
	v := g.V().Horizontal()
	if v.IsZero() {
		return 0
	}
	return -g.S.Horizontal().Dot(v) / v.Sqv()
}
