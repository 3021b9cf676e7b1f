// detect/cylinder.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package detect

import (
	"fmt"
	gomath "math"

	"github.com/airsep/airsep/math"
	"github.com/airsep/airsep/sensitivity"
	"github.com/airsep/airsep/units"
)

// Cylinder is the classic protected-zone model: a cylinder of radius D
// and half-height H centered on the intruder.
type Cylinder struct {
	D float64 // m
	H float64 // m
}

// CylinderFor returns the cylinder given by a sensitivity level's DMOD and
// ZTHR.
func CylinderFor(th sensitivity.Thresholds) Cylinder {
	return Cylinder{D: th.DMOD, H: th.ZTHR}
}

// horizontalSpan returns the times when |s + t v| <= D.
func horizontalSpan(s, v math.Vect2, D float64) span {
	a := v.Sqv()
	if math.AlmostZero(a) {
		// Parallel tracks at the same speed: the horizontal distance
		// never changes.
		if s.Sqv() <= D*D {
			return span{lo: gomath.Inf(-1), hi: gomath.Inf(1)}
		}
		return emptySpan
	}
	r0, r1, ok := math.QuadraticRoots(a, s.Dot(v), s.Sqv()-D*D)
	if !ok {
		return emptySpan
	}
	return span{lo: r0, hi: r1}
}

// verticalSpan returns the times when |sz + t vz| <= H.
func verticalSpan(sz, vz, H float64) span {
	if math.AlmostZero(vz) {
		if math.Abs(sz) <= H {
			return span{lo: gomath.Inf(-1), hi: gomath.Inf(1)}
		}
		return emptySpan
	}
	t0, t1 := (-H-sz)/vz, (H-sz)/vz
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return span{lo: t0, hi: t1}
}

func (c Cylinder) Detect(g Geometry, T float64) Interval {
	if !(T >= 0) {
		return NoConflict
	}
	s, v := g.S, g.V()

	sp := horizontalSpan(s.Horizontal(), v.Horizontal(), c.D).
		intersect(verticalSpan(s[2], v[2], c.H)).
		intersect(span{lo: 0, hi: T})
	if sp.empty() {
		return NoConflict
	}
	return finish(g, sp, c.criticalTime(s, v, sp.lo))
}

// criticalTime minimizes the normalized distance
// |s_h + t v_h|^2/D^2 + (sz + t vz)^2/H^2, under which the cylinder is
// (nearly) a unit sphere.
func (c Cylinder) criticalTime(s, v math.Vect3, fallback float64) float64 {
	if c.D <= 0 || c.H <= 0 {
		return fallback
	}
	d2, h2 := c.D*c.D, c.H*c.H
	sh, vh := s.Horizontal(), v.Horizontal()
	den := vh.Sqv()/d2 + v[2]*v[2]/h2
	if math.AlmostZero(den) {
		return fallback
	}
	return -(sh.Dot(vh)/d2 + s[2]*v[2]/h2) / den
}

func (c Cylinder) LossOfSeparation(g Geometry) bool {
	return g.S.Horizontal().Sqv() < c.D*c.D && math.Abs(g.S[2]) < c.H
}

func (c Cylinder) String() string {
	return fmt.Sprintf("Cylinder{D: %s, H: %s}", units.Format(c.D, "nmi"), units.Format(c.H, "ft"))
}
