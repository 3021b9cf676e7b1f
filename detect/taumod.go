// detect/taumod.go
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

// TauMod is the well-clear model based on modified tau. Horizontally the
// pair is in violation inside DTHR, or when the horizontal miss distance
// is within DTHR and modified tau (DTHR^2 - r^2)/(r r') is in [0, TTHR].
// Vertically it is in violation within ZTHR, or when the time to
// co-altitude is in [0, TCOA].
type TauMod struct {
	DTHR float64 // m
	ZTHR float64 // m
	TTHR float64 // s
	TCOA float64 // s
}

// TauModFor returns the well-clear model given by a sensitivity level:
// DMOD, ZTHR, TAU and TCOA.
func TauModFor(th sensitivity.Thresholds) TauMod {
	return TauMod{DTHR: th.DMOD, ZTHR: th.ZTHR, TTHR: th.TAU, TCOA: th.TCOA}
}

// dcpa returns the horizontal distance at closest approach, looking only
// forward in time.
func dcpa(s, v math.Vect2) float64 {
	a := v.Sqv()
	if math.AlmostZero(a) {
		return s.Length()
	}
	tcpa := max(0, -s.Dot(v)/a)
	return s.Linear(v, tcpa).Length()
}

func (w TauMod) horizontalViolation(s, v math.Vect2) bool {
	sqD := w.DTHR * w.DTHR
	if s.Sqv() <= sqD {
		return true
	}
	sdotv := s.Dot(v)
	if sdotv >= 0 || dcpa(s, v) > w.DTHR {
		return false
	}
	tau := (sqD - s.Sqv()) / sdotv
	return tau >= 0 && tau <= w.TTHR
}

func (w TauMod) verticalViolation(sz, vz float64) bool {
	if math.Abs(sz) <= w.ZTHR {
		return true
	}
	if math.AlmostZero(vz) || sz*vz >= 0 {
		return false
	}
	tcoa := -sz / vz
	return tcoa >= 0 && tcoa <= w.TCOA
}

// horizontalSpan returns the times in [0, T] at which the horizontal
// criterion holds. Outside DTHR the entry time solves
// |s_t|^2 + TTHR s_t.v - DTHR^2 = 0 for s_t = s + t v; the exit is when the
// pair leaves DTHR.
func (w TauMod) horizontalSpan(T float64, s, v math.Vect2) span {
	sqs, sdotv, sqD, a := s.Sqv(), s.Dot(v), w.DTHR*w.DTHR, v.Sqv()
	exit := func() float64 {
		delta := max(0, sqD*a-math.Sqr(s.Det(v)))
		return (-sdotv + gomath.Sqrt(delta)) / a
	}

	if math.AlmostZero(a) {
		if sqs <= sqD {
			return span{lo: 0, hi: T}
		}
		return emptySpan
	}
	if sqs <= sqD {
		return span{lo: 0, hi: min(T, exit())}
	}

	b := 2*sdotv + w.TTHR*a
	c := sqs + w.TTHR*sdotv - sqD
	discr := b*b - 4*a*c
	if sdotv >= 0 || discr < 0 {
		return emptySpan
	}
	t := (-b - gomath.Sqrt(discr)) / (2 * a)
	if sqD*a-math.Sqr(s.Det(v)) < 0 || t > T {
		return emptySpan
	}
	return span{lo: max(0, t), hi: min(T, exit())}
}

// verticalSpan returns the times in [0, T] at which the vertical
// criterion holds.
func (w TauMod) verticalSpan(T, sz, vz float64) span {
	if math.AlmostZero(vz) {
		if math.Abs(sz) <= w.ZTHR {
			return span{lo: 0, hi: T}
		}
		return emptySpan
	}
	sign := math.Sign(vz)
	actH := max(w.ZTHR, math.Abs(vz)*w.TCOA)
	entry := (-sign*actH - sz) / vz
	exit := (sign*w.ZTHR - sz) / vz
	if T < entry || exit < 0 {
		return emptySpan
	}
	return span{lo: max(0, entry), hi: min(T, exit)}
}

func (w TauMod) Detect(g Geometry, T float64) Interval {
	if !(T >= 0) {
		return NoConflict
	}
	s, v := g.S, g.V()

	vs := w.verticalSpan(T, s[2], v[2])
	if vs.empty() {
		return NoConflict
	}

	// Solve the horizontal problem from the state at vertical entry.
	step := s.Linear(v, vs.lo).Horizontal()
	var sp span
	if math.AlmostEqual(vs.lo, vs.hi) {
		if !w.horizontalViolation(step, v.Horizontal()) {
			return NoConflict
		}
		sp = span{lo: vs.lo, hi: vs.lo}
	} else {
		hs := w.horizontalSpan(vs.hi-vs.lo, step, v.Horizontal())
		if hs.empty() {
			return NoConflict
		}
		sp = span{lo: hs.lo + vs.lo, hi: min(hs.hi+vs.lo, vs.hi)}
	}
	return finish(g, sp, (sp.lo+sp.hi)/2)
}

// WellClearViolation reports whether the pair violates well clear right
// now, tau criteria included.
func (w TauMod) WellClearViolation(g Geometry) bool {
	v := g.V()
	return w.horizontalViolation(g.S.Horizontal(), v.Horizontal()) && w.verticalViolation(g.S[2], v[2])
}

func (w TauMod) LossOfSeparation(g Geometry) bool {
	return g.S.Horizontal().Sqv() < w.DTHR*w.DTHR && math.Abs(g.S[2]) < w.ZTHR
}

func (w TauMod) String() string {
	return fmt.Sprintf("TauMod{DTHR: %s, ZTHR: %s, TTHR: %g s, TCOA: %g s}",
		units.Format(w.DTHR, "nmi"), units.Format(w.ZTHR, "ft"), w.TTHR, w.TCOA)
}
