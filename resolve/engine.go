// resolve/engine.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package resolve searches ownship velocity space for maneuvers that
// remove a predicted conflict or end a loss of separation.
package resolve

import (
	gomath "math"

	"github.com/airsep/airsep/detect"
	"github.com/airsep/airsep/log"
	"github.com/airsep/airsep/math"
	"github.com/airsep/airsep/sensitivity"
	"github.com/airsep/airsep/units"

	"github.com/goforj/godump"
)

// Config holds the performance bounds of the ownship, in internal units.
type Config struct {
	MinGs float64 // m/s
	MaxGs float64 // m/s
	MaxVs float64 // m/s
	// VsGranularity, if positive, is the step vertical speed
	// resolutions are rounded to.
	VsGranularity float64 // m/s
	// RecoveryTime is how soon a maneuver must end a loss of
	// separation.
	RecoveryTime float64 // s
}

func DefaultConfig() Config {
	return Config{
		MinGs:         units.MustToInternal(150, "kn"),
		MaxGs:         units.MustToInternal(600, "kn"),
		MaxVs:         units.MustToInternal(6000, "fpm"),
		VsGranularity: units.MustToInternal(100, "fpm"),
		RecoveryTime:  30,
	}
}

func (c Config) gsBoundsValid() bool {
	return c.MinGs >= 0 && c.MinGs <= c.MaxGs
}

func (c Config) vsBoundsValid() bool {
	return c.MaxVs >= 0
}

// Engine computes resolutions against a sensitivity table. An Engine
// holds no per-pair state and may be shared as long as the table isn't
// modified concurrently.
type Engine struct {
	table *sensitivity.Table
	cfg   Config
	lg    *log.Logger
}

func NewEngine(table *sensitivity.Table, cfg Config, lg *log.Logger) *Engine {
	return &Engine{table: table, cfg: cfg, lg: lg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Table() *sensitivity.Table {
	return e.table
}

// problem is the state shared by the searches of one Resolve call.
type problem struct {
	cfg     Config
	cyl     detect.Cylinder
	g       detect.Geometry
	T       float64
	outcome Outcome
	epsH    int
	epsV    int
}

// resolves reports whether flying vo removes the violation.
func (p *problem) resolves(vo math.Vect3) bool {
	g := p.g.WithOwnshipVelocity(vo)
	if p.outcome.LossOfSeparation() {
		iv := p.cyl.Detect(g, p.cfg.RecoveryTime)
		return !iv.Conflict || iv.TimeOut < p.cfg.RecoveryTime
	}
	return !p.conflicts(g, p.T)
}

// conflicts reports a conflict over [0, T]. A zero-length contact at t=0
// is a pair leaving the boundary and does not count.
func (p *problem) conflicts(g detect.Geometry, T float64) bool {
	iv := p.cyl.Detect(g, T)
	return iv.Conflict && !(math.AlmostZero(iv.TimeIn) && math.AlmostZero(iv.TimeOut))
}

func (p *problem) horizontalOK(vo math.Vect3) bool {
	return senseAllowed(horizontalSense(p.g.S, p.g.Vo, vo), p.epsH) && p.resolves(vo)
}

func (p *problem) gsInBounds(gs float64) bool {
	return gs >= p.cfg.MinGs && gs <= p.cfg.MaxGs
}

// Resolve classifies the encounter between own and intruder over the
// lookahead T and searches for maneuvers. epsH and epsV are coordination
// senses (+1, -1, or 0 for uncoordinated), normally from
// HorizontalCoordination and VerticalCoordination.
func (e *Engine) Resolve(own, intruder detect.Aircraft, T float64, epsH, epsV int) Resolution {
	level, th := e.table.ThresholdsForAltitude(own.Position[2])
	p := &problem{
		cfg:  e.cfg,
		cyl:  detect.CylinderFor(th),
		g:    detect.NewGeometry(own, intruder),
		T:    T,
		epsH: clampEps(epsH),
		epsV: clampEps(epsV),
	}

	switch {
	case p.cyl.LossOfSeparation(p.g):
		if p.g.RangeRate() < 0 {
			p.outcome = LoSConverging
		} else {
			p.outcome = LoSDiverging
		}
	case p.conflicts(p.g, T):
		p.outcome = Conflict
	default:
		p.outcome = Unnecessary
	}

	r := Resolution{Outcome: p.outcome, Level: level}
	r.Track = p.trackOnly()
	r.GroundSpeed = p.groundSpeedOnly()
	r.VerticalSpeed = p.verticalSpeedOnly()
	r.Optimal = p.optimal(r.Track, r.GroundSpeed)

	if r.Outcome != Unnecessary && !r.AnyManeuver() {
		r.Outcome = None
	}

	if e.lg.DebugEnabled() {
		e.lg.Debug("resolution", "level", level, "detector", p.cyl.String(), "result", r.String(),
			"dump", godump.DumpStr(r))
	}
	return r
}

func clampEps(eps int) int {
	return math.Clamp(eps, -1, 1)
}

func (p *problem) trackOnly() Maneuver {
	vo := p.g.Vo
	gs := math.GroundSpeed(vo)
	if !p.cfg.gsBoundsValid() || !p.cfg.vsBoundsValid() || !p.gsInBounds(gs) ||
		math.Abs(vo[2]) > p.cfg.MaxVs || math.AlmostZero(gs) {
		return Maneuver{}
	}

	trk := math.Track(vo)
	velocity := func(delta float64) math.Vect3 { return math.WithTrack(vo, trk+delta) }
	ok := func(delta float64) bool { return p.horizontalOK(velocity(delta)) }

	var best Maneuver
	bestDelta := gomath.Inf(1)
	for _, end := range []float64{gomath.Pi, -gomath.Pi} {
		delta, found := search1D(0, end, trackSteps, ok)
		if !found {
			continue
		}
		target := math.NormalizeTrack(trk + delta)
		if turn := math.Abs(math.SignedTurn(trk, target)); turn < bestDelta {
			bestDelta = turn
			best = Maneuver{Exists: true, Value: target, Velocity: velocity(delta)}
		}
	}
	return best
}

func (p *problem) groundSpeedOnly() Maneuver {
	vo := p.g.Vo
	if !p.cfg.gsBoundsValid() {
		return Maneuver{}
	}

	start := math.Clamp(math.GroundSpeed(vo), p.cfg.MinGs, p.cfg.MaxGs)
	velocity := func(gs float64) math.Vect3 { return math.WithGroundSpeed(vo, gs) }
	ok := func(gs float64) bool { return p.horizontalOK(velocity(gs)) }

	var best Maneuver
	bestDelta := gomath.Inf(1)
	for _, end := range []float64{p.cfg.MaxGs, p.cfg.MinGs} {
		if gs, found := search1D(start, end, speedSteps, ok); found && math.Abs(gs-start) < bestDelta {
			bestDelta = math.Abs(gs - start)
			best = Maneuver{Exists: true, Value: gs, Velocity: velocity(gs)}
		}
	}
	return best
}

func (p *problem) verticalSpeedOnly() Maneuver {
	vo := p.g.Vo
	if !p.cfg.vsBoundsValid() {
		return Maneuver{}
	}

	start := math.Clamp(vo[2], -p.cfg.MaxVs, p.cfg.MaxVs)
	velocity := func(vs float64) math.Vect3 { return math.WithVerticalSpeed(vo, vs) }

	var best Maneuver
	bestDelta := gomath.Inf(1)
	for _, end := range []float64{p.cfg.MaxVs, -p.cfg.MaxVs} {
		sense := int(math.Sign(end - start))
		if end == start || !senseAllowed(sense, p.epsV) {
			// Going this way is not allowed, but the current value
			// still counts if it resolves.
			if p.resolves(velocity(start)) {
				return Maneuver{Exists: true, Value: start, Velocity: velocity(start)}
			}
			continue
		}

		vs, found := search1D(start, end, speedSteps, func(vs float64) bool { return p.resolves(velocity(vs)) })
		if !found {
			continue
		}
		if vs != start {
			vs = p.snapVerticalSpeed(vs, sense, velocity)
		}
		if math.Abs(vs-start) < bestDelta {
			bestDelta = math.Abs(vs - start)
			best = Maneuver{Exists: true, Value: vs, Velocity: velocity(vs)}
		}
	}
	return best
}

// snapVerticalSpeed rounds vs away from the current value to a multiple
// of the configured granularity, trying a few further steps if the
// rounded value doesn't resolve. vs is returned unchanged if no rounded
// value in bounds works.
func (p *problem) snapVerticalSpeed(vs float64, sense int, velocity func(float64) math.Vect3) float64 {
	g := p.cfg.VsGranularity
	if !(g > 0) {
		return vs
	}

	const slack = 1e-9
	var snapped float64
	if sense > 0 {
		snapped = gomath.Ceil(vs/g-slack) * g
	} else {
		snapped = gomath.Floor(vs/g+slack) * g
	}
	for i := 0; i < snapAttempts; i++ {
		c := snapped + float64(sense*i)*g
		if math.Abs(c) > p.cfg.MaxVs+slack {
			break
		}
		if p.resolves(velocity(c)) {
			return c
		}
	}
	return vs
}

// optimal searches for the smallest horizontal velocity change that
// resolves, over a fan of change directions. The result is never a
// larger change than the track-only or ground-speed-only maneuvers.
func (p *problem) optimal(trk, gs Maneuver) Optimal {
	vo := p.g.Vo
	if !p.cfg.gsBoundsValid() || !p.cfg.vsBoundsValid() || math.Abs(vo[2]) > p.cfg.MaxVs {
		return Optimal{}
	}

	candidate := func(theta, r float64) math.Vect3 {
		s, c := gomath.Sincos(theta)
		return vo.Add(math.Vect3{r * s, r * c, 0})
	}
	ok := func(theta float64) func(float64) bool {
		return func(r float64) bool {
			v := candidate(theta, r)
			return p.gsInBounds(math.GroundSpeed(v)) && p.horizontalOK(v)
		}
	}
	rMax := p.cfg.MaxGs + math.GroundSpeed(vo)

	bestR, bestTheta := gomath.Inf(1), 0.0
	try := func(theta float64) {
		if r, found := search1D(0, rMax, radialSteps, ok(theta)); found && r < bestR {
			bestR, bestTheta = r, theta
		}
	}

	step := 2 * gomath.Pi / directions
	for i := 0; i < directions; i++ {
		try(float64(i) * step)
		if bestR == 0 {
			break
		}
	}
	if bestR > 0 && !gomath.IsInf(bestR, 1) {
		center := bestTheta
		for i := -refineSteps; i <= refineSteps; i++ {
			try(center + float64(i)*step/refineSteps)
		}
	}

	var best Optimal
	if !gomath.IsInf(bestR, 1) {
		v := candidate(bestTheta, bestR)
		best = Optimal{Exists: true, Track: math.Track(v), GroundSpeed: math.GroundSpeed(v), Velocity: v}
	}

	// The single-axis maneuvers are also joint maneuvers; keep whichever
	// is the smallest change.
	for _, m := range []Maneuver{trk, gs} {
		if !m.Exists {
			continue
		}
		if !best.Exists || m.Velocity.Sub(vo).Length() < best.Velocity.Sub(vo).Length() {
			best = Optimal{Exists: true, Track: math.Track(m.Velocity), GroundSpeed: math.GroundSpeed(m.Velocity),
				Velocity: m.Velocity}
		}
	}
	return best
}
