// resolve/resolve_test.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package resolve

import (
	gomath "math"
	"testing"

	"github.com/airsep/airsep/detect"
	"github.com/airsep/airsep/math"
	"github.com/airsep/airsep/sensitivity"
	"github.com/airsep/airsep/units"
)

// 5 nmi / 1000 ft
func fixedTable() *sensitivity.Table {
	return sensitivity.Single(9260, 304.8)
}

func headOnPair() (own, intruder detect.Aircraft) {
	own = detect.Aircraft{Position: math.Vect3{0, 0, 3000}, Velocity: math.Vect3{240, 0, 0}}
	intruder = detect.Aircraft{Position: math.Vect3{30000, 100, 3000}, Velocity: math.Vect3{-240, 0, 0}}
	return
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.VsGranularity = 0
	return cfg
}

func resolvesConflict(own, intruder detect.Aircraft, v math.Vect3, T float64) bool {
	own.Velocity = v
	cyl := detect.CylinderFor(sensitivity.Thresholds{DMOD: 9260, ZTHR: 304.8})
	return !cyl.Detect(detect.NewGeometry(own, intruder), T).Conflict
}

func TestHeadOnConflict(t *testing.T) {
	own, intruder := headOnPair()
	e := NewEngine(fixedTable(), testConfig(), nil)

	g := detect.NewGeometry(own, intruder)
	epsH := HorizontalCoordination(g.S, g.V())
	if epsH != 1 {
		t.Fatalf("horizontal coordination %d, expected 1", epsH)
	}

	r := e.Resolve(own, intruder, 180, epsH, 1)
	if r.Outcome != Conflict || r.Level != 1 {
		t.Fatalf("outcome %s level %d, expected Conflict at level 1", r.Outcome, r.Level)
	}

	if !r.Track.Exists {
		t.Errorf("expected a track resolution")
	} else if trk := math.Degrees(r.Track.Value); trk <= 90 || trk >= 180 {
		t.Errorf("track %g deg, expected a right turn", trk)
	}
	if r.GroundSpeed.Exists {
		t.Errorf("speed change can't resolve a head-on encounter: %s", r)
	}
	if !r.VerticalSpeed.Exists {
		t.Errorf("expected a vertical speed resolution")
	} else if vs := r.VerticalSpeed.Value; vs < 7.05 || vs > 7.06 {
		t.Errorf("vertical speed %g, expected about 7.054 m/s", vs)
	}
	if !r.Optimal.Exists {
		t.Fatalf("expected an optimal resolution")
	}

	for name, m := range map[string]Maneuver{"track": r.Track, "vs": r.VerticalSpeed} {
		if m.Exists && !resolvesConflict(own, intruder, m.Velocity, 180) {
			t.Errorf("%s maneuver %v doesn't resolve", name, m.Velocity)
		}
	}
	if !resolvesConflict(own, intruder, r.Optimal.Velocity, 180) {
		t.Errorf("optimal maneuver %v doesn't resolve", r.Optimal.Velocity)
	}

	dTrk := r.Track.Velocity.Sub(own.Velocity).Length()
	dOpt := r.Optimal.Velocity.Sub(own.Velocity).Length()
	if dOpt > dTrk+1e-9 {
		t.Errorf("optimal change %g larger than track-only %g", dOpt, dTrk)
	}
	if gs := r.Optimal.GroundSpeed; gs < e.Config().MinGs || gs > e.Config().MaxGs {
		t.Errorf("optimal ground speed %g out of bounds", gs)
	}
}

func TestHeadOnCoordination(t *testing.T) {
	own, intruder := headOnPair()
	e := NewEngine(fixedTable(), testConfig(), nil)

	// Both aircraft compute the same epsilon and end up turning right.
	gOwn, gIntr := detect.NewGeometry(own, intruder), detect.NewGeometry(intruder, own)
	epsOwn, epsIntr := HorizontalCoordination(gOwn.S, gOwn.V()), HorizontalCoordination(gIntr.S, gIntr.V())
	if epsOwn != epsIntr {
		t.Fatalf("epsilons differ: %d %d", epsOwn, epsIntr)
	}
	r := e.Resolve(intruder, own, 180, epsIntr, 0)
	if !r.Track.Exists {
		t.Fatalf("no intruder track resolution")
	}
	if trk := math.Degrees(r.Track.Value); trk <= 270 || trk >= 360 {
		t.Errorf("intruder track %g deg, expected a right turn", trk)
	}

	// Opposite epsilon turns the ownship left.
	r = e.Resolve(own, intruder, 180, -1, 1)
	if !r.Track.Exists {
		t.Fatalf("no left turn resolution")
	}
	if trk := math.Degrees(r.Track.Value); trk <= 0 || trk >= 90 {
		t.Errorf("track %g deg, expected a left turn", trk)
	}

	// Vertical senses are opposite for the two aircraft.
	vOwn := VerticalCoordination(gOwn.S[2], "AAL1", "DAL2")
	vIntr := VerticalCoordination(gIntr.S[2], "DAL2", "AAL1")
	if vOwn != 1 || vIntr != -1 {
		t.Errorf("vertical coordination %d %d, expected 1 -1", vOwn, vIntr)
	}
	r = e.Resolve(own, intruder, 180, 0, vIntr)
	if !r.VerticalSpeed.Exists || r.VerticalSpeed.Value > -7.05 {
		t.Errorf("expected a descent, got %s", r)
	}
}

func TestVerticalSpeedGranularity(t *testing.T) {
	own, intruder := headOnPair()
	cfg := testConfig()
	cfg.VsGranularity = units.MustToInternal(100, "fpm")
	e := NewEngine(fixedTable(), cfg, nil)

	r := e.Resolve(own, intruder, 180, 1, 1)
	if !r.VerticalSpeed.Exists {
		t.Fatalf("no vertical speed resolution")
	}
	fpm, _ := units.FromInternal(r.VerticalSpeed.Value, "fpm")
	if gomath.Abs(fpm-1400) > 1e-6 {
		t.Errorf("vertical speed %g fpm, expected 1400", fpm)
	}

	r = e.Resolve(own, intruder, 180, 1, -1)
	fpm, _ = units.FromInternal(r.VerticalSpeed.Value, "fpm")
	if !r.VerticalSpeed.Exists || gomath.Abs(fpm+1400) > 1e-6 {
		t.Errorf("vertical speed %g fpm, expected -1400", fpm)
	}
}

func TestLossOfSeparation(t *testing.T) {
	e := NewEngine(fixedTable(), testConfig(), nil)
	own := detect.Aircraft{Position: math.Vect3{0, 0, 3000}, Velocity: math.Vect3{200, 0, 0}}

	type testCase struct {
		name    string
		vi      math.Vect3
		outcome Outcome
	}
	for _, tc := range []testCase{
		{name: "converging", vi: math.Vect3{100, 0, 0}, outcome: LoSConverging},
		{name: "diverging", vi: math.Vect3{300, 0, 0}, outcome: LoSDiverging},
	} {
		intruder := detect.Aircraft{Position: math.Vect3{2000, 0, 3000}, Velocity: tc.vi}
		r := e.Resolve(own, intruder, 180, 0, 0)
		if r.Outcome != tc.outcome {
			t.Errorf("%s: outcome %s, expected %s", tc.name, r.Outcome, tc.outcome)
			continue
		}
		if !r.VerticalSpeed.Exists {
			t.Errorf("%s: expected a vertical resolution", tc.name)
			continue
		}
		// A climb or descent of 304.8 m within 30 s.
		if vs := math.Abs(r.VerticalSpeed.Value); vs < 10.15 || vs > 10.17 {
			t.Errorf("%s: vertical speed %g, expected about 10.16", tc.name, vs)
		}
		g := detect.NewGeometry(own, intruder).WithOwnshipVelocity(r.VerticalSpeed.Velocity)
		if iv := detect.CylinderFor(sensitivity.Thresholds{DMOD: 9260, ZTHR: 304.8}).Detect(g, 30); iv.Conflict && iv.TimeOut >= 30 {
			t.Errorf("%s: still in loss of separation at the recovery time: %s", tc.name, iv)
		}
	}
}

func TestUnnecessary(t *testing.T) {
	e := NewEngine(fixedTable(), testConfig(), nil)
	own := detect.Aircraft{Position: math.Vect3{0, 0, 3000}, Velocity: math.Vect3{-200, 0, 0}}
	intruder := detect.Aircraft{Position: math.Vect3{30000, 0, 3000}, Velocity: math.Vect3{200, 0, 0}}

	r := e.Resolve(own, intruder, 180, 0, 0)
	if r.Outcome != Unnecessary {
		t.Fatalf("outcome %s, expected Unnecessary", r.Outcome)
	}
	// Maneuvers are the current state.
	if !r.Track.Exists || !math.AlmostEqual(r.Track.Value, math.Radians(270)) {
		t.Errorf("track %+v", r.Track)
	}
	if !r.GroundSpeed.Exists || !math.AlmostEqual(r.GroundSpeed.Value, 200) {
		t.Errorf("ground speed %+v", r.GroundSpeed)
	}
	if !r.VerticalSpeed.Exists || r.VerticalSpeed.Value != 0 {
		t.Errorf("vertical speed %+v", r.VerticalSpeed)
	}
	if !r.Optimal.Exists || r.Optimal.Velocity != own.Velocity {
		t.Errorf("optimal %+v", r.Optimal)
	}
}

func TestBoundaryDiverging(t *testing.T) {
	e := NewEngine(fixedTable(), testConfig(), nil)
	intruder := detect.Aircraft{Position: math.Vect3{0, 0, 3000}}

	for _, tt := range []struct {
		x        float64
		expected Outcome
	}{
		{9259, LoSDiverging},
		{9260, Unnecessary},
		{9261, Unnecessary},
	} {
		own := detect.Aircraft{Position: math.Vect3{tt.x, 0, 3000}, Velocity: math.Vect3{200, 0, 0}}
		if r := e.Resolve(own, intruder, 180, 0, 0); r.Outcome != tt.expected {
			t.Errorf("x=%g: outcome %s, expected %s", tt.x, r.Outcome, tt.expected)
		}
	}
}

func TestNoResolution(t *testing.T) {
	own := detect.Aircraft{Position: math.Vect3{0, 0, 3000}, Velocity: math.Vect3{200, 0, 0}}
	intruder := detect.Aircraft{Position: math.Vect3{2000, 0, 3000}, Velocity: math.Vect3{100, 0, 0}}

	// Even the fastest opening rate can't leave 20 km in 30 s.
	cfg := Config{MinGs: 200, MaxGs: 200, MaxVs: 0, RecoveryTime: 30}
	e := NewEngine(sensitivity.Single(20000, 304.8), cfg, nil)
	if r := e.Resolve(own, intruder, 180, 0, 0); r.Outcome != None || r.AnyManeuver() {
		t.Errorf("expected None, got %s", r)
	}

	// Inconsistent bounds leave nothing to search.
	own, intruder = headOnPair()
	cfg = Config{MinGs: 300, MaxGs: 100, MaxVs: -1, RecoveryTime: 30}
	e = NewEngine(fixedTable(), cfg, nil)
	r := e.Resolve(own, intruder, 180, 0, 0)
	if r.Outcome != None || r.AnyManeuver() {
		t.Errorf("expected None, got %s", r)
	}
}

func TestHoldAxisBounds(t *testing.T) {
	own, intruder := headOnPair()
	cfg := testConfig()
	cfg.MaxGs = 200 // ownship is flying 240 m/s
	e := NewEngine(fixedTable(), cfg, nil)
	r := e.Resolve(own, intruder, 180, 0, 0)
	if r.Track.Exists {
		t.Errorf("track maneuver with ground speed out of bounds: %s", r)
	}
	if !r.VerticalSpeed.Exists {
		t.Errorf("vertical maneuver should be unaffected")
	}
}

func TestSearch1D(t *testing.T) {
	ok := func(x float64) bool { return x >= 3.3 }
	if x, found := search1D(0, 10, 10, ok); !found || x < 3.3 || x > 3.3+1e-9 {
		t.Errorf("got %g %v, expected 3.3", x, found)
	}
	if x, found := search1D(5, 10, 10, ok); !found || x != 5 {
		t.Errorf("start value: got %g %v", x, found)
	}
	if _, found := search1D(0, -10, 10, ok); found {
		t.Errorf("found a value going the wrong way")
	}
}

func TestCoordination(t *testing.T) {
	if HorizontalCoordination(math.Vect3{1, 0, 0}, math.Vect3{2, 0, 0}) != 1 {
		t.Errorf("zero determinant should give +1")
	}
	if HorizontalCoordination(math.Vect3{0, 1, 0}, math.Vect3{1, 0, 0}) != -1 {
		t.Errorf("expected -1")
	}
	if VerticalCoordination(-10, "B", "A") != -1 || VerticalCoordination(10, "B", "A") != 1 {
		t.Errorf("vertical coordination should follow relative altitude")
	}
	if VerticalCoordination(0, "A", "B") != 1 || VerticalCoordination(0, "B", "A") != -1 {
		t.Errorf("vertical tie-break by ID failed")
	}
	if !senseAllowed(0, 1) || !senseAllowed(-1, 0) || senseAllowed(-1, 1) {
		t.Errorf("senseAllowed")
	}
}

func TestOutcomeString(t *testing.T) {
	for o, s := range map[Outcome]string{Unnecessary: "Unnecessary", Conflict: "Conflict",
		LoSConverging: "LoSConverging", LoSDiverging: "LoSDiverging", None: "None", Outcome(9): "Outcome(9)"} {
		if o.String() != s {
			t.Errorf("got %q, expected %q", o.String(), s)
		}
	}
	if int(LoSDiverging) != 3 || int(None) != 4 {
		t.Errorf("outcome values changed")
	}
}
