// sensitivity/table.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sensitivity provides altitude-stratified tables of separation
// thresholds. Level indices are 1-based; getters return -1 for an invalid
// level and setters return false, since lookups sit on the per-cycle hot
// path.
package sensitivity

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/airsep/airsep/math"
	"github.com/airsep/airsep/units"

	"github.com/brunoga/deep"
)

// Thresholds holds one level's values in internal units.
type Thresholds struct {
	TAU  float64 // s
	TCOA float64 // s
	DMOD float64 // m
	ZTHR float64 // m
	HMD  float64 // m
}

// Table is an ordered list of sensitivity levels. Level n covers
// altitudes in (ceiling(n-1), ceiling(n)]; the last level is unbounded
// above. The zero value is an empty table.
//
// Lookups may be shared across goroutines but mutation must not run
// concurrently with them.
type Table struct {
	// bounds[i] is the upper altitude bound of level i+1; there is one
	// fewer bound than there are levels.
	bounds []float64
	levels []Thresholds
}

// NewTable returns a table with a single unbounded level of zero
// thresholds.
func NewTable() *Table {
	return &Table{levels: []Thresholds{{}}}
}

// Single returns a one-level table with the given horizontal and
// vertical separation, e.g. 5 nmi / 1000 ft.
func Single(dmod, zthr float64) *Table {
	return &Table{levels: []Thresholds{{DMOD: dmod, ZTHR: zthr, HMD: dmod}}}
}

func (t *Table) NumLevels() int {
	if t == nil {
		return 0
	}
	return len(t.levels)
}

func (t *Table) valid(level int) bool {
	return level >= 1 && level <= t.NumLevels()
}

// LevelForAltitude returns the smallest level whose upper bound is >= alt,
// or the last level if alt is above every bound. It returns 0 for an
// empty table.
func (t *Table) LevelForAltitude(alt float64) int {
	if t.NumLevels() == 0 {
		return 0
	}
	// The bounds are few (a handful for standard tables) so a linear
	// scan is as fast as anything else.
	for i, b := range t.bounds {
		if alt <= b {
			return i + 1
		}
	}
	return len(t.levels)
}

// Ceiling returns the upper altitude bound of level, +Inf for the last
// level and -1 for an invalid one.
func (t *Table) Ceiling(level int) float64 {
	if !t.valid(level) {
		return -1
	}
	if level == len(t.levels) {
		return gomath.Inf(1)
	}
	return t.bounds[level-1]
}

// Floor returns the lower altitude bound of level, -Inf for the first.
func (t *Table) Floor(level int) float64 {
	if !t.valid(level) {
		return -1
	}
	if level == 1 {
		return gomath.Inf(-1)
	}
	return t.bounds[level-2]
}

// MaxBound returns the largest finite altitude bound, or -Inf if the
// table has at most one level.
func (t *Table) MaxBound() float64 {
	if t == nil || len(t.bounds) == 0 {
		return gomath.Inf(-1)
	}
	return t.bounds[len(t.bounds)-1]
}

func (t *Table) Thresholds(level int) (Thresholds, bool) {
	if !t.valid(level) {
		return Thresholds{}, false
	}
	return t.levels[level-1], true
}

// ThresholdsForAltitude is shorthand for looking up the level and its
// values; the level is 0 when the table is empty.
func (t *Table) ThresholdsForAltitude(alt float64) (int, Thresholds) {
	level := t.LevelForAltitude(alt)
	th, _ := t.Thresholds(level)
	return level, th
}

func (t *Table) get(level int, f func(*Thresholds) *float64) float64 {
	if !t.valid(level) {
		return -1
	}
	return *f(&t.levels[level-1])
}

func (t *Table) set(level int, v float64, f func(*Thresholds) *float64) bool {
	if !t.valid(level) || !(v >= 0) || gomath.IsInf(v, 0) {
		return false
	}
	*f(&t.levels[level-1]) = v
	return true
}

func tau(th *Thresholds) *float64  { return &th.TAU }
func tcoa(th *Thresholds) *float64 { return &th.TCOA }
func dmod(th *Thresholds) *float64 { return &th.DMOD }
func zthr(th *Thresholds) *float64 { return &th.ZTHR }
func hmd(th *Thresholds) *float64  { return &th.HMD }

func (t *Table) TAU(level int) float64  { return t.get(level, tau) }
func (t *Table) TCOA(level int) float64 { return t.get(level, tcoa) }
func (t *Table) DMOD(level int) float64 { return t.get(level, dmod) }
func (t *Table) ZTHR(level int) float64 { return t.get(level, zthr) }
func (t *Table) HMD(level int) float64  { return t.get(level, hmd) }

func (t *Table) SetTAU(level int, v float64) bool  { return t.set(level, v, tau) }
func (t *Table) SetTCOA(level int, v float64) bool { return t.set(level, v, tcoa) }
func (t *Table) SetDMOD(level int, v float64) bool { return t.set(level, v, dmod) }
func (t *Table) SetZTHR(level int, v float64) bool { return t.set(level, v, zthr) }
func (t *Table) SetHMD(level int, v float64) bool  { return t.set(level, v, hmd) }

// SetThresholds replaces all of level's values at once.
func (t *Table) SetThresholds(level int, th Thresholds) bool {
	for _, v := range []float64{th.TAU, th.TCOA, th.DMOD, th.ZTHR, th.HMD} {
		if !(v >= 0) || gomath.IsInf(v, 0) {
			return false
		}
	}
	if !t.valid(level) {
		return false
	}
	t.levels[level-1] = th
	return true
}

// AddLevel makes upperBound the ceiling of the current last level and
// appends a new unbounded level with zero thresholds. upperBound must be
// non-negative and exceed the current maximum bound. On an empty table a
// single unbounded level is created; there is nothing below it for the
// bound to separate it from, so the bound is not recorded.
func (t *Table) AddLevel(upperBound float64) bool {
	if !math.IsFinite(upperBound) || upperBound < 0 {
		return false
	}
	if len(t.levels) == 0 {
		t.levels = []Thresholds{{}}
		return true
	}
	if len(t.bounds) > 0 && upperBound <= t.bounds[len(t.bounds)-1] {
		return false
	}
	t.bounds = append(t.bounds, upperBound)
	t.levels = append(t.levels, Thresholds{})
	return true
}

// Clear removes every level.
func (t *Table) Clear() {
	t.bounds = nil
	t.levels = nil
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	return &Table{
		bounds: deep.MustCopy(t.bounds),
		levels: deep.MustCopy(t.levels),
	}
}

// Equal reports whether both tables have identical bounds and values.
func (t *Table) Equal(o *Table) bool {
	if t.NumLevels() != o.NumLevels() || len(t.bounds) != len(o.bounds) {
		return false
	}
	for i := range t.bounds {
		if t.bounds[i] != o.bounds[i] {
			return false
		}
	}
	for i := range t.levels {
		if t.levels[i] != o.levels[i] {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	var sb strings.Builder
	for i, th := range t.levels {
		fmt.Fprintf(&sb, "SL%d [%s, %s]: TAU %g s TCOA %g s DMOD %s ZTHR %s HMD %s\n", i+1,
			formatAlt(t.Floor(i+1)), formatAlt(t.Ceiling(i+1)), th.TAU, th.TCOA,
			units.Format(th.DMOD, "nmi"), units.Format(th.ZTHR, "ft"), units.Format(th.HMD, "ft"))
	}
	return sb.String()
}

func formatAlt(a float64) string {
	if gomath.IsInf(a, 0) {
		return "-"
	}
	return units.Format(a, "ft")
}
