// sensitivity/parameters.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sensitivity

import (
	"errors"
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"github.com/airsep/airsep/params"
	"github.com/airsep/airsep/units"
)

var (
	ErrNoLevels       = errors.New("no sensitivity levels defined")
	ErrInvalidLevel   = errors.New("invalid sensitivity level")
	ErrNegativeValue  = errors.New("negative threshold")
	ErrBoundsOrdering = errors.New("altitude bounds must be strictly increasing")
	ErrMissingBound   = errors.New("missing altitude bound")
)

// Parameter names within a level; the full key is "level_<n>_<name>".
const (
	ParamTAU  = "TAU"
	ParamTCOA = "TCOA"
	ParamDMOD = "DMOD"
	ParamZTHR = "ZTHR"
	ParamHMD  = "HMD"
	ParamALT  = "ALT"
)

func paramKey(level int, name string) string {
	return "level_" + strconv.Itoa(level) + "_" + name
}

// parseKey splits "level_<n>_<name>"; ok is false for other keys.
func parseKey(key string) (level int, name string, ok bool) {
	rest, found := strings.CutPrefix(key, "level_")
	if !found {
		return 0, "", false
	}
	num, name, found := strings.Cut(rest, "_")
	if !found {
		return 0, "", false
	}
	level, err := strconv.Atoi(num)
	if err != nil || level < 1 {
		return 0, "", false
	}
	switch name {
	case ParamTAU, ParamTCOA, ParamDMOD, ParamZTHR, ParamHMD, ParamALT:
		return level, name, true
	}
	return 0, "", false
}

// Parameters returns the table as a flat parameter store. Every level
// but the last carries its upper altitude bound.
func (t *Table) Parameters() *params.Store {
	s := params.New()
	for i, th := range t.levels {
		n := i + 1
		s.SetInternal(paramKey(n, ParamTAU), th.TAU, "s")
		s.SetInternal(paramKey(n, ParamTCOA), th.TCOA, "s")
		s.SetInternal(paramKey(n, ParamDMOD), th.DMOD, "nmi")
		s.SetInternal(paramKey(n, ParamZTHR), th.ZTHR, "ft")
		s.SetInternal(paramKey(n, ParamHMD), th.HMD, "ft")
		if n < len(t.levels) {
			s.SetInternal(paramKey(n, ParamALT), t.bounds[i], "ft")
		}
	}
	return s
}

// SetParameters rebuilds the table from s. Levels are numbered
// contiguously from 1; thresholds that aren't given are zero. Keys that
// don't name a level parameter are ignored so that a table's parameters
// can share a store with other settings. The table is left unchanged if
// an error is returned.
func (t *Table) SetParameters(s *params.Store) error {
	n := 0
	for _, k := range s.Keys() {
		if level, _, ok := parseKey(k); ok {
			n = max(n, level)
		}
	}
	if n == 0 {
		return ErrNoLevels
	}

	levels := make([]Thresholds, n)
	bounds := make([]float64, n-1)
	seen := make([]bool, n)
	for i := range bounds {
		bounds[i] = gomath.NaN()
	}

	for _, k := range s.Keys() {
		level, name, ok := parseKey(k)
		if !ok {
			continue
		}
		v, _ := s.Value(k)
		if !(v >= 0) || gomath.IsInf(v, 0) {
			return fmt.Errorf("%s: %g: %w", k, v, ErrNegativeValue)
		}
		seen[level-1] = true

		th := &levels[level-1]
		switch name {
		case ParamTAU:
			th.TAU = v
		case ParamTCOA:
			th.TCOA = v
		case ParamDMOD:
			th.DMOD = v
		case ParamZTHR:
			th.ZTHR = v
		case ParamHMD:
			th.HMD = v
		case ParamALT:
			// The last level is unbounded; a bound given for it is
			// ignored.
			if level < n {
				bounds[level-1] = v
			}
		}
	}

	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("level %d: %w", i+1, ErrInvalidLevel)
		}
	}
	for i, b := range bounds {
		if gomath.IsNaN(b) {
			return fmt.Errorf("%s: %w", paramKey(i+1, ParamALT), ErrMissingBound)
		}
		if i > 0 && b <= bounds[i-1] {
			return fmt.Errorf("%s: %w", paramKey(i+1, ParamALT), ErrBoundsOrdering)
		}
	}

	t.levels, t.bounds = levels, bounds
	return nil
}

// MarshalBinary encodes the table through its parameter store.
func (t *Table) MarshalBinary() ([]byte, error) {
	return t.Parameters().MarshalBinary()
}

func (t *Table) UnmarshalBinary(b []byte) error {
	var s params.Store
	if err := s.UnmarshalBinary(b); err != nil {
		return err
	}
	return t.SetParameters(&s)
}

///////////////////////////////////////////////////////////////////////////
// unit adapters

func (t *Table) getIn(v float64, unit string) float64 {
	if v < 0 {
		return v
	}
	uv, err := units.FromInternal(v, unit)
	if err != nil {
		return -1
	}
	return uv
}

func (t *Table) setIn(level int, v float64, unit string, set func(int, float64) bool) bool {
	iv, err := units.ToInternal(v, unit)
	if err != nil {
		return false
	}
	return set(level, iv)
}

func (t *Table) TAUIn(level int, unit string) float64  { return t.getIn(t.TAU(level), unit) }
func (t *Table) TCOAIn(level int, unit string) float64 { return t.getIn(t.TCOA(level), unit) }
func (t *Table) DMODIn(level int, unit string) float64 { return t.getIn(t.DMOD(level), unit) }
func (t *Table) ZTHRIn(level int, unit string) float64 { return t.getIn(t.ZTHR(level), unit) }
func (t *Table) HMDIn(level int, unit string) float64  { return t.getIn(t.HMD(level), unit) }

func (t *Table) SetTAUIn(level int, v float64, unit string) bool {
	return t.setIn(level, v, unit, t.SetTAU)
}
func (t *Table) SetTCOAIn(level int, v float64, unit string) bool {
	return t.setIn(level, v, unit, t.SetTCOA)
}
func (t *Table) SetDMODIn(level int, v float64, unit string) bool {
	return t.setIn(level, v, unit, t.SetDMOD)
}
func (t *Table) SetZTHRIn(level int, v float64, unit string) bool {
	return t.setIn(level, v, unit, t.SetZTHR)
}
func (t *Table) SetHMDIn(level int, v float64, unit string) bool {
	return t.setIn(level, v, unit, t.SetHMD)
}

// LevelForAltitudeIn looks up the level for an altitude given in unit; it
// returns 0 for an unknown unit.
func (t *Table) LevelForAltitudeIn(alt float64, unit string) int {
	ia, err := units.ToInternal(alt, unit)
	if err != nil {
		return 0
	}
	return t.LevelForAltitude(ia)
}

// AddLevelIn is AddLevel with the bound expressed in unit.
func (t *Table) AddLevelIn(upperBound float64, unit string) bool {
	ib, err := units.ToInternal(upperBound, unit)
	if err != nil {
		return false
	}
	return t.AddLevel(ib)
}
