// units/units.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package units converts between named units and the internal coherent
// representation (meters, seconds, radians and their quotients) at the
// edges of the system. Everything past this boundary works in internal
// units only.
package units

import (
	"errors"
	"fmt"
	gomath "math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownUnit = errors.New("unknown unit")
	ErrBadQuantity = errors.New("malformed quantity")
)

const (
	Foot          = 0.3048
	NauticalMile  = 1852.0
	Kilometer     = 1000.0
	Minute        = 60.0
	Hour          = 3600.0
	Knot          = NauticalMile / Hour
	FootPerMinute = Foot / Minute
	Degree        = gomath.Pi / 180
)

// Internal is the name of the identity unit.
const Internal = "internal"

// Dimensions of the named units. Internal and unitless values have no
// dimension and are compatible with every unit.
const (
	Length = "length"
	Time   = "time"
	Speed  = "speed"
	Angle  = "angle"
)

type unitDef struct {
	factor    float64 // internal units in one of this unit
	dimension string
}

var registry = map[string]unitDef{
	Internal:   {1, ""},
	"unitless": {1, ""},
	"m":        {1, Length},
	"km":       {Kilometer, Length},
	"ft":       {Foot, Length},
	"nmi":      {NauticalMile, Length},
	"NM":       {NauticalMile, Length},
	"s":        {1, Time},
	"min":      {Minute, Time},
	"h":        {Hour, Time},
	"hr":       {Hour, Time},
	"m/s":      {1, Speed},
	"kn":       {Knot, Speed},
	"knot":     {Knot, Speed},
	"kts":      {Knot, Speed},
	"fpm":      {FootPerMinute, Speed},
	"ft/min":   {FootPerMinute, Speed},
	"rad":      {1, Angle},
	"deg":      {Degree, Angle},
}

// Known reports whether unit is a recognized unit name.
func Known(unit string) bool {
	_, ok := registry[unit]
	return ok
}

// Factor returns the number of internal units in one unit.
func Factor(unit string) (float64, error) {
	if u, ok := registry[unit]; ok {
		return u.factor, nil
	}
	return 0, fmt.Errorf("%q: %w", unit, ErrUnknownUnit)
}

// Dimension returns the dimension of unit, or the empty string for
// unknown and dimensionless units.
func Dimension(unit string) string {
	return registry[unit].dimension
}

// SameDimension reports whether values in units a and b measure the same
// thing. Dimensionless units match anything; unknown units match nothing.
func SameDimension(a, b string) bool {
	if !Known(a) || !Known(b) {
		return false
	}
	da, db := Dimension(a), Dimension(b)
	return da == "" || db == "" || da == db
}

// Duration converts internal seconds to a time.Duration.
func Duration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// ToInternal converts v expressed in unit to internal units.
func ToInternal(v float64, unit string) (float64, error) {
	f, err := Factor(unit)
	if err != nil {
		return 0, err
	}
	return v * f, nil
}

// FromInternal converts the internal value v to unit.
func FromInternal(v float64, unit string) (float64, error) {
	f, err := Factor(unit)
	if err != nil {
		return 0, err
	}
	return v / f, nil
}

// MustToInternal is ToInternal for unit names known at compile time.
func MustToInternal(v float64, unit string) float64 {
	iv, err := ToInternal(v, unit)
	if err != nil {
		panic(err)
	}
	return iv
}

// ParseQuantity parses strings like "180 s", "5nmi" or "-1500 fpm" and
// returns the value in internal units along with the unit name. A bare
// number is taken to already be in internal units.
func ParseQuantity(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("empty string: %w", ErrBadQuantity)
	}

	// Split at the end of the leading numeric part.
	idx := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9') && !strings.ContainsRune("+-.eE", r)
	})
	num, unit := s, Internal
	if idx >= 0 {
		num, unit = strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx:])
	}
	// "1e" followed by a unit starting with a letter would have been
	// swallowed; back off a trailing exponent marker.
	if strings.HasSuffix(num, "e") || strings.HasSuffix(num, "E") {
		unit = num[len(num)-1:] + unit
		num = strings.TrimSpace(num[:len(num)-1])
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%q: %w", s, ErrBadQuantity)
	}
	iv, err := ToInternal(v, unit)
	if err != nil {
		return 0, "", err
	}
	return iv, unit, nil
}

// Format renders the internal value v in unit, e.g. "5 nmi".
func Format(v float64, unit string) string {
	uv, err := FromInternal(v, unit)
	if err != nil {
		return strconv.FormatFloat(v, 'g', -1, 64) + " " + Internal
	}
	if unit == Internal {
		return strconv.FormatFloat(uv, 'g', -1, 64)
	}
	return strconv.FormatFloat(uv, 'g', -1, 64) + " " + unit
}
