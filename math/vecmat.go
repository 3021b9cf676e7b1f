// math/vecmat.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// Vect2

// Vect2 is a horizontal vector: [0] is east, [1] is north.
// Names are brief in order to avoid clutter when they're used.
type Vect2 [2]float64

// a+b
func (a Vect2) Add(b Vect2) Vect2 {
	return Vect2{a[0] + b[0], a[1] + b[1]}
}

// a-b
func (a Vect2) Sub(b Vect2) Vect2 {
	return Vect2{a[0] - b[0], a[1] - b[1]}
}

// a*s
func (a Vect2) Scale(s float64) Vect2 {
	return Vect2{s * a[0], s * a[1]}
}

func (a Vect2) Dot(b Vect2) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// Det returns the 2D cross product a x b; it's positive when b is
// counter-clockwise from a.
func (a Vect2) Det(b Vect2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func (a Vect2) Sqv() float64 {
	return a.Dot(a)
}

// Length of v
func (a Vect2) Length() float64 {
	return gomath.Sqrt(a.Sqv())
}

// Normalizes the given vector.
func (a Vect2) Normalize() Vect2 {
	l := a.Length()
	if l == 0 {
		return Vect2{0, 0}
	}
	return a.Scale(1 / l)
}

// Linear returns a + t*v, the position after t time units of constant
// velocity v.
func (a Vect2) Linear(v Vect2, t float64) Vect2 {
	return Vect2{a[0] + t*v[0], a[1] + t*v[1]}
}

func (a Vect2) IsZero() bool {
	return AlmostZero(a.Sqv())
}

func (a Vect2) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", a[0], a[1])
}

///////////////////////////////////////////////////////////////////////////
// Vect3

// Vect3 is a position or velocity in the local east/north/up frame.
type Vect3 [3]float64

func (a Vect3) Add(b Vect3) Vect3 {
	return Vect3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vect3) Sub(b Vect3) Vect3 {
	return Vect3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a Vect3) Scale(s float64) Vect3 {
	return Vect3{s * a[0], s * a[1], s * a[2]}
}

func (a Vect3) Neg() Vect3 {
	return Vect3{-a[0], -a[1], -a[2]}
}

func (a Vect3) Dot(b Vect3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vect3) Sqv() float64 {
	return a.Dot(a)
}

func (a Vect3) Length() float64 {
	return gomath.Sqrt(a.Sqv())
}

func (a Vect3) Linear(v Vect3, t float64) Vect3 {
	return Vect3{a[0] + t*v[0], a[1] + t*v[1], a[2] + t*v[2]}
}

// Horizontal returns the east/north components.
func (a Vect3) Horizontal() Vect2 {
	return Vect2{a[0], a[1]}
}

// HorizontalDistance returns the length of the horizontal components.
func (a Vect3) HorizontalDistance() float64 {
	return a.Horizontal().Length()
}

func (a Vect3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", a[0], a[1], a[2])
}
