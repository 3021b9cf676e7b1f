// detect/interval.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package detect

import "fmt"

// NoTime is stored in the time fields of an Interval without a conflict.
const NoTime = -1

// Interval is the result of one detection evaluation. When Conflict is
// set, 0 <= TimeIn <= CriticalTime <= TimeOut <= the lookahead time.
type Interval struct {
	Conflict               bool
	TimeIn                 float64
	TimeOut                float64
	CriticalTime           float64 // time of minimum separation
	DistanceAtCriticalTime float64 // 3-D distance at CriticalTime, m
}

// NoConflict is the Interval returned when no violation is predicted.
var NoConflict = Interval{
	TimeIn:                 NoTime,
	TimeOut:                NoTime,
	CriticalTime:           NoTime,
	DistanceAtCriticalTime: NoTime,
}

// Duration returns TimeOut - TimeIn, or 0 without a conflict.
func (iv Interval) Duration() float64 {
	if !iv.Conflict {
		return 0
	}
	return iv.TimeOut - iv.TimeIn
}

// Overlaps reports whether the conflict reaches into [b, t].
func (iv Interval) Overlaps(b, t float64) bool {
	return iv.Conflict && iv.TimeOut >= b && iv.TimeIn <= t
}

func (iv Interval) String() string {
	if !iv.Conflict {
		return "no conflict"
	}
	return fmt.Sprintf("conflict [%.3f, %.3f] tca %.3f dist %.3f", iv.TimeIn, iv.TimeOut,
		iv.CriticalTime, iv.DistanceAtCriticalTime)
}

// span is a closed time interval; it's empty when lo > hi.
type span struct {
	lo, hi float64
}

func (s span) empty() bool {
	return s.lo > s.hi
}

func (s span) intersect(o span) span {
	return span{lo: max(s.lo, o.lo), hi: min(s.hi, o.hi)}
}

var emptySpan = span{lo: 1, hi: 0}
