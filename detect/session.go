// detect/session.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package detect

import (
	"github.com/airsep/airsep/math"
	"github.com/airsep/airsep/units"
)

// Session runs one detector for one aircraft pair and caches the result
// of the most recent evaluation. A Session must not be used from more
// than one goroutine at a time.
type Session struct {
	detector   Detector
	filterTime float64

	last     Interval
	conflict bool
	detected bool
}

func NewSession(d Detector) *Session {
	return &Session{detector: d}
}

// SetDetector replaces the detector; the cached result is kept until the
// next detection.
func (s *Session) SetDetector(d Detector) {
	s.detector = d
}

func (s *Session) Detector() Detector {
	return s.detector
}

// SetFilterTime sets the minimum duration, in seconds, of a future
// conflict for it to be reported. Negative or non-finite values are
// rejected.
func (s *Session) SetFilterTime(t float64) bool {
	if !math.IsFinite(t) || t < 0 {
		return false
	}
	s.filterTime = t
	return true
}

func (s *Session) FilterTime() float64 {
	return s.filterTime
}

// Detection evaluates the pair over the lookahead [0, T] and reports
// whether a conflict that passes the filter was found.
func (s *Session) Detection(g Geometry, T float64) bool {
	return s.DetectionBetween(g, 0, T)
}

// DetectionBetween is like Detection, but the conflict must also reach
// into [B, T]. The cached interval is the one over [0, T].
func (s *Session) DetectionBetween(g Geometry, B, T float64) bool {
	iv := NoConflict
	if s.detector != nil {
		iv = s.detector.Detect(g, T)
	}
	s.last, s.detected = iv, true
	s.conflict = iv.Overlaps(B, T) && s.passesFilter(iv)
	return s.conflict
}

// DetectionIn is Detection with the lookahead given in unit. An unknown
// unit reports no conflict and leaves the cached result alone.
func (s *Session) DetectionIn(g Geometry, T float64, unit string) bool {
	t, err := units.ToInternal(T, unit)
	if err != nil {
		return false
	}
	return s.Detection(g, t)
}

// passesFilter drops short conflicts that have yet to start; one that is
// already under way is always reported.
func (s *Session) passesFilter(iv Interval) bool {
	if !iv.Conflict {
		return false
	}
	return math.AlmostZero(iv.TimeIn) || iv.Duration() >= s.filterTime
}

func (s *Session) checkDetected() bool {
	if !s.detected && debugChecks {
		panic("detect: Session queried before any detection")
	}
	return s.detected
}

// Conflict returns the result of the last detection.
func (s *Session) Conflict() bool {
	return s.checkDetected() && s.conflict
}

// Interval returns the cached interval and whether a detection has run.
func (s *Session) Interval() (Interval, bool) {
	if !s.checkDetected() {
		return NoConflict, false
	}
	return s.last, true
}

func (s *Session) field(f func(Interval) float64) float64 {
	if !s.checkDetected() {
		return NoTime
	}
	return f(s.last)
}

func (s *Session) TimeIn() float64 {
	return s.field(func(iv Interval) float64 { return iv.TimeIn })
}

func (s *Session) TimeOut() float64 {
	return s.field(func(iv Interval) float64 { return iv.TimeOut })
}

func (s *Session) CriticalTime() float64 {
	return s.field(func(iv Interval) float64 { return iv.CriticalTime })
}

func (s *Session) DistanceAtCriticalTime() float64 {
	return s.field(func(iv Interval) float64 { return iv.DistanceAtCriticalTime })
}

// ConflictDuration returns TimeOut - TimeIn of the cached interval, 0 if
// it holds no conflict.
func (s *Session) ConflictDuration() float64 {
	return s.field(Interval.Duration)
}
