// resolve/outcome.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package resolve

import (
	"fmt"

	"github.com/airsep/airsep/math"
	"github.com/airsep/airsep/units"
)

type Outcome int

const (
	// Unnecessary: no conflict or loss of separation within the lookahead.
	Unnecessary Outcome = iota
	// Conflict: a future conflict is predicted.
	Conflict
	// LoSConverging: separation is lost and the pair is still closing.
	LoSConverging
	// LoSDiverging: separation is lost but range is already increasing.
	LoSDiverging
	// None: a maneuver was needed but none exists within the bounds.
	None
)

func (o Outcome) String() string {
	switch o {
	case Unnecessary:
		return "Unnecessary"
	case Conflict:
		return "Conflict"
	case LoSConverging:
		return "LoSConverging"
	case LoSDiverging:
		return "LoSDiverging"
	case None:
		return "None"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// LossOfSeparation reports whether o is one of the LoS outcomes.
func (o Outcome) LossOfSeparation() bool {
	return o == LoSConverging || o == LoSDiverging
}

// Maneuver is a single-axis resolution. Value is a track in radians or a
// speed in m/s; Velocity is the full ownship velocity it implies. Value
// and Velocity are meaningless unless Exists is set.
type Maneuver struct {
	Exists   bool
	Value    float64
	Velocity math.Vect3
}

// Optimal is the joint track and ground speed resolution.
type Optimal struct {
	Exists      bool
	Track       float64 // radians
	GroundSpeed float64 // m/s
	Velocity    math.Vect3
}

type Resolution struct {
	Outcome Outcome
	// Level is the sensitivity level used, taken at ownship altitude.
	Level int

	Track         Maneuver
	GroundSpeed   Maneuver
	VerticalSpeed Maneuver
	Optimal       Optimal
}

// AnyManeuver reports whether a maneuver exists in at least one
// dimension.
func (r Resolution) AnyManeuver() bool {
	return r.Track.Exists || r.GroundSpeed.Exists || r.VerticalSpeed.Exists || r.Optimal.Exists
}

func (r Resolution) String() string {
	s := r.Outcome.String()
	if r.Track.Exists {
		s += fmt.Sprintf(" trk %.3f deg", math.Degrees(r.Track.Value))
	}
	if r.GroundSpeed.Exists {
		s += " gs " + units.Format(r.GroundSpeed.Value, "kn")
	}
	if r.VerticalSpeed.Exists {
		s += " vs " + units.Format(r.VerticalSpeed.Value, "fpm")
	}
	if r.Optimal.Exists {
		s += fmt.Sprintf(" opt %.3f deg/%s", math.Degrees(r.Optimal.Track), units.Format(r.Optimal.GroundSpeed, "kn"))
	}
	return s
}
