// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
)

// Event is a single orientation reading as delivered by a device
// orientation sensor (phone browser, MQTT bridge, mock source).
// Any angle may be missing; a nil pointer means "not reported".
type Event struct {
	Alpha *float64 `json:"alpha"` // heading (Z axis) 0 ~ 360
	Beta  *float64 `json:"beta"`  // front/back (X axis) -180 ~ 180
	Gamma *float64 `json:"gamma"` // left/right (Y axis) -90 ~ 90
}

// NewEvent builds an Event with all three angles present.
func NewEvent(alpha, beta, gamma float64) Event {
	return Event{Alpha: &alpha, Beta: &beta, Gamma: &gamma}
}

// Angles holds integer degrees for the three axes. It is used both for
// absolute readings and for offsets relative to a reference.
type Angles struct {
	Beta  int `json:"beta"`
	Alpha int `json:"alpha"`
	Gamma int `json:"gamma"`
}

// Sub returns a - ref per axis.
func (a Angles) Sub(ref Angles) Angles {
	return Angles{
		Beta:  a.Beta - ref.Beta,
		Alpha: a.Alpha - ref.Alpha,
		Gamma: a.Gamma - ref.Gamma,
	}
}

// Add returns a + b per axis.
func (a Angles) Add(b Angles) Angles {
	return Angles{
		Beta:  a.Beta + b.Beta,
		Alpha: a.Alpha + b.Alpha,
		Gamma: a.Gamma + b.Gamma,
	}
}

// FromEvent converts a raw event into integer degrees.
//
// This is the only place where missing readings are handled: an absent,
// NaN or zero angle becomes 0, anything else is rounded to the nearest
// degree with halves rounded up (2.5 -> 3, -2.5 -> -2).
func FromEvent(ev Event) Angles {
	return Angles{
		Beta:  roundDegrees(ev.Beta),
		Alpha: roundDegrees(ev.Alpha),
		Gamma: roundDegrees(ev.Gamma),
	}
}

func roundDegrees(v *float64) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return int(math.Floor(*v + 0.5))
}

// Source is anything that can provide orientation events over time:
// mock source, MQTT subscription, replay from file.
type Source interface {
	Next() (Event, error)
}
