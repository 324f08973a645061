// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock orientation source that generates smooth
// changing values. The heading turns at 30°/s and wraps from 360 back to 0,
// which is exactly the discontinuity the trajectory builder has to reject.
func NewMockSource() Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Next() (Event, error) {
	elapsed := m.now().Sub(m.start).Seconds()

	return NewEvent(
		math.Mod(elapsed*30, 360),
		15*math.Cos(elapsed*0.7),
		20*math.Sin(elapsed),
	), nil
}
