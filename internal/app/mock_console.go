// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"time"

	"github.com/relabs-tech/camera_motion/internal/capture"
	"github.com/relabs-tech/camera_motion/internal/orientation"
)

// RunMockConsole records frames from the mock source for the given duration
// and prints the offsets while it runs. It returns the finished recording.
func RunMockConsole(duration time.Duration, opts capture.Options) (capture.Result, error) {
	src := orientation.NewMockSource()
	session := capture.NewSession(opts)
	session.Authorize()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(duration)

	if ev, err := src.Next(); err == nil {
		session.Observe(ev)
	}
	if err := session.Start(); err != nil {
		return capture.Result{}, err
	}

	for {
		select {
		case <-deadline:
			return session.Stop()
		case <-ticker.C:
			ev, err := src.Next()
			if err != nil {
				session.Stop()
				return capture.Result{}, err
			}
			session.Observe(ev)

			off := session.Offset()
			fmt.Printf(
				"BETA=%4d  ALPHA=%4d  GAMMA=%4d\n",
				off.Beta,
				off.Alpha,
				off.Gamma,
			)
		}
	}
}
