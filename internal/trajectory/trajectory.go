// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package trajectory turns recorded orientation offsets into a cumulative,
// smoothed camera trajectory.
//
//	recorded offsets --Accumulate--> cumulative deltas --Smooth--> points
package trajectory

import (
	"gonum.org/v1/gonum/stat"

	"github.com/relabs-tech/camera_motion/internal/orientation"
)

const (
	// DefaultWindow is the moving-average window in samples.
	DefaultWindow = 5

	// DefaultWrapThreshold is the largest heading step (degrees) accepted as
	// real motion. Larger jumps are taken as a 360 -> 0 wrap and dropped.
	DefaultWrapThreshold = 150
)

// Point is one smoothed trajectory sample in degrees.
type Point struct {
	Beta  float64 `json:"beta"`
	Alpha float64 `json:"alpha"`
	Gamma float64 `json:"gamma"`
}

// Options controls the pipeline. Zero values select the defaults.
type Options struct {
	Window        int
	WrapThreshold int
}

func (o Options) withDefaults() Options {
	if o.Window < 1 {
		o.Window = DefaultWindow
	}
	if o.WrapThreshold <= 0 {
		o.WrapThreshold = DefaultWrapThreshold
	}
	return o
}

// Build runs Accumulate followed by Smooth.
func Build(samples []orientation.Angles, opts Options) []Point {
	opts = opts.withDefaults()
	return Smooth(Accumulate(samples, opts.WrapThreshold), opts.Window)
}

// Accumulate converts a sequence of N offsets into N-1 running totals of
// frame-to-frame deltas. Only the heading axis is guarded: a step with
// |delta| > wrapThreshold contributes 0 to the heading total.
func Accumulate(samples []orientation.Angles, wrapThreshold int) []orientation.Angles {
	if len(samples) <= 1 {
		return []orientation.Angles{}
	}

	out := make([]orientation.Angles, 0, len(samples)-1)
	var total orientation.Angles
	for i := 1; i < len(samples); i++ {
		d := samples[i].Sub(samples[i-1])
		if abs(d.Alpha) > wrapThreshold {
			d.Alpha = 0
		}
		total = total.Add(d)
		out = append(out, total)
	}
	return out
}

// Smooth applies a trailing moving average of the given window. Sequences
// shorter than the window are returned as-is; otherwise output i is the
// per-axis mean of inputs [max(0, i-window+1), i].
func Smooth(deltas []orientation.Angles, window int) []Point {
	if window < 1 {
		window = DefaultWindow
	}

	n := len(deltas)
	beta := make([]float64, n)
	alpha := make([]float64, n)
	gamma := make([]float64, n)
	for i, d := range deltas {
		beta[i] = float64(d.Beta)
		alpha[i] = float64(d.Alpha)
		gamma[i] = float64(d.Gamma)
	}

	out := make([]Point, n)
	if n < window {
		for i := range out {
			out[i] = Point{Beta: beta[i], Alpha: alpha[i], Gamma: gamma[i]}
		}
		return out
	}

	for i := range out {
		lo := max(0, i-window+1)
		out[i] = Point{
			Beta:  stat.Mean(beta[lo:i+1], nil),
			Alpha: stat.Mean(alpha[lo:i+1], nil),
			Gamma: stat.Mean(gamma[lo:i+1], nil),
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
