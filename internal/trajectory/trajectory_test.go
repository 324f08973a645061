// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package trajectory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/camera_motion/internal/orientation"
)

func a(beta, alpha, gamma int) orientation.Angles {
	return orientation.Angles{Beta: beta, Alpha: alpha, Gamma: gamma}
}

func TestAccumulate_Length(t *testing.T) {
	for n := 0; n <= 8; n++ {
		samples := make([]orientation.Angles, n)
		for i := range samples {
			samples[i] = a(i, i*2, -i)
		}
		got := Accumulate(samples, DefaultWrapThreshold)
		want := max(0, n-1)
		assert.Len(t, got, want, "n=%d", n)
	}
}

func TestAccumulate_EmptyIsNotNil(t *testing.T) {
	assert.NotNil(t, Accumulate(nil, DefaultWrapThreshold))
	assert.Empty(t, Accumulate([]orientation.Angles{a(1, 2, 3)}, DefaultWrapThreshold))
}

func TestAccumulate_RunningSum(t *testing.T) {
	samples := []orientation.Angles{a(0, 0, 0), a(10, 0, 0), a(20, 0, 0)}

	got := Accumulate(samples, DefaultWrapThreshold)

	want := []orientation.Angles{a(10, 0, 0), a(20, 0, 0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Accumulate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulate_MatchesSumOfDeltas(t *testing.T) {
	samples := []orientation.Angles{
		a(3, 10, -4), a(7, 20, -1), a(-2, 35, 6), a(-9, 30, 12), a(1, 60, 0),
	}

	got := Accumulate(samples, DefaultWrapThreshold)
	require.Len(t, got, len(samples)-1)

	for i := range got {
		var want orientation.Angles
		for k := 0; k <= i; k++ {
			want = want.Add(samples[k+1].Sub(samples[k]))
		}
		assert.Equal(t, want, got[i], "index %d", i)
		// with no wrap the total telescopes to last - first
		assert.Equal(t, samples[i+1].Sub(samples[0]), got[i], "index %d", i)
	}
}

func TestAccumulate_HeadingWrapIgnored(t *testing.T) {
	samples := []orientation.Angles{a(0, 0, 0), a(0, 170, 0), a(0, 10, 0)}

	got := Accumulate(samples, DefaultWrapThreshold)

	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Alpha)
	assert.Equal(t, 0, got[1].Alpha)
}

func TestAccumulate_WrapGuardIsPerStepAndPerAxis(t *testing.T) {
	samples := []orientation.Angles{
		a(0, 350, 0),
		a(5, 355, 1),  // +5 heading
		a(200, 2, 2),  // heading -353 dropped, beta +195 kept
		a(210, 10, 3), // +8 heading
	}

	got := Accumulate(samples, DefaultWrapThreshold)

	want := []orientation.Angles{a(5, 5, 1), a(200, 5, 2), a(210, 13, 3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Accumulate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulate_ThresholdIsExclusive(t *testing.T) {
	got := Accumulate([]orientation.Angles{a(0, 0, 0), a(0, 150, 0), a(0, -1, 0)}, 150)

	require.Len(t, got, 2)
	assert.Equal(t, 150, got[0].Alpha)
	assert.Equal(t, 150, got[1].Alpha, "-151 step must be dropped")
}

func TestSmooth_ShortInputBypassed(t *testing.T) {
	deltas := []orientation.Angles{a(10, 1, 2), a(20, 3, 4), a(30, 5, 6), a(40, 7, 8)}

	got := Smooth(deltas, 5)

	want := []Point{{10, 1, 2}, {20, 3, 4}, {30, 5, 6}, {40, 7, 8}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Smooth() mismatch (-want +got):\n%s", diff)
	}
}

func TestSmooth_TrailingWindow(t *testing.T) {
	deltas := []orientation.Angles{
		a(1, 0, 0), a(2, 0, 0), a(3, 0, 0), a(4, 0, 0), a(5, 0, 0), a(6, 0, 0), a(10, 0, 0),
	}

	got := Smooth(deltas, 5)

	require.Len(t, got, len(deltas))
	wantBeta := []float64{1, 1.5, 2, 2.5, 3, 4, 5.6}
	for i, w := range wantBeta {
		assert.InDelta(t, w, got[i].Beta, 1e-12, "index %d", i)
	}
}

func TestSmooth_FullWindowIsMeanOfLastW(t *testing.T) {
	deltas := []orientation.Angles{
		a(3, -8, 1), a(9, 4, 0), a(-2, 7, 5), a(11, 0, -3), a(6, 2, 2), a(-5, 13, 9), a(4, -1, 7),
	}
	const w = 5

	got := Smooth(deltas, w)

	for i := w - 1; i < len(deltas); i++ {
		var sb, sa, sg float64
		for _, d := range deltas[i-w+1 : i+1] {
			sb += float64(d.Beta)
			sa += float64(d.Alpha)
			sg += float64(d.Gamma)
		}
		assert.InDelta(t, sb/w, got[i].Beta, 1e-12, "beta %d", i)
		assert.InDelta(t, sa/w, got[i].Alpha, 1e-12, "alpha %d", i)
		assert.InDelta(t, sg/w, got[i].Gamma, 1e-12, "gamma %d", i)
	}
}

func TestSmooth_ConstantInputUnchanged(t *testing.T) {
	deltas := make([]orientation.Angles, 12)
	for i := range deltas {
		deltas[i] = a(7, -3, 42)
	}

	for _, p := range Smooth(deltas, DefaultWindow) {
		assert.Equal(t, Point{7, -3, 42}, p)
	}
}

func TestSmooth_InvalidWindowUsesDefault(t *testing.T) {
	deltas := []orientation.Angles{a(1, 0, 0), a(2, 0, 0), a(3, 0, 0), a(4, 0, 0), a(5, 0, 0)}

	assert.Equal(t, Smooth(deltas, DefaultWindow), Smooth(deltas, 0))
	assert.Equal(t, Smooth(deltas, DefaultWindow), Smooth(deltas, -3))
}

func TestBuild_WorkedExample(t *testing.T) {
	samples := []orientation.Angles{a(0, 0, 0), a(10, 0, 0), a(20, 0, 0)}

	got := Build(samples, Options{})

	want := []Point{{Beta: 10}, {Beta: 20}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_UsesOptions(t *testing.T) {
	samples := []orientation.Angles{a(0, 0, 0), a(0, 100, 0), a(0, 200, 0), a(0, 300, 0)}

	loose := Build(samples, Options{Window: 10, WrapThreshold: 1000})
	tight := Build(samples, Options{Window: 10, WrapThreshold: 50})

	assert.Equal(t, 300.0, loose[2].Alpha)
	assert.Equal(t, 0.0, tight[2].Alpha)
}
