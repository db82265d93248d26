package diffusion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cellprop/diffusion"
)

// TestMonitor_NoEarlyStopBeforeIteration4 feeds a perfectly stable synthetic
// assignment sequence and verifies the loop may stop exactly at 0-indexed
// iteration 4 (the 5th observation) and not a step earlier.
func TestMonitor_NoEarlyStopBeforeIteration4(t *testing.T) {
	m := diffusion.NewMonitor(0.001)
	stable := []int{0, 1, 0, 1}

	for i := 0; i < 4; i++ {
		_, stop := m.Observe(stable)
		assert.False(t, stop, "iteration %d must never trigger early stop", i)
	}

	drift, stop := m.Observe(stable)
	assert.True(t, stop, "iteration 4 with zero drift must stop")
	assert.Equal(t, 0.0, drift)
}

// TestMonitor_OscillationNeverStops alternates two assignments and verifies
// the drift stays at 1 and the stop signal never fires.
func TestMonitor_OscillationNeverStops(t *testing.T) {
	m := diffusion.NewMonitor(0.001)
	a := []int{0, 0, 0}
	b := []int{1, 1, 1}

	for i := 0; i < 20; i++ {
		cur := a
		if i%2 == 1 {
			cur = b
		}
		drift, stop := m.Observe(cur)
		assert.False(t, stop, "iteration %d must not stop while oscillating", i)
		if i > 0 {
			assert.Equal(t, 1.0, drift, "full flips have drift 1")
		}
	}
	assert.Equal(t, 1.0, m.Drift())
}

// TestMonitor_DriftBoundary verifies the strict comparison against the
// tolerance: drift exactly at the tolerance must not stop.
func TestMonitor_DriftBoundary(t *testing.T) {
	m := diffusion.NewMonitor(0.001)

	base := make([]int, 1000)
	oneFlip := make([]int, 1000)
	copy(oneFlip, base)
	oneFlip[0] = 1

	// Warm past the stability window, alternating a single cell so that the
	// drift is exactly 1/1000 = tolerance at every step.
	for i := 0; i < 10; i++ {
		cur := base
		if i%2 == 1 {
			cur = oneFlip
		}
		drift, stop := m.Observe(cur)
		if i > 0 {
			assert.Equal(t, 0.001, drift)
		}
		assert.False(t, stop, "drift equal to the tolerance must not stop (iteration %d)", i)
	}

	// Now hold still: repeating the last assignment gives drift 0 < tolerance.
	_, stop := m.Observe(oneFlip)
	assert.True(t, stop)
}

// TestMonitor_FirstObservationDrift pins the drift of the first observation
// at 1 (no predecessor to compare against).
func TestMonitor_FirstObservationDrift(t *testing.T) {
	m := diffusion.NewMonitor(0.5)
	drift, stop := m.Observe([]int{0})
	assert.Equal(t, 1.0, drift)
	assert.False(t, stop)
}

// TestMonitor_Panics verifies the programmer-error guards.
func TestMonitor_Panics(t *testing.T) {
	assert.Panics(t, func() { diffusion.NewMonitor(0) })

	m := diffusion.NewMonitor(0.001)
	_, _ = m.Observe([]int{0, 1})
	require.Panics(t, func() { m.Observe([]int{0}) }, "length change mid-run must panic")
}
