package diffusion

import "fmt"

// Monitor tracks hard-assignment stability across iterations and applies the
// early-stop rule: no stop before 0-indexed iteration 4, then stop as soon
// as the drift fraction falls below the tolerance.
//
// Drift is the fraction of cells whose assignment differs from the previous
// iteration's; the first observation has no predecessor and reports a drift
// of 1. One Monitor serves one run.
type Monitor struct {
	tolerance float64
	seen      int   // observations so far
	prev      []int // previous iteration's assignments
	drift     float64
}

// NewMonitor returns a Monitor with the given drift tolerance.
// Panics on a non-positive tolerance: the value comes from validated options.
func NewMonitor(tolerance float64) *Monitor {
	if tolerance <= 0 {
		panic(ErrBadDriftTolerance.Error())
	}

	return &Monitor{tolerance: tolerance, drift: 1}
}

// Observe records one iteration's hard assignments and reports the drift
// against the previous iteration plus whether the loop may stop now.
// Assignments are copied; the caller may reuse the slice.
// Panics on a length change mid-run (programmer error).
func (m *Monitor) Observe(assignments []int) (drift float64, stop bool) {
	if m.prev != nil && len(assignments) != len(m.prev) {
		panic(fmt.Sprintf("diffusion: assignment length changed mid-run: %d → %d", len(m.prev), len(assignments)))
	}

	if m.prev == nil {
		m.prev = append([]int(nil), assignments...)
		m.seen = 1
		m.drift = 1

		return m.drift, false
	}

	changed := 0
	for i, a := range assignments {
		if a != m.prev[i] {
			changed++
		}
	}
	m.drift = float64(changed) / float64(len(assignments))
	copy(m.prev, assignments)
	m.seen++

	// seen counts observations; observation k is 0-indexed iteration k−1.
	stop = m.seen > stableFrom && m.drift < m.tolerance

	return m.drift, stop
}

// Drift returns the drift of the most recent observation.
func (m *Monitor) Drift() float64 { return m.drift }
