package diffusion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cellprop/confidence"
)

// Propagate runs confidence-gated label propagation.
//
// Inputs (all read-only for the duration of the run):
//   - graph:   n×n non-negative weighted similarity matrix over the target
//     cells; neither symmetry nor row-stochasticity is required.
//   - initial: n×2 class-probability matrix from the classifier; the engine
//     copies it into its own working buffer and never mutates the input.
//   - scores:  fixed per-cell confidence (see confidence.Scores), length n.
//   - tau:     overall certainty threshold in [0, 1].
//   - iterations: the budget (≥ 1; ≥ 6 for the early stop to ever arm).
//
// Stage 1 (Validate): shapes, weights, scores; schedule derivation checks
// τ and the budget. All failures precede any numerical work.
// Stage 2 (Iterate): mask → propagate → renormalize → monitor, stopping
// early once drift falls below the tolerance from iteration 4 onward.
// Stage 3 (Finalize): assemble the Result; attach a NonConvergenceWarning
// when the budget ran out with drift still at or above the tolerance.
//
// Errors: the sentinels of this package, confidence.ErrBadThreshold /
// confidence.ErrBadIterations from the schedule, and *DegenerateRowError
// when a propagation step produces a zero-sum row.
// Complexity: O(iterations × n²) time, O(n) extra memory beyond two n×2
// buffers.
func Propagate(graph, initial mat.Matrix, scores []float64, tau float64, iterations int, opts ...Option) (*Result, error) {
	if graph == nil {
		return nil, ErrNilGraph
	}
	if initial == nil {
		return nil, ErrNilInitial
	}
	gr, gc := graph.Dims()
	if gr != gc {
		return nil, fmt.Errorf("%w: %d×%d", ErrNonSquareGraph, gr, gc)
	}
	n, c := initial.Dims()
	if c != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTwoColumns, c)
	}
	if n != gr {
		return nil, fmt.Errorf("%w: graph %d×%d, probabilities %d×2", ErrDimensionMismatch, gr, gc, n)
	}
	if len(scores) != n {
		return nil, fmt.Errorf("%w: %d scores for %d cells", ErrScoreLength, len(scores), n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if w := graph.At(i, j); w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("%w: graph[%d,%d] = %g", ErrBadWeight, i, j, w)
			}
		}
	}

	thresholds, err := confidence.Schedule(tau, iterations)
	if err != nil {
		return nil, err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// The working buffer and the product buffer are owned exclusively by
	// this run; inputs stay untouched.
	work := mat.DenseCopyOf(initial)
	product := mat.NewDense(n, 2, nil)
	monitor := NewMonitor(o.DriftTolerance)
	assignments := make([]int, n)

	result := &Result{
		Thresholds: make([]float64, 0, iterations),
	}
	if o.RecordMasks {
		result.Masks = make([][]bool, 0, iterations)
	}

	for i, thr := range thresholds {
		mask, maskErr := confidence.MaskAt(scores, thr)
		if maskErr != nil {
			return nil, maskErr
		}

		// Mask: silence uncertain rows. Selection comes from the immutable
		// initial scores; the suppressed rows belong to the working matrix.
		for r := 0; r < n; r++ {
			if !mask[r] {
				work.Set(r, 0, o.MaskEpsilon)
				work.Set(r, 1, o.MaskEpsilon)
			}
		}

		// Propagate and renormalize.
		if degenerate := stepOnce(work, product, graph, o.RowSumEpsilon); len(degenerate) > 0 {
			return nil, &DegenerateRowError{Iteration: i, Cells: degenerate}
		}

		for r := 0; r < n; r++ {
			assignments[r] = 0
			if work.At(r, 1) > work.At(r, 0) {
				assignments[r] = 1
			}
		}

		result.Iterations = i + 1
		result.Thresholds = append(result.Thresholds, thr)
		if o.RecordMasks {
			result.Masks = append(result.Masks, mask)
		}

		drift, stop := monitor.Observe(assignments)
		result.FinalDrift = drift
		if stop {
			result.Converged = true

			break
		}
	}

	result.Probabilities = work
	result.Assignments = assignments
	if !result.Converged {
		result.Warning = &NonConvergenceWarning{
			Drift:      result.FinalDrift,
			Tolerance:  o.DriftTolerance,
			Iterations: result.Iterations,
		}
	}

	return result, nil
}

// stepOnce performs one propagate+renormalize step: product = graph·work,
// then work[r] = product[r] / sum(product[r]). Rows whose sum does not
// exceed rowSumEps are reported as degenerate (ascending indices) and left
// unwritten; callers treat a non-empty return as fatal.
func stepOnce(work, product *mat.Dense, graph mat.Matrix, rowSumEps float64) []int {
	product.Mul(graph, work)

	n, _ := work.Dims()
	var degenerate []int
	for r := 0; r < n; r++ {
		a, b := product.At(r, 0), product.At(r, 1)
		sum := a + b
		if !(sum > rowSumEps) || math.IsInf(sum, 0) {
			degenerate = append(degenerate, r)

			continue
		}
		work.Set(r, 0, a/sum)
		work.Set(r, 1, b/sum)
	}

	return degenerate
}
