// Package confidence: score, schedule and mask kernels.
package confidence

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for confidence computation.
var (
	// ErrNilSignal indicates a nil score/probability matrix.
	ErrNilSignal = errors.New("confidence: signal matrix is nil")

	// ErrTwoColumns indicates a signal matrix without exactly two columns.
	ErrTwoColumns = errors.New("confidence: signal matrix must have exactly two columns")

	// ErrNoCells indicates an empty signal matrix or score slice.
	ErrNoCells = errors.New("confidence: at least one cell is required")

	// ErrBadThreshold indicates τ outside [0, 1].
	ErrBadThreshold = errors.New("confidence: threshold must be in [0, 1]")

	// ErrBadIterations indicates a non-positive iteration budget.
	ErrBadIterations = errors.New("confidence: iteration budget must be ≥ 1")

	// ErrNaNScore indicates a NaN confidence score, which would poison the
	// quantile; rejected at scoring time.
	ErrNaNScore = errors.New("confidence: NaN in confidence scores")
)

// Scores computes the per-cell confidence |signal[i,0] − signal[i,1]| from a
// two-column signal matrix. The result is immutable for the lifetime of a
// run: callers must not recompute it from post-diffusion probabilities.
// Complexity: O(cells).
func Scores(signal mat.Matrix) ([]float64, error) {
	if signal == nil {
		return nil, ErrNilSignal
	}
	n, c := signal.Dims()
	if c != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTwoColumns, c)
	}
	if n == 0 {
		return nil, ErrNoCells
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		s := math.Abs(signal.At(i, 0) - signal.At(i, 1))
		if math.IsNaN(s) {
			return nil, fmt.Errorf("%w: cell %d", ErrNaNScore, i)
		}
		scores[i] = s
	}

	return scores, nil
}

// Schedule returns the per-iteration quantile thresholds
// τ_i = τ × (1 − i/(n−1)) for i in 0..n−1: a linear decay from τ to 0.
// For n == 1 the schedule is the single threshold τ.
// Errors: ErrBadThreshold, ErrBadIterations.
func Schedule(tau float64, iterations int) ([]float64, error) {
	if tau < 0 || tau > 1 || math.IsNaN(tau) {
		return nil, fmt.Errorf("%w: got %g", ErrBadThreshold, tau)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadIterations, iterations)
	}
	if iterations == 1 {
		return []float64{tau}, nil
	}

	thresholds := make([]float64, iterations)
	span := float64(iterations - 1)
	for i := range thresholds {
		thresholds[i] = tau * (1 - float64(i)/span)
	}
	// Pin the endpoint: float division may leave a residual above zero.
	thresholds[iterations-1] = 0

	return thresholds, nil
}

// Threshold returns the linear-interpolation quantile of scores at q,
// the cut a score must strictly exceed to count as certain.
//
// The quantile interpolates between order statistics at fractional rank
// h = q × (n−1). This is the convention the certainty masks are defined
// under; it is pinned here rather than delegated so the mask boundary is
// exact and stable.
// Errors: ErrNoCells, ErrBadThreshold.
// Complexity: O(cells log cells) for the sort.
func Threshold(scores []float64, q float64) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrNoCells
	}
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, fmt.Errorf("%w: got %g", ErrBadThreshold, q)
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	h := q * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo], nil
	}

	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo]), nil
}

// MaskAt returns the certainty mask at quantile threshold q:
// mask[i] is true when scores[i] strictly exceeds Threshold(scores, q).
// Monotonicity: for q' ≤ q, MaskAt(scores, q') admits a superset of the
// cells admitted by MaskAt(scores, q).
// Complexity: O(cells log cells).
func MaskAt(scores []float64, q float64) ([]bool, error) {
	cut, err := Threshold(scores, q)
	if err != nil {
		return nil, err
	}

	mask := make([]bool, len(scores))
	for i, s := range scores {
		mask[i] = s > cut
	}

	return mask, nil
}
