// Package diffusion: sentinel errors, typed diagnostics and run options.
package diffusion

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors returned by Propagate before any iteration starts.
// τ and iteration-budget violations surface as the confidence package's
// ErrBadThreshold / ErrBadIterations via the schedule computation.
var (
	// ErrNilGraph indicates a nil similarity graph.
	ErrNilGraph = errors.New("diffusion: similarity graph is nil")

	// ErrNilInitial indicates a nil initial probability matrix.
	ErrNilInitial = errors.New("diffusion: initial probability matrix is nil")

	// ErrNonSquareGraph indicates a similarity graph that is not square.
	ErrNonSquareGraph = errors.New("diffusion: similarity graph must be square")

	// ErrTwoColumns indicates an initial matrix without exactly two columns.
	ErrTwoColumns = errors.New("diffusion: probability matrix must have exactly two columns")

	// ErrDimensionMismatch indicates graph order differing from the number
	// of probability rows.
	ErrDimensionMismatch = errors.New("diffusion: graph order does not match probability rows")

	// ErrScoreLength indicates a confidence-score slice whose length differs
	// from the number of cells.
	ErrScoreLength = errors.New("diffusion: confidence score count does not match cells")

	// ErrBadWeight indicates a negative, NaN or infinite graph weight.
	ErrBadWeight = errors.New("diffusion: graph weights must be finite and non-negative")

	// ErrBadMaskEpsilon indicates a non-positive mask epsilon.
	ErrBadMaskEpsilon = errors.New("diffusion: mask epsilon must be positive")

	// ErrBadDriftTolerance indicates a non-positive drift tolerance.
	ErrBadDriftTolerance = errors.New("diffusion: drift tolerance must be positive")

	// ErrBadRowSumEpsilon indicates a negative row-sum epsilon.
	ErrBadRowSumEpsilon = errors.New("diffusion: row-sum epsilon must be non-negative")
)

// DegenerateRowError is the fatal diagnostic for propagation steps that
// produce rows with zero (or near-zero) sum: isolated cells with no
// effective neighbor mass after masking. The run is aborted; silently
// renormalizing such rows would propagate undefined values.
type DegenerateRowError struct {
	Iteration int   // 0-indexed iteration that produced the rows
	Cells     []int // affected cell indices, ascending
}

// Error implements the error interface with enough context to diagnose the
// disconnected cells.
func (e *DegenerateRowError) Error() string {
	return fmt.Sprintf("diffusion: iteration %d produced zero-sum rows for cells %v", e.Iteration, e.Cells)
}

// NonConvergenceWarning is the non-fatal diagnostic attached to a Result
// when the loop exhausts its budget without the drift falling below the
// tolerance. The run's output remains usable.
type NonConvergenceWarning struct {
	Drift      float64 // drift at the final iteration
	Tolerance  float64 // the tolerance the drift failed to reach
	Iterations int     // iterations executed (the full budget)
}

// String formats the warning for operator-facing surfaces.
func (w *NonConvergenceWarning) String() string {
	return fmt.Sprintf("diffusion: did not converge within %d iterations (drift %.4f ≥ %.4f)",
		w.Iterations, w.Drift, w.Tolerance)
}

// Defaults for Options.
const (
	// DefaultMaskEpsilon is written into both columns of an uncertain row:
	// small enough to silence the cell, non-zero so the row survives
	// renormalization.
	DefaultMaskEpsilon = 1e-6

	// DefaultDriftTolerance is the assignment-drift fraction below which the
	// loop stops early.
	DefaultDriftTolerance = 1e-3

	// DefaultRowSumEpsilon is the cut below which a post-propagation row sum
	// counts as degenerate.
	DefaultRowSumEpsilon = 1e-12
)

// stableFrom is the first 0-indexed iteration allowed to stop early; earlier
// iterations ride out transient initial fluctuations.
const stableFrom = 4

// Options holds the engine knobs beyond τ and the iteration budget.
type Options struct {
	MaskEpsilon    float64 // per-column fill for uncertain rows
	DriftTolerance float64 // early-stop threshold on assignment drift
	RowSumEpsilon  float64 // degenerate-row detection cut
	RecordMasks    bool    // keep the per-iteration certainty masks in the Result
}

// Option mutates Options; nonsensical values panic (programmer error).
type Option func(*Options)

// WithMaskEpsilon overrides the uncertain-row fill value. Must be positive.
func WithMaskEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps <= 0 {
			panic(ErrBadMaskEpsilon.Error())
		}
		o.MaskEpsilon = eps
	}
}

// WithDriftTolerance overrides the early-stop drift threshold. Must be positive.
func WithDriftTolerance(tol float64) Option {
	return func(o *Options) {
		if tol <= 0 {
			panic(ErrBadDriftTolerance.Error())
		}
		o.DriftTolerance = tol
	}
}

// WithRowSumEpsilon overrides the degenerate-row cut. Must be non-negative;
// zero detects exactly-zero rows only.
func WithRowSumEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps < 0 {
			panic(ErrBadRowSumEpsilon.Error())
		}
		o.RowSumEpsilon = eps
	}
}

// WithoutMaskRecording drops the per-iteration masks from the Result for
// memory-tight runs; the annotation pipeline keeps them for diagnostics.
func WithoutMaskRecording() Option {
	return func(o *Options) { o.RecordMasks = false }
}

// DefaultOptions returns the documented defaults with mask recording on.
func DefaultOptions() Options {
	return Options{
		MaskEpsilon:    DefaultMaskEpsilon,
		DriftTolerance: DefaultDriftTolerance,
		RowSumEpsilon:  DefaultRowSumEpsilon,
		RecordMasks:    true,
	}
}

// Result is the terminal state of one propagation run. Both terminal states
// ("converged-early" and "exhausted") produce usable probabilities and
// assignments; only the Warning distinguishes them.
type Result struct {
	// Probabilities is the final n×2 row-stochastic matrix, owned by the
	// caller after the run.
	Probabilities *mat.Dense

	// Assignments holds the final hard class index per cell (argmax per row;
	// ties resolve to class A).
	Assignments []int

	// Masks holds the certainty mask of every executed iteration when
	// RecordMasks is set, nil otherwise.
	Masks [][]bool

	// Thresholds holds the quantile threshold τ_i of every executed iteration.
	Thresholds []float64

	// Iterations is the number of executed iterations (≤ the budget).
	Iterations int

	// Converged reports early stop; false means the budget was exhausted.
	Converged bool

	// FinalDrift is the assignment drift at the last executed iteration.
	FinalDrift float64

	// Warning is non-nil exactly when the budget was exhausted without the
	// drift falling below the tolerance.
	Warning *NonConvergenceWarning
}
