// Package classify: sentinel errors, the Classifier contract and
// logistic-regression options.
package classify

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors returned by classifiers in this package.
var (
	// ErrNoData indicates an empty training or scoring matrix.
	ErrNoData = errors.New("classify: feature matrix is empty")

	// ErrRowMismatch indicates len(y) differs from the number of feature rows.
	ErrRowMismatch = errors.New("classify: label count does not match feature rows")

	// ErrBadLabel indicates a class index outside {0, 1}.
	ErrBadLabel = errors.New("classify: class indices must be 0 or 1")

	// ErrSingleClass indicates that the combined training set contains only
	// one of the two classes; fitting is rejected before any computation.
	ErrSingleClass = errors.New("classify: training set must contain both classes")

	// ErrNotFitted indicates PredictProba was called before a successful Fit.
	ErrNotFitted = errors.New("classify: model is not fitted")

	// ErrDimensionMismatch indicates scoring features whose column count
	// differs from the training schema.
	ErrDimensionMismatch = errors.New("classify: feature dimension mismatch")

	// ErrBadL2 indicates a negative L2 regularization strength.
	ErrBadL2 = errors.New("classify: L2 strength must be non-negative")

	// ErrBadTolerance indicates a non-positive gradient tolerance.
	ErrBadTolerance = errors.New("classify: tolerance must be positive")
)

// Classifier is the binary probabilistic classifier consumed by the
// annotation pipeline. Implementations carry their fitted state in the
// receiver; one value serves one run.
type Classifier interface {
	// Fit trains on feature rows x with class indices y (0 = class A,
	// 1 = class B). Both classes must appear in y.
	Fit(x *mat.Dense, y []int) error

	// PredictProba scores feature rows and returns an n×2 probability
	// matrix; each row sums to 1.
	PredictProba(x *mat.Dense) (*mat.Dense, error)
}

// Defaults for Logistic. DefaultL2 matches the conventional unit-strength
// ridge penalty; the bias term is never regularized.
const (
	DefaultL2        = 1.0
	DefaultTolerance = 1e-8
)

// Option configures a Logistic classifier.
type Option func(*Logistic)

// WithL2 sets the L2 regularization strength λ (λ ≥ 0; 0 disables the
// penalty). Panics on negative values: option misuse is a programmer error.
func WithL2(lambda float64) Option {
	return func(l *Logistic) {
		if lambda < 0 {
			panic(ErrBadL2.Error())
		}
		l.l2 = lambda
	}
}

// WithTolerance sets the gradient-norm threshold at which the optimizer
// stops. Panics on non-positive values.
func WithTolerance(tol float64) Option {
	return func(l *Logistic) {
		if tol <= 0 {
			panic(ErrBadTolerance.Error())
		}
		l.tol = tol
	}
}
