package classify

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Logistic is an L2-regularized binary logistic regression fitted with
// L-BFGS on the negative log-likelihood. The zero value is not ready;
// construct with NewLogistic.
type Logistic struct {
	l2  float64 // λ, applied to weights but never to the bias
	tol float64 // gradient-norm stopping threshold

	dims    int       // feature count seen at Fit time
	weights []float64 // len dims+1; last entry is the bias
	fitted  bool
}

// NewLogistic returns a Logistic with DefaultL2 and DefaultTolerance,
// overridden by opts.
func NewLogistic(opts ...Option) *Logistic {
	l := &Logistic{l2: DefaultL2, tol: DefaultTolerance}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Fit trains the model on feature rows x with class indices y.
// Stage 1 (Validate): shape checks, label domain, both-classes-present.
// Stage 2 (Optimize): L-BFGS on the regularized negative log-likelihood,
// with analytic gradient.
// Stage 3 (Finalize): store weights; optimizer failures surface unretried.
// Complexity: O(iterations × cells × features).
func (l *Logistic) Fit(x *mat.Dense, y []int) error {
	if x == nil {
		return ErrNoData
	}
	n, d := x.Dims()
	if n == 0 || d == 0 {
		return ErrNoData
	}
	if len(y) != n {
		return fmt.Errorf("%w: %d labels for %d rows", ErrRowMismatch, len(y), n)
	}
	var seen [2]bool
	for i, cls := range y {
		if cls != 0 && cls != 1 {
			return fmt.Errorf("%w: y[%d] = %d", ErrBadLabel, i, cls)
		}
		seen[cls] = true
	}
	if !seen[0] || !seen[1] {
		return ErrSingleClass
	}

	labels := make([]float64, n)
	for i, cls := range y {
		labels[i] = float64(cls)
	}

	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			return l.nll(x, labels, w)
		},
		Grad: func(grad, w []float64) {
			l.nllGrad(grad, x, labels, w)
		},
	}

	init := make([]float64, d+1)
	settings := &optimize.Settings{GradientThreshold: l.tol}
	result, err := optimize.Minimize(problem, init, settings, &optimize.LBFGS{})
	if err != nil {
		return fmt.Errorf("classify: fit: %w", err)
	}

	l.dims = d
	l.weights = result.X
	l.fitted = true

	return nil
}

// nll is the L2-regularized negative log-likelihood at weight vector w
// (last entry is the bias, excluded from the penalty). Each per-row term
// uses the overflow-safe form max(z,0) − y·z + log1p(exp(−|z|)).
func (l *Logistic) nll(x *mat.Dense, labels, w []float64) float64 {
	n, d := x.Dims()
	bias := w[d]
	var loss float64
	for i := 0; i < n; i++ {
		z := floats.Dot(x.RawRowView(i), w[:d]) + bias
		loss += math.Max(z, 0) - labels[i]*z + math.Log1p(math.Exp(-math.Abs(z)))
	}
	for j := 0; j < d; j++ {
		loss += 0.5 * l.l2 * w[j] * w[j]
	}

	return loss / float64(n)
}

// nllGrad writes the gradient of nll into grad: Xᵀ(σ(z) − y) plus λw on the
// non-bias coordinates, scaled by 1/n to match nll.
func (l *Logistic) nllGrad(grad []float64, x *mat.Dense, labels, w []float64) {
	n, d := x.Dims()
	bias := w[d]
	for j := range grad {
		grad[j] = 0
	}
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		z := floats.Dot(row, w[:d]) + bias
		residual := sigmoid(z) - labels[i]
		floats.AddScaled(grad[:d], residual, row)
		grad[d] += residual
	}
	floats.AddScaled(grad[:d], l.l2, w[:d])
	floats.Scale(1/float64(n), grad)
}

// PredictProba scores feature rows against the fitted model.
// Returns an n×2 matrix: column 0 = P(class A) = 1−σ(z), column 1 = σ(z).
// Errors: ErrNotFitted, ErrNoData, ErrDimensionMismatch.
// Complexity: O(cells × features).
func (l *Logistic) PredictProba(x *mat.Dense) (*mat.Dense, error) {
	if !l.fitted {
		return nil, ErrNotFitted
	}
	if x == nil {
		return nil, ErrNoData
	}
	n, d := x.Dims()
	if n == 0 {
		return nil, ErrNoData
	}
	if d != l.dims {
		return nil, fmt.Errorf("%w: fitted on %d features, got %d", ErrDimensionMismatch, l.dims, d)
	}

	out := mat.NewDense(n, 2, nil)
	bias := l.weights[d]
	for i := 0; i < n; i++ {
		p := sigmoid(floats.Dot(x.RawRowView(i), l.weights[:d]) + bias)
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}

	return out, nil
}

// Predict returns the hard class index per row (argmax of PredictProba).
func (l *Logistic) Predict(x *mat.Dense) ([]int, error) {
	proba, err := l.PredictProba(x)
	if err != nil {
		return nil, err
	}
	n, _ := proba.Dims()
	classes := make([]int, n)
	for i := 0; i < n; i++ {
		if proba.At(i, 1) > proba.At(i, 0) {
			classes[i] = 1
		}
	}

	return classes, nil
}

// sigmoid computes 1/(1+e^−z) without overflowing for large |z|.
func sigmoid(z float64) float64 {
	if z >= 0 {
		e := math.Exp(-z)

		return 1 / (1 + e)
	}
	e := math.Exp(z)

	return e / (1 + e)
}

// compile-time check: Logistic satisfies the pipeline contract.
var _ Classifier = (*Logistic)(nil)
