package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cellprop/classify"
)

// trainXY builds a small linearly separable problem: class 0 clusters around
// x = −2, class 1 around x = +2, with a second uninformative feature.
func trainXY() (*mat.Dense, []int) {
	x := mat.NewDense(6, 2, []float64{
		-2.0, 0.3,
		-1.8, -0.1,
		-2.2, 0.2,
		+2.0, 0.0,
		+1.9, 0.4,
		+2.1, -0.2,
	})
	y := []int{0, 0, 0, 1, 1, 1}

	return x, y
}

// TestLogistic_FitValidation covers shape checks, label-domain checks and
// the both-classes-present requirement.
func TestLogistic_FitValidation(t *testing.T) {
	clf := classify.NewLogistic()

	err := clf.Fit(nil, nil)
	assert.ErrorIs(t, err, classify.ErrNoData, "nil matrix must error")

	x := mat.NewDense(2, 1, []float64{1, 2})
	err = clf.Fit(x, []int{0})
	assert.ErrorIs(t, err, classify.ErrRowMismatch, "label count must match rows")

	err = clf.Fit(x, []int{0, 2})
	assert.ErrorIs(t, err, classify.ErrBadLabel, "class indices outside {0,1} must error")

	err = clf.Fit(x, []int{1, 1})
	assert.ErrorIs(t, err, classify.ErrSingleClass, "single-class training must be rejected")
}

// TestLogistic_PredictBeforeFit verifies the ErrNotFitted guard.
func TestLogistic_PredictBeforeFit(t *testing.T) {
	clf := classify.NewLogistic()
	_, err := clf.PredictProba(mat.NewDense(1, 2, []float64{0, 0}))
	assert.ErrorIs(t, err, classify.ErrNotFitted)
}

// TestLogistic_SeparableProblem fits a separable 2-feature problem and checks
// that probabilities are well-ordered, rows sum to 1, and hard predictions
// recover the training labels.
func TestLogistic_SeparableProblem(t *testing.T) {
	x, y := trainXY()
	clf := classify.NewLogistic()
	require.NoError(t, clf.Fit(x, y))

	proba, err := clf.PredictProba(x)
	require.NoError(t, err)
	n, c := proba.Dims()
	require.Equal(t, 6, n)
	require.Equal(t, 2, c)

	for i := 0; i < n; i++ {
		sum := proba.At(i, 0) + proba.At(i, 1)
		assert.InDelta(t, 1.0, sum, 1e-12, "row %d must sum to 1", i)
	}
	for i, cls := range y {
		assert.Greater(t, proba.At(i, cls), 0.5, "row %d must favor its class", i)
	}

	pred, err := clf.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred, "hard predictions must recover training labels")
}

// TestLogistic_DimensionMismatch verifies scoring with a different feature
// count is rejected.
func TestLogistic_DimensionMismatch(t *testing.T) {
	x, y := trainXY()
	clf := classify.NewLogistic()
	require.NoError(t, clf.Fit(x, y))

	_, err := clf.PredictProba(mat.NewDense(1, 3, []float64{0, 0, 0}))
	assert.ErrorIs(t, err, classify.ErrDimensionMismatch)
}

// TestLogistic_L2ShrinksWeights verifies that a heavier penalty pulls
// probabilities toward 0.5 on the same data.
func TestLogistic_L2ShrinksWeights(t *testing.T) {
	x, y := trainXY()

	loose := classify.NewLogistic(classify.WithL2(0.01))
	require.NoError(t, loose.Fit(x, y))
	tight := classify.NewLogistic(classify.WithL2(100))
	require.NoError(t, tight.Fit(x, y))

	pl, err := loose.PredictProba(x)
	require.NoError(t, err)
	pt, err := tight.PredictProba(x)
	require.NoError(t, err)

	assert.Greater(t, pl.At(5, 1), pt.At(5, 1),
		"stronger L2 must yield a less extreme probability")
	assert.Greater(t, pt.At(5, 1), 0.5,
		"even the tightly regularized model keeps the right side")
}

// TestLogistic_OptionPanics verifies that nonsensical option values panic.
func TestLogistic_OptionPanics(t *testing.T) {
	assert.Panics(t, func() { classify.NewLogistic(classify.WithL2(-1)) })
	assert.Panics(t, func() { classify.NewLogistic(classify.WithTolerance(0)) })
}
