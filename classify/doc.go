// Package classify defines the binary probabilistic classifier contract used
// by the annotation pipeline, plus a logistic-regression implementation.
//
// The propagation engine is classifier-agnostic: anything that can fit on
// labeled reference cells and emit a two-column probability matrix over
// target cells satisfies Classifier. Logistic regression is the stock
// implementation; tree ensembles or any other calibrated binary classifier
// are equally valid substitutes.
//
// Contract:
//   - Fit(x, y) trains on rows of x with class indices y ∈ {0, 1}; both
//     classes must be present or Fit fails with ErrSingleClass before any
//     numerical work starts.
//   - PredictProba(x) returns an n×2 matrix whose rows sum to 1, column 0
//     holding P(class A) and column 1 holding P(class B).
//   - Model state lives in the classifier value itself and is scoped to one
//     run; fitting never touches package-level state.
//
// Fit failures (e.g. the optimizer rejecting a degenerate problem) are
// surfaced to the caller and never retried internally.
package classify
