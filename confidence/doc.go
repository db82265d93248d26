// Package confidence computes the fixed per-cell confidence scores and the
// decaying quantile-threshold schedule that gate the diffusion engine.
//
// The score of a cell is the absolute gap between its two class values,
// |v_A − v_B|, computed exactly once from the initial two-column signal
// (signature scores or the classifier's initial probabilities) and never
// recomputed during diffusion. A wide gap means the initial evidence commits
// to one class; a narrow gap means the cell should not anchor propagation.
//
// The schedule decays the overall threshold τ linearly to zero across the
// iteration budget: τ_i = τ × (1 − i/(n−1)). A cell is "certain" at
// iteration i when its score strictly exceeds the linear-interpolation
// quantile of all scores at τ_i. Because τ_i is non-increasing, the certain
// set can only grow with i: cells admitted as anchors at iteration i stay
// anchors at every later iteration.
package confidence
