// Package diffusion implements confidence-gated label propagation over a
// weighted cell-similarity graph, together with the convergence monitor that
// terminates the iteration.
//
// 🚀 How one run works
//
//	Given the similarity graph A (n×n, non-negative weights), the initial
//	n×2 class-probability matrix M and the fixed per-cell confidence
//	scores, each iteration i performs:
//	  1. Mask        — rows whose score does not exceed the iteration's
//	                   quantile threshold τ_i are overwritten with a small
//	                   ε in both columns, silencing uncertain cells while
//	                   keeping their rows numerically non-zero.
//	  2. Propagate   — M' = A·M mixes every cell's probabilities with its
//	                   neighbors', weighted by edge weight.
//	  3. Renormalize — every row of M' is divided by its own sum, restoring
//	                   row-stochasticity. A zero-sum row is fatal
//	                   (DegenerateRowError names iteration and cells).
//	  4. Monitor     — hard assignments (argmax per row) are compared with
//	                   the previous iteration's; when the drift fraction
//	                   falls below the tolerance the loop stops early.
//
// The mask selection is always derived from the immutable initial
// confidence scores combined with the current iteration's decayed
// threshold — never from post-diffusion values. Belief updates therefore
// originate from historically confident cells and flow outward; remasking
// from the original signal every iteration keeps early propagation noise
// from compounding.
//
// Early stopping is suppressed for iterations 0..3 to ride out transient
// initial fluctuations; from iteration 4 onward a drift below the tolerance
// (default 0.001) halts the loop. Exhausting the budget is not an error:
// the Result still carries usable probabilities plus a typed
// NonConvergenceWarning with the final drift.
//
// The engine owns one mutable working buffer per run; the graph, the
// initial matrix and the scores are read-only. Concurrent runs may share
// the same graph provided each owns its own Result.
//
// See example_test.go for an end-to-end walk.
package diffusion
