// Package cellprop annotates single-cell datasets with a binary cell-type
// label ("Normal" vs "Tumor" and friends) by combining a supervised
// classifier trained on labeled reference cells with confidence-gated
// label propagation over a cell-similarity graph.
//
// 🚀 What is cellprop?
//
//	A small, deterministic numerics library that brings together:
//		• cellset/    — feature tables, class pairs, reference/target partitions
//		• classify/   — the binary probabilistic classifier contract + logistic regression
//		• confidence/ — fixed per-cell confidence scores & decaying quantile schedules
//		• diffusion/  — the mask → propagate → renormalize loop with a convergence monitor
//		• annotate/   — configuration, orchestration and the per-cell result table
//		• genes/      — marker-gene filtering and cross-dataset rank aggregation
//		• neighbors/  — PCA + kNN connectivity graphs for when no graph is supplied
//
// ✨ Why choose cellprop?
//
//   - Classifier-agnostic – any binary probabilistic classifier plugs into the engine
//   - Fail-fast contracts – configuration is validated before any computation starts
//   - Typed diagnostics – degenerate graphs and non-convergence are values, not logs
//   - Built on gonum – matrices, PCA and L-BFGS come from gonum, not hand-rolled kernels
//
// The typical flow: train a classifier on labeled reference cells, score the
// unlabeled target cells, anchor a fixed confidence score per cell, then
// iterate — suppress uncertain rows, multiply by the similarity graph,
// renormalize — until hard assignments stop drifting or the iteration budget
// runs out.
//
// Dive into each package's doc.go for contracts, invariants and examples.
//
//	go get github.com/katalvlaran/cellprop
package cellprop
