package annotate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cellprop/cellset"
	"github.com/katalvlaran/cellprop/classify"
	"github.com/katalvlaran/cellprop/confidence"
	"github.com/katalvlaran/cellprop/diffusion"
)

// Row is one target cell's entry in the final result table.
type Row struct {
	// Cell is the opaque cell identifier from the target table.
	Cell string

	// Label is the target table's ground-truth label when it carries one
	// (useful for benchmarking runs), empty otherwise.
	Label string

	// Predicted and PredictedProbs are the classifier's hard call and
	// per-class probabilities before propagation (index 0 = class A).
	Predicted      string
	PredictedProbs [2]float64

	// Propagated and PropagatedProbs are the post-diffusion call and
	// per-class probabilities.
	Propagated      string
	PropagatedProbs [2]float64

	// Certain holds the cell's certainty flag for every executed iteration.
	Certain []bool
}

// Outcome is the assembled result of one annotation run. Rows preserve the
// target table's cell order.
type Outcome struct {
	Classes   cellset.ClassPair
	Rows      []Row
	Diffusion *diffusion.Result
}

// Annotate runs the full pipeline: validate, train, score, anchor
// confidence, propagate, assemble.
//
// The classifier is fitted on the concatenated reference tables and is owned
// by this run; callers wanting to reuse a fitted model across targets should
// drive classify and diffusion directly.
//
// Errors: configuration sentinels from Validate, classify sentinels from
// fitting (never retried), and the diffusion sentinels — including
// *diffusion.DegenerateRowError — from propagation. Non-convergence is not
// an error: inspect Outcome.Diffusion.Warning.
func Annotate(cfg Config, tables map[string]*cellset.Table, graph mat.Matrix, clf classify.Classifier) (*Outcome, error) {
	if graph == nil {
		return nil, ErrNilGraph
	}
	if clf == nil {
		return nil, ErrNilClassifier
	}
	if err := Validate(cfg, tables); err != nil {
		return nil, err
	}

	// Build the combined training set in reference order.
	refs := make([]*cellset.Table, len(cfg.References))
	for i, name := range cfg.References {
		refs[i] = tables[name]
	}
	train, err := cellset.Concat("training", refs...)
	if err != nil {
		return nil, err
	}

	xTrain, err := train.Features(cfg.Features)
	if err != nil {
		return nil, err
	}
	labels, err := train.Labels()
	if err != nil {
		return nil, err
	}
	y := make([]int, len(labels))
	var seen [2]bool
	for i, label := range labels {
		idx, idxErr := cfg.Classes.Index(label)
		if idxErr != nil {
			return nil, fmt.Errorf("training cell %q: %w", train.Cells()[i], idxErr)
		}
		y[i] = idx
		seen[idx] = true
	}
	if !seen[0] {
		return nil, fmt.Errorf("%w: %q", ErrClassMissing, cfg.Classes.A)
	}
	if !seen[1] {
		return nil, fmt.Errorf("%w: %q", ErrClassMissing, cfg.Classes.B)
	}

	if err = clf.Fit(xTrain, y); err != nil {
		return nil, err
	}

	target := tables[cfg.Target]
	xTarget, err := target.Features(cfg.Features)
	if err != nil {
		return nil, err
	}
	proba, err := clf.PredictProba(xTarget)
	if err != nil {
		return nil, err
	}
	if r, c := proba.Dims(); r != target.Len() || c != 2 {
		return nil, fmt.Errorf("%w: got %d×%d for %d cells", ErrBadProbabilities, r, c, target.Len())
	}

	// Anchor the fixed confidence signal; Validate guaranteed availability.
	var signal mat.Matrix
	switch cfg.Confidence {
	case SignatureScores:
		signal, err = target.SignatureScores()
		if err != nil {
			return nil, err
		}
	case ClassifierProbabilities:
		signal = proba
	}
	scores, err := confidence.Scores(signal)
	if err != nil {
		return nil, err
	}

	res, err := diffusion.Propagate(graph, proba, scores, cfg.Tau, cfg.Iterations, cfg.Diffusion...)
	if err != nil {
		return nil, err
	}

	return assemble(cfg, target, proba, res), nil
}

// assemble merges classifier output, diffusion output and the final
// assignment into the per-cell result table, preserving target row order.
func assemble(cfg Config, target *cellset.Table, proba *mat.Dense, res *diffusion.Result) *Outcome {
	cells := target.Cells()
	var truth []string
	if target.HasLabels() {
		truth, _ = target.Labels()
	}

	rows := make([]Row, len(cells))
	for i, cell := range cells {
		row := Row{
			Cell:            cell,
			PredictedProbs:  [2]float64{proba.At(i, 0), proba.At(i, 1)},
			PropagatedProbs: [2]float64{res.Probabilities.At(i, 0), res.Probabilities.At(i, 1)},
			Propagated:      cfg.Classes.Name(res.Assignments[i]),
		}
		if truth != nil {
			row.Label = truth[i]
		}

		predicted := 0
		if proba.At(i, 1) > proba.At(i, 0) {
			predicted = 1
		}
		row.Predicted = cfg.Classes.Name(predicted)

		if res.Masks != nil {
			row.Certain = make([]bool, len(res.Masks))
			for it, mask := range res.Masks {
				row.Certain[it] = mask[i]
			}
		}
		rows[i] = row
	}

	return &Outcome{Classes: cfg.Classes, Rows: rows, Diffusion: res}
}
