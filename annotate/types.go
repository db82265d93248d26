// Package annotate: sentinel errors, the run configuration and its validation.
package annotate

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/cellprop/cellset"
	"github.com/katalvlaran/cellprop/confidence"
	"github.com/katalvlaran/cellprop/diffusion"
)

// Sentinel configuration errors. All are raised by Validate before any
// training or propagation; τ and iteration-budget violations surface as
// confidence.ErrBadThreshold / confidence.ErrBadIterations, schema problems
// as cellset sentinels.
var (
	// ErrNoReferences indicates an empty reference-dataset list.
	ErrNoReferences = errors.New("annotate: at least one reference dataset is required")

	// ErrNoTarget indicates an empty target-dataset name.
	ErrNoTarget = errors.New("annotate: target dataset name is required")

	// ErrNoFeatures indicates an empty feature-column list.
	ErrNoFeatures = errors.New("annotate: at least one feature column is required")

	// ErrUnknownTable indicates a configured dataset name with no table.
	ErrUnknownTable = errors.New("annotate: dataset not found")

	// ErrTargetIsReference indicates the target listed among the references.
	ErrTargetIsReference = errors.New("annotate: target dataset cannot be a reference")

	// ErrClassMissing indicates a class with no example in the combined
	// training labels; training is rejected before it starts.
	ErrClassMissing = errors.New("annotate: class absent from combined training labels")

	// ErrNoSignatureScores indicates Confidence = SignatureScores with a
	// target table that carries no signature-score pair.
	ErrNoSignatureScores = errors.New("annotate: target table carries no signature scores")

	// ErrBadConfidenceSource indicates an unknown ConfidenceSource value.
	ErrBadConfidenceSource = errors.New("annotate: unknown confidence source")

	// ErrNilGraph indicates a nil similarity graph.
	ErrNilGraph = errors.New("annotate: similarity graph is nil")

	// ErrNilClassifier indicates a nil classifier.
	ErrNilClassifier = errors.New("annotate: classifier is nil")

	// ErrBadProbabilities indicates a classifier output whose shape does not
	// match the target table (broken Classifier contract).
	ErrBadProbabilities = errors.New("annotate: classifier returned a malformed probability matrix")
)

// ConfidenceSource selects the two-column signal the fixed per-cell
// confidence is computed from.
type ConfidenceSource int

const (
	// SignatureScores anchors confidence to the independent per-class
	// signature scores carried by the target table (the default).
	SignatureScores ConfidenceSource = iota

	// ClassifierProbabilities anchors confidence to the classifier's own
	// initial probabilities.
	ClassifierProbabilities
)

// Config describes one annotation run. All fields are validated by Validate
// before any computation.
type Config struct {
	// References names the labeled tables the classifier trains on.
	References []string

	// Target names the unlabeled table to annotate.
	Target string

	// Features lists the feature columns, in classifier order; the schema
	// must be identical across all tables of the run.
	Features []string

	// Classes is the validated two-class pair of the run.
	Classes cellset.ClassPair

	// Tau is the overall certainty threshold in [0, 1].
	Tau float64

	// Iterations is the diffusion budget (≥ 1; ≥ 6 for early stop to arm).
	Iterations int

	// Confidence selects the confidence anchor (SignatureScores by default).
	Confidence ConfidenceSource

	// Diffusion carries optional engine knobs, passed through verbatim.
	Diffusion []diffusion.Option
}

// Validate checks the configuration against the available tables.
// Stage 1: structural fields (names, features, class pair).
// Stage 2: table existence, feature-column resolution, labeling and schema
// agreement.
// Stage 3: numeric parameters via the confidence schedule.
// Returns the first violation; nil means the run may start.
func Validate(cfg Config, tables map[string]*cellset.Table) error {
	if len(cfg.References) == 0 {
		return ErrNoReferences
	}
	if cfg.Target == "" {
		return ErrNoTarget
	}
	if len(cfg.Features) == 0 {
		return ErrNoFeatures
	}
	if _, err := cellset.NewClassPair(cfg.Classes.A, cfg.Classes.B); err != nil {
		return err
	}

	target, ok := tables[cfg.Target]
	if !ok {
		return fmt.Errorf("%w: target %q", ErrUnknownTable, cfg.Target)
	}
	known := make(map[string]bool, len(target.Schema()))
	for _, column := range target.Schema() {
		known[column] = true
	}
	for _, column := range cfg.Features {
		if !known[column] {
			return fmt.Errorf("feature %q: %w", column, cellset.ErrUnknownColumn)
		}
	}
	for _, name := range cfg.References {
		if name == cfg.Target {
			return fmt.Errorf("%w: %q", ErrTargetIsReference, name)
		}
		ref, found := tables[name]
		if !found {
			return fmt.Errorf("%w: reference %q", ErrUnknownTable, name)
		}
		if !ref.HasLabels() {
			return fmt.Errorf("reference %q: %w", name, cellset.ErrNoLabels)
		}
		if !target.SameSchema(ref) {
			return fmt.Errorf("target %q vs reference %q: %w", cfg.Target, name, cellset.ErrSchemaMismatch)
		}
	}

	switch cfg.Confidence {
	case SignatureScores:
		if !target.HasSignatureScores() {
			return fmt.Errorf("%w: target %q", ErrNoSignatureScores, cfg.Target)
		}
	case ClassifierProbabilities:
		// anchored to the classifier output computed later
	default:
		return fmt.Errorf("%w: %d", ErrBadConfidenceSource, cfg.Confidence)
	}

	// Schedule derivation validates τ and the budget with the same
	// sentinels the engine uses.
	if _, err := confidence.Schedule(cfg.Tau, cfg.Iterations); err != nil {
		return err
	}

	return nil
}
