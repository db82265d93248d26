// Package cellset: sentinel errors and the two-class label pair.
package cellset

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Table constructors and accessors.
// All are matched with errors.Is; wrapping preserves them.
var (
	// ErrEmptyTable indicates a table with zero cells or zero feature columns.
	ErrEmptyTable = errors.New("cellset: table must have at least one cell and one feature")

	// ErrRowMismatch indicates that a per-cell slice (labels, scores, feature
	// rows) does not match the number of cells.
	ErrRowMismatch = errors.New("cellset: per-cell data length does not match cell count")

	// ErrSchemaMismatch indicates that two tables do not share the same
	// ordered feature schema.
	ErrSchemaMismatch = errors.New("cellset: feature schema mismatch")

	// ErrUnknownColumn indicates that a requested feature column is not part
	// of the table schema.
	ErrUnknownColumn = errors.New("cellset: unknown feature column")

	// ErrDuplicateColumn indicates a repeated name in a feature schema.
	ErrDuplicateColumn = errors.New("cellset: duplicate feature column")

	// ErrNoLabels indicates that labels were requested from an unlabeled table.
	ErrNoLabels = errors.New("cellset: table has no labels")

	// ErrNoScores indicates that signature scores were requested from a table
	// that carries none.
	ErrNoScores = errors.New("cellset: table has no signature scores")

	// ErrBadClassPair indicates an empty or non-distinct class pair.
	ErrBadClassPair = errors.New("cellset: class names must be non-empty and distinct")

	// ErrUnknownClass indicates a label that belongs to neither class of a pair.
	ErrUnknownClass = errors.New("cellset: label does not match either class")
)

// ClassPair is the explicit two-class enum of a run, e.g. {"Normal","Tumor"}.
// Class A always maps to column/index 0, class B to column/index 1, across
// probability matrices, signature scores and classifier outputs alike.
type ClassPair struct {
	A, B string
}

// NewClassPair validates and returns a ClassPair.
// Returns ErrBadClassPair when either name is empty or the names coincide.
func NewClassPair(a, b string) (ClassPair, error) {
	if a == "" || b == "" || a == b {
		return ClassPair{}, ErrBadClassPair
	}

	return ClassPair{A: a, B: b}, nil
}

// Index maps a label to its class index (0 for A, 1 for B).
// Returns ErrUnknownClass for any other label.
func (p ClassPair) Index(label string) (int, error) {
	switch label {
	case p.A:
		return 0, nil
	case p.B:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q not in {%q, %q}", ErrUnknownClass, label, p.A, p.B)
	}
}

// Name returns the class name for index 0 or 1.
// Panics on any other index: class indices are produced by this package and
// an out-of-range value is a programmer error, not user input.
func (p ClassPair) Name(idx int) string {
	switch idx {
	case 0:
		return p.A
	case 1:
		return p.B
	default:
		panic(fmt.Sprintf("cellset: class index out of range: %d", idx))
	}
}
