package cellset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Table is an ordered, read-only collection of cells with a named feature
// schema, optional ground-truth labels and optional per-class signature
// scores. Construct with New; all invariants are checked exactly once there.
type Table struct {
	name   string
	cells  []string
	schema []string
	colIdx map[string]int
	data   *mat.Dense // len(cells) × len(schema), row-major copy of the input
	labels []string   // nil when the table is unlabeled
	scores *mat.Dense // len(cells) × 2, nil when absent; column 0 = class A

	// pending signature scores, validated and materialized in New
	scoresA, scoresB []float64
}

// Option configures optional Table content at construction time.
type Option func(*Table)

// WithLabels attaches a ground-truth label per cell (reference tables).
// Length is validated in New.
func WithLabels(labels []string) Option {
	return func(t *Table) {
		t.labels = labels
	}
}

// WithSignatureScores attaches the per-class signature-score pair consumed
// by the confidence estimator: a[i] scores cell i for class A, b[i] for
// class B. Lengths are validated in New.
func WithSignatureScores(a, b []float64) Option {
	return func(t *Table) {
		t.scoresA, t.scoresB = a, b
	}
}

// New builds a Table from per-cell feature rows.
// Stage 1 (Validate): non-empty cells/schema, unique columns, row lengths.
// Stage 2 (Prepare): copy rows into a flat Dense, index columns by name.
// Stage 3 (Finalize): apply options and validate their per-cell lengths.
// Complexity: O(cells × features).
func New(name string, cells, schema []string, rows [][]float64, opts ...Option) (*Table, error) {
	if len(cells) == 0 || len(schema) == 0 {
		return nil, ErrEmptyTable
	}
	if len(rows) != len(cells) {
		return nil, fmt.Errorf("%w: %d rows for %d cells", ErrRowMismatch, len(rows), len(cells))
	}

	colIdx := make(map[string]int, len(schema))
	for j, col := range schema {
		if _, dup := colIdx[col]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col)
		}
		colIdx[col] = j
	}

	data := mat.NewDense(len(cells), len(schema), nil)
	for i, row := range rows {
		if len(row) != len(schema) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrRowMismatch, i, len(row), len(schema))
		}
		data.SetRow(i, row)
	}

	t := &Table{
		name:   name,
		cells:  append([]string(nil), cells...),
		schema: append([]string(nil), schema...),
		colIdx: colIdx,
		data:   data,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.labels != nil && len(t.labels) != len(cells) {
		return nil, fmt.Errorf("%w: %d labels for %d cells", ErrRowMismatch, len(t.labels), len(cells))
	}
	if t.scoresA != nil || t.scoresB != nil {
		if len(t.scoresA) != len(cells) || len(t.scoresB) != len(cells) {
			return nil, fmt.Errorf("%w: %d/%d score values for %d cells",
				ErrRowMismatch, len(t.scoresA), len(t.scoresB), len(cells))
		}
		t.scores = mat.NewDense(len(cells), 2, nil)
		for i := range cells {
			t.scores.Set(i, 0, t.scoresA[i])
			t.scores.Set(i, 1, t.scoresB[i])
		}
		t.scoresA, t.scoresB = nil, nil
	}
	// Defensive copy so caller-held slices cannot mutate the table.
	if t.labels != nil {
		t.labels = append([]string(nil), t.labels...)
	}

	return t, nil
}

// Name returns the dataset name the table was constructed with.
func (t *Table) Name() string { return t.name }

// Len returns the number of cells.
func (t *Table) Len() int { return len(t.cells) }

// Cells returns the ordered cell identifiers. The slice is shared; treat it
// as read-only.
func (t *Table) Cells() []string { return t.cells }

// Schema returns the ordered feature column names. Read-only.
func (t *Table) Schema() []string { return t.schema }

// HasLabels reports whether the table carries ground-truth labels.
func (t *Table) HasLabels() bool { return t.labels != nil }

// HasSignatureScores reports whether the table carries a signature-score pair.
func (t *Table) HasSignatureScores() bool { return t.scores != nil }

// Labels returns the per-cell ground-truth labels, or ErrNoLabels.
// The slice is shared; treat it as read-only.
func (t *Table) Labels() ([]string, error) {
	if t.labels == nil {
		return nil, fmt.Errorf("table %q: %w", t.name, ErrNoLabels)
	}

	return t.labels, nil
}

// SignatureScores returns the len(cells)×2 signature-score matrix
// (column 0 = class A, column 1 = class B), or ErrNoScores.
// The matrix is shared; treat it as read-only.
func (t *Table) SignatureScores() (*mat.Dense, error) {
	if t.scores == nil {
		return nil, fmt.Errorf("table %q: %w", t.name, ErrNoScores)
	}

	return t.scores, nil
}

// Features extracts the named columns, in the given order, into a fresh
// len(cells)×len(columns) matrix. Unknown columns yield ErrUnknownColumn.
// Complexity: O(cells × len(columns)).
func (t *Table) Features(columns []string) (*mat.Dense, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyTable
	}
	out := mat.NewDense(len(t.cells), len(columns), nil)
	for j, col := range columns {
		src, ok := t.colIdx[col]
		if !ok {
			return nil, fmt.Errorf("table %q: %w: %q", t.name, ErrUnknownColumn, col)
		}
		for i := range t.cells {
			out.Set(i, j, t.data.At(i, src))
		}
	}

	return out, nil
}

// SameSchema reports whether two tables share the same ordered feature schema.
func (t *Table) SameSchema(other *Table) bool {
	if other == nil || len(t.schema) != len(other.schema) {
		return false
	}
	for j, col := range t.schema {
		if other.schema[j] != col {
			return false
		}
	}

	return true
}

// Concat stacks labeled tables into one labeled table, preserving table
// order then cell order. Used to build the combined training set from the
// reference datasets of a run.
// Errors: ErrEmptyTable (no tables), ErrSchemaMismatch, ErrNoLabels.
// Complexity: O(total cells × features).
func Concat(name string, tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, ErrEmptyTable
	}
	first := tables[0]
	total := 0
	for _, tbl := range tables {
		if !first.SameSchema(tbl) {
			return nil, fmt.Errorf("tables %q and %q: %w", first.name, tbl.name, ErrSchemaMismatch)
		}
		if !tbl.HasLabels() {
			return nil, fmt.Errorf("table %q: %w", tbl.name, ErrNoLabels)
		}
		total += tbl.Len()
	}

	data := mat.NewDense(total, len(first.schema), nil)
	cells := make([]string, 0, total)
	labels := make([]string, 0, total)
	row := 0
	for _, tbl := range tables {
		for i := range tbl.cells {
			data.SetRow(row, tbl.data.RawRowView(i))
			row++
		}
		cells = append(cells, tbl.cells...)
		labels = append(labels, tbl.labels...)
	}

	return &Table{
		name:   name,
		cells:  cells,
		schema: append([]string(nil), first.schema...),
		colIdx: first.colIdx,
		data:   data,
		labels: labels,
	}, nil
}
