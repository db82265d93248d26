package genes

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors returned by Integrate.
var (
	// ErrNoLists indicates an empty list of differential-expression results.
	ErrNoLists = errors.New("genes: at least one result list is required")

	// ErrBadTopX indicates a non-positive signature size.
	ErrBadTopX = errors.New("genes: topX must be ≥ 1")

	// ErrBadMode indicates an unknown integration mode.
	ErrBadMode = errors.New("genes: unknown integration mode")

	// ErrDuplicateGene indicates a gene symbol appearing twice in one list.
	ErrDuplicateGene = errors.New("genes: duplicate gene symbol within a list")

	// ErrNilExpression indicates a nil expression matrix.
	ErrNilExpression = errors.New("genes: expression matrix is nil")

	// ErrBadSchema indicates a schema whose length does not match the
	// expression matrix's column count.
	ErrBadSchema = errors.New("genes: schema length does not match expression columns")

	// ErrEmptySignature indicates a signature with no genes.
	ErrEmptySignature = errors.New("genes: signature has no genes")

	// ErrSignatureMissing indicates a signature none of whose genes appear
	// in the schema.
	ErrSignatureMissing = errors.New("genes: no signature gene found in the schema")
)

// Result is one gene's differential-expression statistics for a single
// dataset: the upregulated class against the downregulated one.
type Result struct {
	// Symbol is the gene identifier.
	Symbol string

	// LogFoldChange is the log2 fold change of the upregulated class.
	LogFoldChange float64

	// P and AdjP are the raw and multiple-testing-adjusted p-values.
	P    float64
	AdjP float64

	// Score is the underlying test statistic.
	Score float64
}

// Mode selects how Integrate joins the per-dataset gene lists.
type Mode int

const (
	// Intersection keeps only genes present in every list.
	Intersection Mode = iota

	// Union keeps genes present in any list; a gene's average is taken over
	// the lists that carry it.
	Union
)

// Ranked is one gene of an integrated signature with its cross-dataset
// average of scaled fold changes.
type Ranked struct {
	Symbol string
	Weight float64
}

// Filter returns the rows with LogFoldChange strictly above minLFC and AdjP
// strictly below maxAdjP, ordered by descending fold change. The input is
// not modified.
func Filter(rows []Result, minLFC, maxAdjP float64) []Result {
	kept := make([]Result, 0, len(rows))
	for _, row := range rows {
		if row.LogFoldChange > minLFC && row.AdjP < maxAdjP {
			kept = append(kept, row)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].LogFoldChange > kept[j].LogFoldChange
	})

	return kept
}

// Integrate merges one filtered result list per dataset into a single
// ranked signature of at most topX genes.
//
// Stage 1 (Join): the per-list fold changes are joined by gene symbol,
// keeping the genes the mode dictates.
// Stage 2 (Scale): each list's surviving fold changes are divided by that
// list's maximum over the joined set, making datasets of different depth
// comparable.
// Stage 3 (Rank): every gene receives the mean of its scaled values, over
// all lists (Intersection) or over the lists carrying it (Union); genes are
// ordered by descending mean, ties by symbol, and truncated to topX.
//
// An empty join yields an empty, non-nil slice.
func Integrate(lists [][]Result, mode Mode, topX int) ([]Ranked, error) {
	if len(lists) == 0 {
		return nil, ErrNoLists
	}
	if topX < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadTopX, topX)
	}
	if mode != Intersection && mode != Union {
		return nil, fmt.Errorf("%w: %d", ErrBadMode, mode)
	}

	// Per-list symbol → fold-change maps, plus a first-seen symbol order so
	// ranking stays deterministic before the final sort.
	maps := make([]map[string]float64, len(lists))
	var order []string
	seen := make(map[string]bool)
	for i, list := range lists {
		maps[i] = make(map[string]float64, len(list))
		for _, row := range list {
			if _, dup := maps[i][row.Symbol]; dup {
				return nil, fmt.Errorf("%w: %q in list %d", ErrDuplicateGene, row.Symbol, i)
			}
			maps[i][row.Symbol] = row.LogFoldChange
			if !seen[row.Symbol] {
				seen[row.Symbol] = true
				order = append(order, row.Symbol)
			}
		}
	}

	joined := make([]string, 0, len(order))
	for _, symbol := range order {
		hits := 0
		for _, m := range maps {
			if _, ok := m[symbol]; ok {
				hits++
			}
		}
		if mode == Union || hits == len(maps) {
			joined = append(joined, symbol)
		}
	}
	if len(joined) == 0 {
		return []Ranked{}, nil
	}

	// Column maxima over the joined set only; a zero maximum leaves that
	// list unscaled.
	scales := make([]float64, len(maps))
	for i, m := range maps {
		for _, symbol := range joined {
			if v, ok := m[symbol]; ok && v > scales[i] {
				scales[i] = v
			}
		}
		if scales[i] == 0 {
			scales[i] = 1
		}
	}

	ranked := make([]Ranked, 0, len(joined))
	for _, symbol := range joined {
		sum, hits := 0.0, 0
		for i, m := range maps {
			if v, ok := m[symbol]; ok {
				sum += v / scales[i]
				hits++
			}
		}
		ranked = append(ranked, Ranked{Symbol: symbol, Weight: sum / float64(hits)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	if len(ranked) > topX {
		ranked = ranked[:topX]
	}

	return ranked, nil
}

// Symbols projects a ranked signature onto its gene identifiers, in rank
// order.
func Symbols(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Symbol
	}

	return out
}

// Score computes one enrichment value per cell for a gene signature over
// the n×d expression matrix x, whose columns are named by schema.
//
// Within each cell the genes are ranked by expression (ties share the
// average rank) and the ranks are scaled to [0, 1]; the cell's score is the
// mean scaled rank of the signature genes. A score near 1 means the
// signature genes are among the cell's most expressed; near 0, its least.
// Signature genes absent from the schema are ignored; the signature must
// hit the schema at least once.
//
// Scores produced for two opposing signatures are the natural inputs to a
// feature table's per-class signature-score pair.
func Score(x mat.Matrix, schema, signature []string) ([]float64, error) {
	if x == nil {
		return nil, ErrNilExpression
	}
	n, d := x.Dims()
	if len(schema) != d {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrBadSchema, len(schema), d)
	}
	if len(signature) == 0 {
		return nil, ErrEmptySignature
	}

	colIdx := make(map[string]int, d)
	for c, name := range schema {
		colIdx[name] = c
	}
	seen := make(map[string]bool, len(signature))
	var cols []int
	for _, symbol := range signature {
		if seen[symbol] {
			return nil, fmt.Errorf("%w: %q in signature", ErrDuplicateGene, symbol)
		}
		seen[symbol] = true
		if c, ok := colIdx[symbol]; ok {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, ErrSignatureMissing
	}

	span := float64(d - 1)
	if span == 0 {
		span = 1
	}

	scores := make([]float64, n)
	row := make([]float64, d)
	order := make([]int, d)
	rank := make([]float64, d)
	for i := 0; i < n; i++ {
		for c := 0; c < d; c++ {
			row[c] = x.At(i, c)
			order[c] = c
		}
		sort.SliceStable(order, func(a, b int) bool { return row[order[a]] < row[order[b]] })

		// Tied values share the average of their positions.
		for lo := 0; lo < d; {
			hi := lo + 1
			for hi < d && row[order[hi]] == row[order[lo]] {
				hi++
			}
			avg := float64(lo+hi-1) / 2
			for p := lo; p < hi; p++ {
				rank[order[p]] = avg
			}
			lo = hi
		}

		sum := 0.0
		for _, c := range cols {
			sum += rank[c] / span
		}
		scores[i] = sum / float64(len(cols))
	}

	return scores, nil
}
