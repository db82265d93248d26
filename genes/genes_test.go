package genes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cellprop/cellset"
	"github.com/katalvlaran/cellprop/genes"
)

// TestFilter_ThresholdsAndOrder verifies the strict cutoffs and the
// descending fold-change order of the survivors.
func TestFilter_ThresholdsAndOrder(t *testing.T) {
	rows := []genes.Result{
		{Symbol: "A", LogFoldChange: 4.0, AdjP: 0.01},
		{Symbol: "B", LogFoldChange: 3.0, AdjP: 0.01}, // LFC not strictly above
		{Symbol: "C", LogFoldChange: 6.0, AdjP: 0.10}, // AdjP not strictly below
		{Symbol: "D", LogFoldChange: 5.5, AdjP: 0.02},
		{Symbol: "E", LogFoldChange: -1.0, AdjP: 0.001},
	}

	kept := genes.Filter(rows, 3.0, 0.10)
	require.Len(t, kept, 2)
	assert.Equal(t, "D", kept[0].Symbol)
	assert.Equal(t, "A", kept[1].Symbol)
}

// TestFilter_EmptyInput verifies that no survivors yields an empty slice.
func TestFilter_EmptyInput(t *testing.T) {
	assert.Empty(t, genes.Filter(nil, 0, 1))
	assert.Empty(t, genes.Filter([]genes.Result{{Symbol: "X", LogFoldChange: -2, AdjP: 0.5}}, 0, 0.1))
}

// TestIntegrate_Validation covers the argument rejections.
func TestIntegrate_Validation(t *testing.T) {
	_, err := genes.Integrate(nil, genes.Union, 10)
	assert.ErrorIs(t, err, genes.ErrNoLists)

	one := [][]genes.Result{{{Symbol: "A", LogFoldChange: 1}}}
	_, err = genes.Integrate(one, genes.Union, 0)
	assert.ErrorIs(t, err, genes.ErrBadTopX)

	_, err = genes.Integrate(one, genes.Mode(7), 10)
	assert.ErrorIs(t, err, genes.ErrBadMode)

	dup := [][]genes.Result{{
		{Symbol: "A", LogFoldChange: 1},
		{Symbol: "A", LogFoldChange: 2},
	}}
	_, err = genes.Integrate(dup, genes.Union, 10)
	assert.ErrorIs(t, err, genes.ErrDuplicateGene)
}

// TestIntegrate_Intersection verifies that only shared genes survive and
// that each list is scaled by its own maximum over the shared set.
func TestIntegrate_Intersection(t *testing.T) {
	lists := [][]genes.Result{
		{
			{Symbol: "A", LogFoldChange: 4},
			{Symbol: "B", LogFoldChange: 2},
			{Symbol: "C", LogFoldChange: 8}, // absent from list 2, dropped
		},
		{
			{Symbol: "A", LogFoldChange: 3},
			{Symbol: "B", LogFoldChange: 6},
		},
	}

	ranked, err := genes.Integrate(lists, genes.Intersection, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	// Shared set {A, B}. List 1 max = 4, list 2 max = 6.
	// A: (4/4 + 3/6)/2 = 0.75; B: (2/4 + 6/6)/2 = 0.75. Tie, symbol order.
	assert.Equal(t, "A", ranked[0].Symbol)
	assert.Equal(t, "B", ranked[1].Symbol)
	assert.InDelta(t, 0.75, ranked[0].Weight, 1e-12)
	assert.InDelta(t, 0.75, ranked[1].Weight, 1e-12)
}

// TestIntegrate_Union verifies that unshared genes are kept and averaged
// over the lists that carry them.
func TestIntegrate_Union(t *testing.T) {
	lists := [][]genes.Result{
		{
			{Symbol: "A", LogFoldChange: 4},
			{Symbol: "C", LogFoldChange: 8},
		},
		{
			{Symbol: "A", LogFoldChange: 3},
			{Symbol: "B", LogFoldChange: 6},
		},
	}

	ranked, err := genes.Integrate(lists, genes.Union, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	// List 1 max = 8, list 2 max = 6.
	// C: 8/8 = 1.0 (list 1 only); B: 6/6 = 1.0 (list 2 only);
	// A: (4/8 + 3/6)/2 = 0.5. Tie between B and C resolved by symbol.
	assert.Equal(t, []string{"B", "C", "A"}, genes.Symbols(ranked))
	assert.InDelta(t, 1.0, ranked[0].Weight, 1e-12)
	assert.InDelta(t, 1.0, ranked[1].Weight, 1e-12)
	assert.InDelta(t, 0.5, ranked[2].Weight, 1e-12)
}

// TestIntegrate_TopXTruncation verifies the signature-size cap.
func TestIntegrate_TopXTruncation(t *testing.T) {
	lists := [][]genes.Result{{
		{Symbol: "A", LogFoldChange: 1},
		{Symbol: "B", LogFoldChange: 3},
		{Symbol: "C", LogFoldChange: 2},
	}}

	ranked, err := genes.Integrate(lists, genes.Union, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, genes.Symbols(ranked))
}

// TestIntegrate_EmptyIntersection verifies that disjoint lists produce an
// empty signature rather than an error.
func TestIntegrate_EmptyIntersection(t *testing.T) {
	lists := [][]genes.Result{
		{{Symbol: "A", LogFoldChange: 1}},
		{{Symbol: "B", LogFoldChange: 1}},
	}

	ranked, err := genes.Integrate(lists, genes.Intersection, 10)
	require.NoError(t, err)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

// TestScore_Validation covers the scorer's argument rejections.
func TestScore_Validation(t *testing.T) {
	x := mat.NewDense(1, 2, []float64{1, 2})

	_, err := genes.Score(nil, []string{"g1", "g2"}, []string{"g1"})
	assert.ErrorIs(t, err, genes.ErrNilExpression)

	_, err = genes.Score(x, []string{"g1"}, []string{"g1"})
	assert.ErrorIs(t, err, genes.ErrBadSchema)

	_, err = genes.Score(x, []string{"g1", "g2"}, nil)
	assert.ErrorIs(t, err, genes.ErrEmptySignature)

	_, err = genes.Score(x, []string{"g1", "g2"}, []string{"g3"})
	assert.ErrorIs(t, err, genes.ErrSignatureMissing)

	_, err = genes.Score(x, []string{"g1", "g2"}, []string{"g1", "g1"})
	assert.ErrorIs(t, err, genes.ErrDuplicateGene)
}

// TestScore_RankEnrichment verifies the scaled-rank averaging: cells
// expressing the signature highest score near 1, lowest near 0, and a flat
// expression row lands exactly in the middle.
func TestScore_RankEnrichment(t *testing.T) {
	schema := []string{"g1", "g2", "g3", "g4"}
	x := mat.NewDense(3, 4, []float64{
		8, 7, 1, 2, // signature on top
		1, 2, 8, 7, // signature at the bottom
		5, 5, 5, 5, // flat, all ranks tied
	})

	scores, err := genes.Score(x, schema, []string{"g1", "g2"})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	// Cell 0: g1 rank 3/3, g2 rank 2/3 → mean 5/6.
	assert.InDelta(t, 5.0/6.0, scores[0], 1e-12)
	// Cell 1: g1 rank 0/3, g2 rank 1/3 → mean 1/6.
	assert.InDelta(t, 1.0/6.0, scores[1], 1e-12)
	// Cell 2: every gene shares the average rank, so the score is 1/2.
	assert.InDelta(t, 0.5, scores[2], 1e-12)
}

// TestScore_IgnoresAbsentGenes verifies that signature genes missing from
// the schema are skipped rather than rejected.
func TestScore_IgnoresAbsentGenes(t *testing.T) {
	schema := []string{"g1", "g2", "g3", "g4"}
	x := mat.NewDense(1, 4, []float64{8, 7, 1, 2})

	scores, err := genes.Score(x, schema, []string{"g1", "absent"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scores[0], 1e-12, "only g1 counts and it ranks highest")
}

// TestScore_FeedsSignatureScores verifies the bridge into the data model:
// two opposing signatures scored over the same expression matrix yield a
// valid per-class signature-score pair for a feature table.
func TestScore_FeedsSignatureScores(t *testing.T) {
	schema := []string{"g1", "g2", "g3", "g4"}
	x := mat.NewDense(2, 4, []float64{
		8, 7, 1, 2, // leans class A
		1, 2, 8, 7, // leans class B
	})

	scoresA, err := genes.Score(x, schema, []string{"g1", "g2"})
	require.NoError(t, err)
	scoresB, err := genes.Score(x, schema, []string{"g3", "g4"})
	require.NoError(t, err)

	table, err := cellset.New("scored", []string{"c1", "c2"}, schema,
		[][]float64{
			{8, 7, 1, 2},
			{1, 2, 8, 7},
		},
		cellset.WithSignatureScores(scoresA, scoresB))
	require.NoError(t, err)
	require.True(t, table.HasSignatureScores())

	pair, err := table.SignatureScores()
	require.NoError(t, err)
	assert.Greater(t, pair.At(0, 0), pair.At(0, 1), "cell 1 leans class A")
	assert.Greater(t, pair.At(1, 1), pair.At(1, 0), "cell 2 leans class B")
}
