package neighbors

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Sentinel errors returned by Connectivities.
var (
	// ErrNilData indicates a nil feature matrix.
	ErrNilData = errors.New("neighbors: feature matrix is nil")

	// ErrTooFewCells indicates fewer than two cells; a graph needs at least
	// one possible edge.
	ErrTooFewCells = errors.New("neighbors: at least two cells are required")

	// ErrBadComponents indicates a component count outside [1, min(cells, features)].
	ErrBadComponents = errors.New("neighbors: component count out of range")

	// ErrBadNeighbors indicates a neighbor count outside [1, cells-1].
	ErrBadNeighbors = errors.New("neighbors: neighbor count out of range")

	// ErrDecomposition indicates that the principal-component factorization
	// of the centered data failed.
	ErrDecomposition = errors.New("neighbors: principal-component decomposition failed")
)

// Connectivities builds the symmetric cell-cell affinity graph for the
// n×d feature matrix x, using the leading components principal directions
// and k nearest neighbors per cell.
//
// The result is an n×n dense matrix with zero diagonal, entries in [0, 1],
// and W[i,j] == W[j,i]. The input is not modified.
func Connectivities(x mat.Matrix, components, k int) (*mat.Dense, error) {
	if x == nil {
		return nil, ErrNilData
	}
	n, d := x.Dims()
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewCells, n)
	}
	limit := n
	if d < limit {
		limit = d
	}
	if components < 1 || components > limit {
		return nil, fmt.Errorf("%w: got %d with %d cells × %d features", ErrBadComponents, components, n, d)
	}
	if k < 1 || k > n-1 {
		return nil, fmt.Errorf("%w: got %d with %d cells", ErrBadNeighbors, k, n)
	}

	proj, err := project(x, components)
	if err != nil {
		return nil, err
	}

	// Pairwise Euclidean distances in the reduced space.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum := 0.0
			for c := 0; c < components; c++ {
				diff := proj.At(i, c) - proj.At(j, c)
				sum += diff * diff
			}
			e := math.Sqrt(sum)
			dist[i][j] = e
			dist[j][i] = e
		}
	}

	// Per-cell neighbor sets and adaptive bandwidths: sigma[i] is the
	// distance to i's k-th nearest neighbor, floored to avoid collapsing on
	// duplicate cells.
	nearest := make([][]int, n)
	sigma := make([]float64, n)
	idx := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		idx = idx[:0]
		for j := 0; j < n; j++ {
			if j != i {
				idx = append(idx, j)
			}
		}
		row := dist[i]
		sort.SliceStable(idx, func(a, b int) bool { return row[idx[a]] < row[idx[b]] })

		nearest[i] = append([]int(nil), idx[:k]...)
		sigma[i] = row[idx[k-1]]
		if sigma[i] == 0 {
			sigma[i] = 1
		}
	}

	// Directed Gaussian affinities, then symmetrization by elementwise max.
	w := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for _, j := range nearest[i] {
			e := dist[i][j]
			w.Set(i, j, math.Exp(-(e*e)/(sigma[i]*sigma[j])))
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m := math.Max(w.At(i, j), w.At(j, i))
			w.Set(i, j, m)
			w.Set(j, i, m)
		}
		w.Set(i, i, 0)
	}

	return w, nil
}

// project column-centers x and maps it onto its leading principal
// directions, returning an n×components score matrix.
func project(x mat.Matrix, components int) (*mat.Dense, error) {
	n, d := x.Dims()

	centered := mat.DenseCopyOf(x)
	col := make([]float64, n)
	for c := 0; c < d; c++ {
		mat.Col(col, c, centered)
		mean := stat.Mean(col, nil)
		for r := 0; r < n; r++ {
			centered.Set(r, c, centered.At(r, c)-mean)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(centered, nil); !ok {
		return nil, ErrDecomposition
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, d, 0, components))

	return &proj, nil
}
