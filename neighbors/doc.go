// Package neighbors ✨ builds the cell-cell similarity graph consumed by
// diffusion.
//
// Connectivities turns a raw feature matrix into a dense, symmetric,
// zero-diagonal weight matrix in three stages:
//
//   - Reduce: column-center the data and project it onto its leading
//     principal components, so distances reflect structure rather than
//     per-feature scale and noise.
//   - Link: find each cell's k nearest neighbors in the reduced space by
//     exact Euclidean search.
//   - Weigh: convert neighbor distances into Gaussian affinities with a
//     per-cell bandwidth (the distance to the k-th neighbor), then
//     symmetrize by taking the elementwise maximum of the matrix and its
//     transpose.
//
// The adaptive bandwidth keeps dense and sparse regions of the dataset
// comparably connected. Weights lie in (0, 1]; non-neighbors carry 0.
package neighbors
