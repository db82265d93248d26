// Package cellset defines the shared data model consumed by every other
// cellprop package: feature tables, the two-class label pair, and the
// reference/target partition of a run.
//
// A Table is an immutable, ordered collection of cells. Each cell has an
// opaque string identifier and a real-valued feature vector under a named,
// ordered schema. Reference tables additionally carry a ground-truth label
// per cell; any table may carry a per-class signature-score pair used by the
// confidence estimator.
//
// Invariants:
//   - The feature schema is identical across all tables of a run
//     (enforced by SameSchema / Concat, not rechecked per access).
//   - Cell order is preserved everywhere: the result table of a run is keyed
//     and ordered by the target table's cell order.
//   - Tables are read-only after construction; no method mutates a Table.
//
// Class names are never looked up dynamically by string at access time.
// A ClassPair is validated once, and every downstream package addresses
// classes by index (0 for A, 1 for B).
package cellset
