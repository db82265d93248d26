// Package genes 🧬 builds class signatures from differential-expression
// results.
//
// The package works on per-gene statistics produced upstream (log fold
// change, raw and adjusted p-values, test score) and offers two operations:
//
//   - Filter keeps the genes that clear a fold-change floor and an adjusted
//     p-value ceiling, ordered by effect size.
//   - Integrate merges several filtered lists (one per dataset) into a
//     single ranked signature: each list is scaled by its own maximum over
//     the joined gene set, the scaled values are averaged per gene, and the
//     top entries by average survive.
//   - Score turns a signature back into data: one rank-based enrichment
//     value per cell, suitable as a feature table's per-class
//     signature-score column.
//
// Intersection mode keeps only genes present in every list; Union mode
// keeps genes present in any list and averages over the lists that carry
// them.
//
// All functions are pure and copy their inputs; callers may reuse the
// argument slices freely afterwards.
package genes
