// Package annotate wires the full pipeline together: it validates a run
// configuration, trains the classifier on the labeled reference tables,
// scores the target table, anchors the per-cell confidence, runs the
// diffusion engine over the supplied similarity graph, and assembles the
// per-cell result table.
//
// Everything that can be rejected is rejected before any numerical work
// starts: unknown tables, schema mismatches, a class absent from the
// combined training labels, τ outside [0, 1], a non-positive iteration
// budget, or a missing signature-score pair when the configuration anchors
// confidence to it.
//
// Confidence anchoring is an explicit choice (Config.Confidence):
//
//   - SignatureScores (default) — confidence comes from the independent
//     per-class signature scores carried by the target table, computed
//     before classification. The certainty mask is then immune to
//     classifier miscalibration.
//   - ClassifierProbabilities — confidence comes from the classifier's own
//     initial probabilities. Either way the score is computed once and
//     never recomputed from post-diffusion values.
//
// The output preserves the target table's row order and carries, per cell:
// the original label when present, the classifier's hard call and
// probabilities, the post-diffusion call and probabilities, and the
// per-iteration certainty flags for diagnostics.
package annotate
