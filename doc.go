// Package shapstream explains black-box predictions with Shapley values
// approximated by permutation sampling (Štrumbelj & Kononenko), streamed in
// bounded chunks through an external, order-preserving scorer.
//
// 🚀 What is shapstream?
//
//	A protocol engine that never needs the model in-process:
//		• Generation: every row to explain expands into 1 + 2·n·k rows
//		  (passthrough + intact/replaced pairs per feature and iteration)
//		• Lineage: each generated row carries a key id_foi_iteration_{i|r}
//		  so predictions can be matched back without side tables
//		• Consumption: predictions are folded per row group into an
//		  n × t contribution matrix as they arrive
//		• Baseline: the first round-trip scores the background set and
//		  yields the expected model output (nullFx)
//
// ⚙️ Round-trip loop
//
//	e, _ := explain.New(ctx, schema, rows, background, explain.WithSeed(42))
//	for e.HasNextChunk() {
//		c, _ := e.GenerateNextChunk(ctx)      // score c.Rows externally, in order
//		_ = e.ConsumePredictions(ctx, preds, onExplanation)
//	}
//	nullFx, _ := e.Baseline()
//
// explain.Run drives the same loop against an in-process explain.Predictor.
//
// Under the hood:
//
//	lineage/  — key codec for generated rows
//	dataset/  — vectors, schema, lazy sources (table, CSV)
//	sampler/  — replacement-value samplers over the background set
//	perturb/  — perturbable vectors, seeded pair generator
//	chunk/    — chunk producer over a source
//	shapley/  — accumulator, prediction consumer, baseline
//	explain/  — orchestrator state machine and in-process runner
//	model/    — linear predictors
//	sink/     — CSV and SQLite writers
//	cmd/shapstream — CLI
//
// Determinism: a session is fully reproducible from its seed, the input
// order and the chunk size has no effect on the values produced.
package shapstream
