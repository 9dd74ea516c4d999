// Package explain orchestrates a Shapley explanation session around an
// external, order-preserving scorer.
//
// 🚀 Protocol
//
//	An Explainer alternates between producing chunks of rows for the scorer
//	and consuming the scorer's predictions for the previous chunk:
//
//	  Uninitialized ──GenerateNextChunk──▶ EstimatingBaseline   (background rows, verbatim)
//	  EstimatingBaseline ──ConsumePredictions──▶ Generating     (nullFx = mean prediction)
//	  Generating ──GenerateNextChunk──▶ Consuming               (chunkSize source rows, expanded)
//	  Consuming ──ConsumePredictions──▶ Generating | Done
//	  any fatal error ──▶ Failed                                (all iterators released)
//
//	The total number of round-trips is ceil(rows/chunkSize) + 1.
//
// ⚙️ Usage (remote or batched scorer):
//
//	e, err := explain.New(ctx, schema, rows, background, explain.WithSeed(7))
//	defer e.Close()
//	for e.HasNextChunk() {
//	    c, err := e.GenerateNextChunk(ctx)
//	    preds := score(c.Rows) // external; must keep order and ids
//	    err = e.ConsumePredictions(ctx, preds, func(x shapley.Explanation) error { … })
//	}
//
//	When the model is callable in-process, Run collapses the loop into one call.
//
// Errors:
//   - ErrConfiguration       — pre-flight: empty inputs, zero features, bad counts, missing seed.
//   - shapley.ErrProtocolViolation — mid-stream: reordered, dropped, duplicated or renamed rows.
//   - I/O errors from sources are returned unchanged after all iterators are closed.
//
// An Explainer is single-threaded and owns its random streams; run
// concurrent sessions on independent Explainers.
package explain
