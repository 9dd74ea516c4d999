// Package chunk bounds the memory of a perturbation run by expanding source
// rows lazily into fixed-size batches, one batch per external scoring
// round-trip.
//
// A chunk covers up to chunkSize SOURCE rows. Each source row contributes its
// passthrough row followed by every intact/replaced pair, so a row's
// expansion (and therefore every A/B pair) always lives in a single chunk.
//
//	chunk 0:  [x₀, A₀₀₀, B₀₀₀, …]  [x₁, …]  …   (chunkSize source rows)
//	chunk 1:  [x_cs, …] …
//
// The Producer owns the upstream Source: Close releases it, and every error
// path out of Next leaves it to the caller to Close.
package chunk
