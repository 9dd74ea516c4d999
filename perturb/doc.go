// Package perturb implements the permutation-based perturbation scheme of
// Štrumbelj & Kononenko for approximating Shapley values of an opaque model.
//
// 🚀 What is generated?
//
//	For a row x with n features and a feature of interest (foi):
//	  1. Draw a uniformly random permutation π of [0, n).
//	  2. A ("intact"):   copy x, replace every feature preceding foi in π
//	                     with a sampled value; foi keeps its original value.
//	  3. B ("replaced"): A with foi replaced as well.
//	  4. Emit A then B, both tagged with the same (foi, iteration).
//
//	A and B differ only in foi, so prediction(A) − prediction(B) is the
//	marginal contribution of foi to the coalition chosen by π. Averaging over
//	iterations approximates the Shapley value.
//
// ⚙️ Usage:
//
//	gen, _ := perturb.NewGenerator(seed, iterations)
//	err := gen.Expand(row, smp, func(r dataset.Row) error {
//	    out = append(out, r)
//	    return nil
//	})
//
// Determinism:
//
//	A Generator owns a single seeded *rand.Rand; identical seed, data and
//	configuration reproduce the permutation sequence bit for bit.
//	A Generator is not goroutine-safe and must not be shared across sessions.
//
// Complexity (per row): O(n²·k) time for n features and k iterations, O(n) extra space.
package perturb
