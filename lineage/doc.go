// Package lineage encodes and decodes the row identifiers that carry a
// generated row's provenance through an external scoring step.
//
// What is a lineage key?
//
//	Every row produced by the perturbation engine is tagged with a 4-tuple:
//	  • OriginalRowID — the source row the perturbation was derived from
//	  • FOI           — the feature of interest being explained
//	  • Iteration     — which permutation draw produced the row
//	  • Intact        — whether the FOI kept its original value (A) or was replaced (B)
//
//	The tuple travels as a single opaque string token so that any row-keyed
//	table format can carry it unchanged:
//
//	  <OriginalRowID>_<FOI>_<Iteration>_<i|r>
//
// Parsing rule:
//
//	OriginalRowID is arbitrary external text and may itself contain "_".
//	Only the three rightmost segments are structurally guaranteed, so Decode
//	splits from the right and re-joins the remainder verbatim.
//
// Usage:
//
//	tok := lineage.Encode(lineage.Key{OriginalRowID: "row_7", FOI: 2, Iteration: 0, Intact: true})
//	// tok == "row_7_2_0_i"
//	key, err := lineage.Decode(tok)
//	if errors.Is(err, lineage.ErrNotGeneratedKey) {
//	    // not produced by the engine
//	}
//
// Complexity: Encode and Decode are O(len(token)).
package lineage
