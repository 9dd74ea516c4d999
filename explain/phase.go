package explain

// Phase is the Explainer's position in the round-trip protocol.
type Phase int

const (
	// PhaseUninitialized: nothing emitted yet; the next chunk is the baseline chunk.
	PhaseUninitialized Phase = iota
	// PhaseEstimatingBaseline: waiting for predictions of the background rows.
	PhaseEstimatingBaseline
	// PhaseGenerating: ready to emit the next perturbation chunk.
	PhaseGenerating
	// PhaseConsuming: waiting for predictions of the last emitted chunk.
	PhaseConsuming
	// PhaseDone: every source row has been explained.
	PhaseDone
	// PhaseFailed: the session aborted; all iterators are closed.
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseUninitialized:      "uninitialized",
	PhaseEstimatingBaseline: "estimating-baseline",
	PhaseGenerating:         "generating",
	PhaseConsuming:          "consuming",
	PhaseDone:               "done",
	PhaseFailed:             "failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}

	return phaseNames[p]
}
