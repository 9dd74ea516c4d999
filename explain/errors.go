package explain

import "errors"

var (
	// ErrConfiguration indicates a pre-flight configuration failure.
	ErrConfiguration = errors.New("explain: configuration error")

	// ErrPhase indicates a call that is not valid in the current phase.
	ErrPhase = errors.New("explain: call not valid in current phase")

	// ErrBaselineUnavailable indicates Baseline was called before the baseline round completed.
	ErrBaselineUnavailable = errors.New("explain: baseline not estimated yet")

	// ErrFailed indicates the session aborted earlier and cannot continue.
	ErrFailed = errors.New("explain: session failed")
)
