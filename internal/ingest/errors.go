package ingest

import "errors"

// Decoding errors.
//
// Design decision: We use package-level sentinel errors so callers can
// distinguish shape problems from numeric problems with errors.Is while
// the wrapped message still names the offending entry.
var (
	// ErrBadDocument is returned when the document root is not a
	// mapping, or when a "snapshots" entry is not a sequence.
	ErrBadDocument = errors.New("snapshot document must be a mapping")

	// ErrBadShape is returned when an entry value has an unsupported
	// container shape. Overall values accept a scalar or a
	// [value, unit] pair; nothing else.
	ErrBadShape = errors.New("unsupported value shape")

	// ErrNotNumeric is returned when a value expected to be numeric
	// is not.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrAmbiguousPair is returned for a two-element all-numeric
	// sequence in the overall section. Such a value cannot be told
	// apart from a [value, unit] pair by shape, so it is rejected.
	ErrAmbiguousPair = errors.New("ambiguous two-element numeric sequence")
)
