package model

import "errors"

// Error kinds raised by the numerical core. Callers wrap these with context
// and match them with errors.Is.
var (
	// ErrInvalidInput is returned for non-positive prices or returns,
	// mismatched series lengths and malformed weight vectors.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUndefinedDay is returned when a day index lies outside the range
	// an operation is defined on (e.g. weights for day 0).
	ErrUndefinedDay = errors.New("undefined day")

	// ErrDegenerateIntegral is returned when every quadrature wealth sample
	// vanished or overflowed, so the weighted average has no value.
	ErrDegenerateIntegral = errors.New("degenerate integral")

	// ErrAssetCountUnsupported is returned by estimators that only handle
	// a specific number of assets.
	ErrAssetCountUnsupported = errors.New("asset count unsupported")
)
