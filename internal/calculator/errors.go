package calculator

import "errors"

var (
	// ErrInvalidParameter is returned for non-positive or inconsistent period arguments.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInsufficientData is returned when a series is shorter than the lookback a period needs.
	ErrInsufficientData = errors.New("insufficient data")
)
