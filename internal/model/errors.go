package model

import "errors"

// Engine error taxonomy. Callers classify failures with errors.Is.
var (
	// ErrInvalidInput marks a malformed tick, price, amount, or request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange marks a tick or price beyond the grid bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrNotFound marks a missing pool, incentive, or stake. Expected and
	// non-fatal: callers surface it as "no result", not as a failure.
	ErrNotFound = errors.New("not found")

	// ErrTransient marks a retryable failure on an external query.
	ErrTransient = errors.New("transient failure")

	// ErrOverflow marks an arithmetic result outside the representable range.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrDivisionByZero marks a zero denominator in fixed-point math.
	ErrDivisionByZero = errors.New("division by zero")
)
