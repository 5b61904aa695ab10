package models

import "errors"

// Core error kinds. Callers discriminate with errors.Is; the offending
// input is carried by the wrapping error's message.
var (
	// ErrEmptyQuery is returned for blank search text or an empty keyword list.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidPattern is returned when a regex query fails to compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrPatternTimeout is returned when regex matching exceeds its time budget.
	ErrPatternTimeout = errors.New("pattern timeout")
	// ErrInvalidWeight is returned for a negative word weight assignment.
	ErrInvalidWeight = errors.New("invalid weight")
)
