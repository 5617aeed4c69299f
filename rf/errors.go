package rf

import "errors"

var (
	// ErrInvalidArguments is returned when a multi-mode formula receives
	// no input mode, more than one, or an unsupported mix of values.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrDomain is returned when the inputs fall outside the numeric domain
	// of a formula (division by zero, negative radicand).
	ErrDomain = errors.New("domain error")
)
