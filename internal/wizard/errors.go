package wizard

import "errors"

var (
	ErrNotFound     = errors.New("draft not found")
	ErrInvalidStep  = errors.New("invalid step transition")
	ErrNotFinalStep = errors.New("draft is not on the final step")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidInput = errors.New("invalid input")
)
