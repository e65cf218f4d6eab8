package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist or belongs to another user.
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidInput indicates a structurally invalid document.
	ErrInvalidInput = errors.New("invalid resume")
)
