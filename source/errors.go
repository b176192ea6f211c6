package source

import "errors"

var (
	// ErrMissingHeader is returned when the input has no header row.
	ErrMissingHeader = errors.New("source: missing header row")
)
