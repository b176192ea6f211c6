package pipeline

import "errors"

var (
	// ErrSearcherRequired is returned when a pipeline is created without a searcher.
	ErrSearcherRequired = errors.New("pipeline: searcher is required")

	// ErrWriterRequired is returned when a pipeline is created without a result writer.
	ErrWriterRequired = errors.New("pipeline: result writer is required")
)
