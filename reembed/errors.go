package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbedderRequired is returned when a Reembedder is built without an
	// embedding capability.
	ErrEmbedderRequired = errors.New("embedder required")
)
