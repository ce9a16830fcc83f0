package domain

import "errors"

// Error kinds for the pipeline boundaries. Callers match them with
// errors.Is and decide skip-vs-abort per kind: config validation is fatal,
// a failed embedding skips one item (or empties one query), a missing
// collection empties the result set, and a failed generation becomes a
// fixed user-visible string.
var (
	ErrConfigValidation   = errors.New("config validation failed")
	ErrEmbedding          = errors.New("embedding failed")
	ErrIngestion          = errors.New("ingestion failed")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrGeneration         = errors.New("generation failed")
)
