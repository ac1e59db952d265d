package searchModel

import "errors"

// Pipeline error taxonomy. Handlers map these onto HTTP codes, everything
// else wraps them with %w so errors.Is keeps working across layers.
var (
	// ErrInvalidConfiguration - bad chunker or backend parameters, user input.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrModelUnavailable - requested embedding model is not in the catalog.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrEmptyInput - a build was asked to index nothing.
	ErrEmptyInput = errors.New("empty input")

	// ErrEmptyQuery - blank query text.
	ErrEmptyQuery = errors.New("empty query")

	// ErrInvalidTopK - top_k below 1.
	ErrInvalidTopK = errors.New("top_k must be at least 1")

	// ErrDimensionMismatch - vectors of the wrong length reached an index.
	// After request validation this is always a bug, not a user error.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrIndexNotFound - the requested index was never built.
	ErrIndexNotFound = errors.New("index not found")

	// ErrBackendIO - the persistence layer failed to read or write.
	ErrBackendIO = errors.New("index backend io failure")
)
