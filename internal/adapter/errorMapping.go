package adapter

import (
	"errors"
	"net/http"

	"github.com/akolanti/SemanticSearchAPI/internal/documents"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

// MapError folds the pipeline error taxonomy onto HTTP codes and a message
// the caller can act on. Anything unrecognized is a plain 500.
func MapError(err error) (int, string) {
	switch {
	case errors.Is(err, searchModel.ErrEmptyQuery):
		return http.StatusBadRequest, "query text must not be blank"
	case errors.Is(err, searchModel.ErrInvalidTopK):
		return http.StatusBadRequest, "top_k must be at least 1"
	case errors.Is(err, searchModel.ErrInvalidConfiguration):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, searchModel.ErrEmptyInput):
		return http.StatusBadRequest, "nothing to index - upload documents first"
	case errors.Is(err, searchModel.ErrModelUnavailable):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, searchModel.ErrIndexNotFound):
		return http.StatusNotFound, "index not found - build it with POST /indexes/build"
	case errors.Is(err, documents.ErrDocumentNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, searchModel.ErrBackendIO):
		return http.StatusServiceUnavailable, "index storage is unavailable - rebuild the index or retry later"
	case errors.Is(err, searchModel.ErrDimensionMismatch):
		// past request validation this is a bug, not caller error
		return http.StatusInternalServerError, "internal vector dimension mismatch"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
