package handlers

import (
	"errors"
	"net/http"

	"github.com/askmydoc/askmydoc/internal/core/rag"
)

// writeRAGError maps the pipeline's named failures onto HTTP status codes.
// Each failure keeps its own message so clients can tell them apart.
func writeRAGError(w http.ResponseWriter, err error) {
	var (
		notFound   *rag.NotFoundError
		embedding  *rag.EmbeddingError
		generation *rag.GenerationError
		persist    *rag.IndexPersistError
		dimension  *rag.DimensionMismatchError
	)
	switch {
	case errors.Is(err, rag.ErrEmptyText):
		http.Error(w, "no text could be extracted from the document", http.StatusBadRequest)
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &embedding):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.As(err, &generation):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.As(err, &persist):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.As(err, &dimension):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
