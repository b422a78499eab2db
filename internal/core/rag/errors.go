package rag

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned by Ingest when the extracted document text is
// empty or whitespace-only. Nothing is persisted in that case.
var ErrEmptyText = errors.New("document text is empty")

// NotFoundError reports a question asked against a key that has no persisted
// index. This is an expected user-facing condition, not a system fault.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no index found for document %q: ingest it first", e.Key)
}

// EmbeddingError wraps a model load or inference failure from the embedding
// backend. The operation that triggered it is aborted with no partial output.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding failed: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError reports that both the primary and the fallback generation
// backends failed for one operation.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generation failed: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// IndexPersistError wraps a failure to write a built index to the store.
type IndexPersistError struct {
	Key string
	Err error
}

func (e *IndexPersistError) Error() string {
	return fmt.Sprintf("persist index for %q: %v", e.Key, e.Err)
}
func (e *IndexPersistError) Unwrap() error { return e.Err }

// DimensionMismatchError reports vectors of differing lengths inside one
// index, or a query vector whose dimension differs from the index's. This is
// a configuration error and is never retried.
type DimensionMismatchError struct {
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: got %d, want %d", e.Got, e.Want)
}
