package rag

import (
	"encoding/json"
	"fmt"
	"sort"
)

// VectorIndex holds the embedded chunks of a single document. It is built
// once per ingestion, persisted as a whole, and loaded as a fresh read-only
// copy for every question; it is never mutated after construction.
type VectorIndex struct {
	Dim     int         `json:"dim"`
	Chunks  []Chunk     `json:"chunks"`
	Vectors [][]float32 `json:"vectors"`
}

// SearchResult is one retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// BuildIndex pairs chunks with their embeddings. The slices must be parallel
// and every vector must have the same dimension.
func BuildIndex(chunks []Chunk, vectors [][]float32) (*VectorIndex, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunk/vector count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("cannot build an empty index")
	}
	dim := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dim {
			return nil, &DimensionMismatchError{Got: len(v), Want: dim}
		}
	}
	return &VectorIndex{Dim: dim, Chunks: chunks, Vectors: vectors}, nil
}

// Search returns up to k chunks ordered by descending dot-product similarity.
// Stored vectors and queries are L2-normalized, so the dot product is the
// cosine similarity. Ties keep insertion order. The scan is exact and linear;
// one document's chunks number in the hundreds, not millions.
func (ix *VectorIndex) Search(query []float32, k int) ([]SearchResult, error) {
	if len(query) != ix.Dim {
		return nil, &DimensionMismatchError{Got: len(query), Want: ix.Dim}
	}
	if k <= 0 {
		return nil, nil
	}

	results := make([]SearchResult, len(ix.Vectors))
	for i, v := range ix.Vectors {
		results[i] = SearchResult{Chunk: ix.Chunks[i], Score: dot(v, query)}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Encode serializes the index for persistence.
func (ix *VectorIndex) Encode() ([]byte, error) {
	return json.Marshal(ix)
}

// DecodeIndex reverses Encode.
func DecodeIndex(data []byte) (*VectorIndex, error) {
	var ix VectorIndex
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &ix, nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
