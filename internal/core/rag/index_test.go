package rag

import (
	"errors"
	"testing"
)

func chunksOf(texts ...string) []Chunk {
	out := make([]Chunk, len(texts))
	for i, t := range texts {
		out[i] = Chunk{Source: "doc", Position: i, Text: t}
	}
	return out
}

func TestBuildIndexCountMismatch(t *testing.T) {
	_, err := BuildIndex(chunksOf("a", "b"), [][]float32{{1, 0}})
	if err == nil {
		t.Fatal("expected error for unequal chunk/vector counts")
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	if _, err := BuildIndex(nil, nil); err == nil {
		t.Fatal("expected error for empty index")
	}
}

func TestBuildIndexRaggedDimensions(t *testing.T) {
	_, err := BuildIndex(chunksOf("a", "b"), [][]float32{{1, 0}, {1, 0, 0}})
	var dimErr *DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected *DimensionMismatchError, got %v", err)
	}
	if dimErr.Got != 3 || dimErr.Want != 2 {
		t.Errorf("got/want = %d/%d, expected 3/2", dimErr.Got, dimErr.Want)
	}
}

func TestSearchOrderingAndBound(t *testing.T) {
	ix, err := BuildIndex(
		chunksOf("far", "near", "middle"),
		[][]float32{{0, 1}, {1, 0}, {0.6, 0.8}},
	)
	if err != nil {
		t.Fatal(err)
	}

	query := []float32{1, 0}
	for _, k := range []int{1, 2, 3, 10} {
		results, err := ix.Search(query, k)
		if err != nil {
			t.Fatal(err)
		}
		want := k
		if want > 3 {
			want = 3
		}
		if len(results) != want {
			t.Fatalf("k=%d: got %d results, want %d", k, len(results), want)
		}
		for i := 1; i < len(results); i++ {
			if results[i].Score > results[i-1].Score {
				t.Errorf("k=%d: scores not non-increasing at %d", k, i)
			}
		}
		if results[0].Chunk.Text != "near" {
			t.Errorf("k=%d: best match %q, want near", k, results[0].Chunk.Text)
		}
	}
}

func TestSearchZeroK(t *testing.T) {
	ix, _ := BuildIndex(chunksOf("a"), [][]float32{{1, 0}})
	results, err := ix.Search([]float32{1, 0}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("k=0 must return no results, got %d", len(results))
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	ix, _ := BuildIndex(
		chunksOf("first", "second", "third"),
		[][]float32{{1, 0}, {1, 0}, {1, 0}},
	)
	results, err := ix.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if results[i].Chunk.Text != want {
			t.Errorf("tie position %d: got %q, want %q", i, results[i].Chunk.Text, want)
		}
	}
}

func TestSearchQueryDimensionMismatch(t *testing.T) {
	ix, _ := BuildIndex(chunksOf("a"), [][]float32{{1, 0, 0}})
	_, err := ix.Search([]float32{1, 0}, 1)
	var dimErr *DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected *DimensionMismatchError, got %v", err)
	}
	if dimErr.Got != 2 || dimErr.Want != 3 {
		t.Errorf("got/want = %d/%d, expected 2/3", dimErr.Got, dimErr.Want)
	}
}

func TestIndexEncodeDecodeRoundTrip(t *testing.T) {
	ix, err := BuildIndex(
		chunksOf("alpha beta", "gamma delta", "epsilon"),
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0.6, 0.8}},
	)
	if err != nil {
		t.Fatal(err)
	}

	data, err := ix.Encode()
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := DecodeIndex(data)
	if err != nil {
		t.Fatal(err)
	}

	query := []float32{0, 0.8, 0.6}
	before, err := ix.Search(query, 3)
	if err != nil {
		t.Fatal(err)
	}
	after, err := loaded.Search(query, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != len(after) {
		t.Fatalf("result counts differ: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Chunk != after[i].Chunk {
			t.Errorf("result %d: chunk identity differs after round trip", i)
		}
	}
}

func TestDecodeIndexGarbage(t *testing.T) {
	if _, err := DecodeIndex([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
