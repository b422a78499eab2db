package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store := NewFSStore(t.TempDir())
	ctx := context.Background()

	if err := store.Put(ctx, "mydoc", []byte(`{"dim":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := store.Get(ctx, "mydoc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != `{"dim":1}` {
		t.Errorf("got %q", data)
	}
}

func TestFSStoreMissingKey(t *testing.T) {
	store := NewFSStore(t.TempDir())
	_, err := store.Get(context.Background(), "nope")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if notFound.Key != "nope" {
		t.Errorf("key = %q, want nope", notFound.Key)
	}
}

func TestFSStoreOverwrite(t *testing.T) {
	store := NewFSStore(t.TempDir())
	ctx := context.Background()

	if err := store.Put(ctx, "doc", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "doc", []byte("new")); err != nil {
		t.Fatal(err)
	}
	data, err := store.Get(ctx, "doc")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("got %q, want new", data)
	}
}

func TestFSStoreStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore(dir)
	ctx := context.Background()

	if err := store.Put(ctx, "../escape", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.json")); err != nil {
		t.Errorf("index file should land inside the store dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Error("index file escaped the store dir")
	}
}

func TestSaveLoadIndexSearchEquivalence(t *testing.T) {
	store := NewFSStore(t.TempDir())
	ctx := context.Background()

	ix, err := BuildIndex(
		chunksOf("one two", "three four", "five six"),
		[][]float32{{1, 0}, {0, 1}, {0.6, 0.8}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveIndex(ctx, store, "doc", ix); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadIndex(ctx, store, "doc")
	if err != nil {
		t.Fatal(err)
	}

	query := []float32{0.8, 0.6}
	before, _ := ix.Search(query, 3)
	after, err := loaded.Search(query, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if before[i].Chunk != after[i].Chunk {
			t.Errorf("result %d differs after persistence round trip", i)
		}
	}
}

func TestLoadIndexMissingKey(t *testing.T) {
	store := NewFSStore(t.TempDir())
	_, err := LoadIndex(context.Background(), store, "ghost")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
}
