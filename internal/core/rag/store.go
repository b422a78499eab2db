package rag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/askmydoc/askmydoc/internal/core"
)

// IndexStore is the key-value persistence boundary for vector indexes. How a
// key maps to a physical location is the store's business; the core only
// puts and gets opaque bytes.
type IndexStore interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns *NotFoundError when no index exists under key.
	Get(ctx context.Context, key string) ([]byte, error)
}

// SaveIndex encodes and writes an index under key, overwriting any previous
// index for that key.
func SaveIndex(ctx context.Context, store IndexStore, key string, ix *VectorIndex) error {
	data, err := ix.Encode()
	if err != nil {
		return &IndexPersistError{Key: key, Err: err}
	}
	if err := store.Put(ctx, key, data); err != nil {
		return &IndexPersistError{Key: key, Err: err}
	}
	return nil
}

// LoadIndex reads and decodes the index persisted under key.
func LoadIndex(ctx context.Context, store IndexStore, key string) (*VectorIndex, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return DecodeIndex(data)
}

// FSStore persists one index file per document key under a local directory.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

func (s *FSStore) Put(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &NotFoundError{Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return data, nil
}

func (s *FSStore) path(key string) string {
	// Base strips any path components a hostile key might carry.
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

// S3Store persists indexes as objects in a bucket, one per document key,
// under a shared prefix.
type S3Store struct {
	obj    core.ObjectClient
	bucket string
	prefix string
}

func NewS3Store(obj core.ObjectClient, bucket, prefix string) *S3Store {
	if prefix == "" {
		prefix = "vectorstore"
	}
	return &S3Store{obj: obj, bucket: bucket, prefix: prefix}
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.obj.UploadFile(ctx, s.bucket, s.objectKey(key), data, "application/json")
	return err
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.obj.GetFile(ctx, s.bucket, s.objectKey(key))
	if errors.Is(err, core.ErrObjectNotFound) {
		return nil, &NotFoundError{Key: key}
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *S3Store) objectKey(key string) string {
	key = strings.ReplaceAll(key, " ", "_")
	return path.Join(s.prefix, path.Base(key)+".json")
}
