package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	middleware "github.com/askmydoc/askmydoc/internal/api/middlewares"
	"github.com/askmydoc/askmydoc/internal/config"
	"github.com/askmydoc/askmydoc/internal/core"
	"github.com/askmydoc/askmydoc/internal/core/rag"
	"github.com/askmydoc/askmydoc/internal/models"
)

const maxUploadBytes = 10 << 20 // 10 MB

type DocumentHandler struct {
	dbclient     core.DbClient
	objectclient core.ObjectClient
	extractor    core.TextExtractor
	ingestor     *rag.Ingestor
	cfg          *config.Config
}

func NewDocumentHandler(dbclient core.DbClient, objectclient core.ObjectClient, extractor core.TextExtractor, ingestor *rag.Ingestor, cfg *config.Config) *DocumentHandler {
	return &DocumentHandler{
		dbclient:     dbclient,
		objectclient: objectclient,
		extractor:    extractor,
		ingestor:     ingestor,
		cfg:          cfg,
	}
}

// UploadDocument stores the original file, extracts its text and runs the
// ingestion pipeline synchronously, responding with the document summary.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid or oversized upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	cleanFilename := filepath.Base(header.Filename)
	key := DocKey(cleanFilename)
	if key == "" {
		http.Error(w, "invalid filename", http.StatusBadRequest)
		return
	}
	docID := uuid.NewString()
	s3Key := fmt.Sprintf("%s/%s/%s", userID, docID, cleanFilename)

	// The original upload and the text extraction are independent; run them
	// side by side.
	var (
		storageURL string
		text       string
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		url, err := h.objectclient.UploadFile(gctx, h.cfg.BucketName, s3Key, data, contentType)
		if err != nil {
			return fmt.Errorf("store original: %w", err)
		}
		storageURL = url
		return nil
	})
	g.Go(func() error {
		extracted, err := h.extractor.ExtractText(gctx, data, contentType)
		if err != nil {
			return fmt.Errorf("extract text: %w", err)
		}
		text = extracted
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("upload failed for %s: %v", cleanFilename, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	doc := &models.Document{
		ID:          docID,
		UserID:      userID,
		FileName:    cleanFilename,
		DocKey:      key,
		StorageURL:  storageURL,
		SourceType:  "upload",
		ContentType: contentType,
		Status:      "processing",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := h.dbclient.UpsertDocument(r.Context(), doc); err != nil {
		log.Printf("DB insert failed for doc %s: %v", docID, err)
		http.Error(w, "failed to store document metadata", http.StatusInternalServerError)
		return
	}

	result, err := h.ingestor.Ingest(r.Context(), text, key)
	if err != nil {
		_ = h.dbclient.UpdateDocumentStatus(r.Context(), doc.ID, "failed")
		writeRAGError(w, err)
		return
	}

	rows := make([]models.DocumentChunk, len(result.Chunks))
	for i, c := range result.Chunks {
		rows[i] = models.DocumentChunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Position:   c.Position,
			Text:       c.Text,
			Embedding:  result.Embeddings[i],
		}
	}
	if err := h.dbclient.ReplaceDocumentChunks(r.Context(), doc.ID, rows); err != nil {
		// The index is already persisted; the archive rows are best-effort.
		log.Printf("chunk archive failed for doc %s: %v", doc.ID, err)
	}
	if err := h.dbclient.SetDocumentSummary(r.Context(), doc.ID, result.Summary); err != nil {
		log.Printf("summary update failed for doc %s: %v", doc.ID, err)
	}
	if err := h.dbclient.UpdateDocumentStatus(r.Context(), doc.ID, "ready"); err != nil {
		log.Printf("status update failed for doc %s: %v", doc.ID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message":  "document uploaded and processed successfully",
		"filename": cleanFilename,
		"doc_key":  key,
		"summary":  result.Summary,
	})
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	documents, err := h.dbclient.ListDocumentsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(documents)
}

// GetDocumentChunks returns the archived chunk rows for one document.
func (h *DocumentHandler) GetDocumentChunks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	doc, err := h.ownedDocument(r, userID)
	if err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	chunks, err := h.dbclient.GetChunksByDocument(r.Context(), doc.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chunks)
}

// DeleteDocument removes the document row (chunk rows cascade) and the
// stored original.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	doc, err := h.ownedDocument(r, userID)
	if err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	if err := h.dbclient.DeleteDocument(r.Context(), doc.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if bucket, s3Key := parseS3URL(doc.StorageURL); bucket != "" && s3Key != "" {
		if err := h.objectclient.DeleteFile(r.Context(), bucket, s3Key); err != nil {
			log.Printf("delete original for doc %s: %v", doc.ID, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) ownedDocument(r *http.Request, userID string) (*models.Document, error) {
	id := chi.URLParam(r, "id")
	doc, err := h.dbclient.GetDocumentByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.UserID != userID {
		return nil, errors.New("document not found")
	}
	return doc, nil
}

// DocKey derives the retrieval key for a document from its filename: base
// name, extension stripped, spaces collapsed to underscores. Two uploads
// sharing a sanitized name share a key and silently overwrite each other.
func DocKey(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

// parseS3URL extracts the bucket and key from a virtual-hosted-style S3 URL,
// e.g. https://my-bucket.s3.us-east-2.amazonaws.com/path/to/file.pdf.
func parseS3URL(u string) (bucket, key string) {
	hostPath := strings.SplitN(strings.TrimPrefix(u, "https://"), "/", 2)
	host := hostPath[0]
	if len(hostPath) == 2 {
		key = hostPath[1]
	}
	parts := strings.Split(host, ".")
	if len(parts) > 0 {
		bucket = parts[0]
	}
	return bucket, key
}
