package handlers

import (
	"encoding/json"
	"net/http"

	middleware "github.com/askmydoc/askmydoc/internal/api/middlewares"
	"github.com/askmydoc/askmydoc/internal/core"
	"github.com/askmydoc/askmydoc/internal/core/rag"
)

type ChatHandler struct {
	dbclient core.DbClient
	answerer *rag.Answerer
}

func NewChatHandler(dbclient core.DbClient, answerer *rag.Answerer) *ChatHandler {
	return &ChatHandler{dbclient: dbclient, answerer: answerer}
}

type askRequest struct {
	Question string `json:"question"`
	Filename string `json:"filename"`
}

// Ask answers a question against one previously ingested document.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Question == "" || req.Filename == "" {
		http.Error(w, "question and filename are required", http.StatusBadRequest)
		return
	}

	key := DocKey(req.Filename)

	// Confirm the document belongs to the caller before touching the index.
	doc, err := h.dbclient.GetDocumentByKey(r.Context(), userID, key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "document not found: upload and process it first", http.StatusNotFound)
		return
	}

	answer, err := h.answerer.AnswerQuestion(r.Context(), req.Question, key)
	if err != nil {
		writeRAGError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"answer": answer})
}
