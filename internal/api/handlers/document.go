package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/Harshitk-cp/crag/internal/service"
)

type DocumentHandler struct {
	svc *service.DocumentService
}

// NewDocumentHandler accepts a nil service when the configured retriever has
// no writable index; requests then get 501.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type createDocumentRequest struct {
	ID      string `json:"id,omitempty"`
	Key     string `json:"key,omitempty"`
	Title   string `json:"title,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
	Chunk   string `json:"chunk,omitempty"`
	URL     string `json:"url,omitempty"`
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusNotImplemented, "document ingestion requires the pgvector retriever")
		return
	}

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.svc.Index(r.Context(), domain.Document{
		ID:      req.ID,
		Key:     req.Key,
		Title:   req.Title,
		Name:    req.Name,
		Content: req.Content,
		Text:    req.Text,
		Chunk:   req.Chunk,
		URL:     req.URL,
	})
	if err != nil {
		writeServiceError(w, err, "failed to index document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}
