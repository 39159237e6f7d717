package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ThreadHandler struct {
	conversations domain.ConversationStore
}

func NewThreadHandler(cs domain.ConversationStore) *ThreadHandler {
	return &ThreadHandler{conversations: cs}
}

func (h *ThreadHandler) Messages(w http.ResponseWriter, r *http.Request) {
	thread, err := h.conversations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to load thread")
		return
	}

	writeJSON(w, http.StatusOK, thread)
}

func (h *ThreadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.conversations.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "failed to delete thread")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
