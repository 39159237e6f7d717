package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/crag/internal/service"
)

type ChatHandler struct {
	corrective *service.CorrectiveService
	rag        *service.RAGService
}

func NewChatHandler(corrective *service.CorrectiveService, rag *service.RAGService) *ChatHandler {
	return &ChatHandler{corrective: corrective, rag: rag}
}

type chatRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Message  string `json:"message"`
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	return req, true
}

// Corrective answers with grounding evaluation and one corrective pass.
func (h *ChatHandler) Corrective(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	answer, err := h.corrective.Answer(r.Context(), req.ThreadID, req.Message)
	if err != nil {
		writeServiceError(w, err, "failed to answer")
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	answer, err := h.rag.Chat(r.Context(), req.ThreadID, req.Message)
	if err != nil {
		writeServiceError(w, err, "failed to answer")
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// Ask is the stateless flow; thread_id is ignored.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	answer, err := h.rag.Ask(r.Context(), req.Message)
	if err != nil {
		writeServiceError(w, err, "failed to answer")
		return
	}

	writeJSON(w, http.StatusOK, answer)
}
