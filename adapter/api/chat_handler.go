package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/biblechat/biblechat-api/internal/chat"
)

// ChatHandler handles Bible chat requests.
type ChatHandler struct {
	responder *chat.Responder
	logger    *slog.Logger
}

// NewChatHandler creates a handler.
func NewChatHandler(responder *chat.Responder, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{responder: responder, logger: logger}
}

// BibleChat handles POST /functions/v1/bible-chat.
func (h *ChatHandler) BibleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.responder.Respond(req.Message))
}
