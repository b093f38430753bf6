package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/learnforge/learnforge/internal/domain"
	"github.com/learnforge/learnforge/internal/store"
)

// MessagesHandler handles direct messages between learners
type MessagesHandler struct {
	store store.MessageStore
}

// NewMessagesHandler creates a new messages handler
func NewMessagesHandler(st store.MessageStore) *MessagesHandler {
	return &MessagesHandler{store: st}
}

// SendMessageRequest is the request body for sending a message
type SendMessageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// List handles GET /api/messages?with=<user>. Only messages exchanged
// between the caller and the named user are returned, in either direction.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	withUser := r.URL.Query().Get("with")
	if withUser == "" {
		BadRequest(w, r, "with query parameter is required")
		return
	}

	messages, err := h.store.ListConversation(r.Context(), user.ID.String(), withUser)
	if err != nil {
		InternalError(w, r, "failed to load messages", err)
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// Send handles POST /api/messages
func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}
	if req.To == "" || req.Text == "" {
		BadRequest(w, r, "to and text are required")
		return
	}

	msg := domain.Message{
		From:   user.ID.String(),
		To:     req.To,
		Text:   req.Text,
		SentAt: time.Now().UTC(),
	}

	if err := h.store.AppendMessage(r.Context(), msg); err != nil {
		InternalError(w, r, "failed to send message", err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"message": msg})
}
