package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/learnforge/learnforge/internal/viva"
)

// VivaHandler handles mock interview turns
type VivaHandler struct {
	svc        *viva.Service
	configured bool
}

// NewVivaHandler creates a new viva handler
func NewVivaHandler(svc *viva.Service, configured bool) *VivaHandler {
	return &VivaHandler{svc: svc, configured: configured}
}

// VivaChatRequest is the request body for an interview turn
type VivaChatRequest struct {
	Topic             string    `json:"topic"`
	QuestionHistory   []viva.QA `json:"questionHistory"`
	UserAnswer        string    `json:"userAnswer"`
	CurrentQuestionID string    `json:"currentQuestionId"`
}

// Chat handles POST /api/viva-chat
func (h *VivaHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.configured {
		ProviderUnconfigured(w, r)
		return
	}

	var req VivaChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	reply, err := h.svc.Chat(r.Context(), viva.ChatRequest{
		Topic:             req.Topic,
		QuestionHistory:   req.QuestionHistory,
		UserAnswer:        req.UserAnswer,
		CurrentQuestionID: req.CurrentQuestionID,
	})
	if err != nil {
		if errors.Is(err, viva.ErrTopicRequired) {
			BadRequest(w, r, "topic is required")
			return
		}
		writeProviderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, reply)
}
