package handlers

import (
	"net/http"

	"github.com/learnforge/learnforge/internal/challenge"
)

// ChallengeHandler serves the daily coding challenge
type ChallengeHandler struct {
	svc *challenge.Service
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(svc *challenge.Service) *ChallengeHandler {
	return &ChallengeHandler{svc: svc}
}

// Today handles GET /api/daily-challenge
func (h *ChallengeHandler) Today(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"challenge": h.svc.Today()})
}
