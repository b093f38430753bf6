package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/learnforge/learnforge/internal/domain"
	"github.com/learnforge/learnforge/internal/store"
)

// LeaderboardHandler handles the public score board. Both routes are
// open: submissions carry a display name, not a session.
type LeaderboardHandler struct {
	store store.LeaderboardStore
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(st store.LeaderboardStore) *LeaderboardHandler {
	return &LeaderboardHandler{store: st}
}

// List handles GET /api/leaderboard, sorted by score descending.
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListScores(r.Context())
	if err != nil {
		InternalError(w, r, "failed to load leaderboard", err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

// Add handles POST /api/leaderboard
func (h *LeaderboardHandler) Add(w http.ResponseWriter, r *http.Request) {
	var entry domain.LeaderboardEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}
	if entry.User == "" {
		BadRequest(w, r, "user is required")
		return
	}
	if entry.Score < 0 {
		BadRequest(w, r, "score must not be negative")
		return
	}

	if err := h.store.AppendScore(r.Context(), entry); err != nil {
		InternalError(w, r, "failed to record score", err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}
