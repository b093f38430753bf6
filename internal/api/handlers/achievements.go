package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/learnforge/learnforge/internal/domain"
	"github.com/learnforge/learnforge/internal/events"
	"github.com/learnforge/learnforge/internal/store"
)

// AchievementsHandler handles unlocked achievements
type AchievementsHandler struct {
	store  store.AchievementStore
	events events.Publisher
}

// NewAchievementsHandler creates a new achievements handler
func NewAchievementsHandler(st store.AchievementStore, pub events.Publisher) *AchievementsHandler {
	return &AchievementsHandler{store: st, events: pub}
}

// UnlockRequest is the request body for unlocking an achievement
type UnlockRequest struct {
	Achievement domain.Achievement `json:"achievement"`
}

// List handles GET /api/achievements, returning the user's unlocks
// alongside the full catalog.
func (h *AchievementsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	unlocked, err := h.store.ListAchievements(r.Context(), user.ID.String())
	if err != nil {
		InternalError(w, r, "failed to load achievements", err)
		return
	}
	if unlocked == nil {
		unlocked = []domain.Achievement{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"achievements": unlocked,
		"catalog":      domain.AllAchievements,
	})
}

// Unlock handles POST /api/achievements. Unlocking an already held
// achievement is a no-op.
func (h *AchievementsHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}
	if !slices.Contains(domain.AllAchievements, req.Achievement) {
		BadRequest(w, r, "unknown achievement")
		return
	}

	if err := h.store.Unlock(r.Context(), user.ID.String(), req.Achievement); err != nil {
		InternalError(w, r, "failed to unlock achievement", err)
		return
	}

	// Best-effort: a broker outage never fails the request
	if err := h.events.AchievementUnlocked(r.Context(), user.ID.String(), req.Achievement); err != nil {
		slog.Warn("failed to publish achievement event", "user", user.ID, "error", err)
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"achievement": req.Achievement})
}
