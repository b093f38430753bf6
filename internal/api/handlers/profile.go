package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/learnforge/learnforge/internal/domain"
	"github.com/learnforge/learnforge/internal/store"
)

// ProfileHandler handles the per-user profile record
type ProfileHandler struct {
	store store.ProfileStore
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(st store.ProfileStore) *ProfileHandler {
	return &ProfileHandler{store: st}
}

// Get handles GET /api/user-profile. A user who never saved a profile
// gets the zero profile, not an error.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	profile, err := h.store.GetProfile(r.Context(), user.ID.String())
	if err != nil {
		InternalError(w, r, "failed to load profile", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

// Save handles POST /api/user-profile, replacing the profile wholesale.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	var profile domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	if err := h.store.SaveProfile(r.Context(), user.ID.String(), profile); err != nil {
		InternalError(w, r, "failed to save profile", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"profile": profile})
}
