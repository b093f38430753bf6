package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/learnforge/learnforge/internal/domain"
	"github.com/learnforge/learnforge/internal/events"
	"github.com/learnforge/learnforge/internal/store"
)

// ProgressHandler handles the append-only progress record
type ProgressHandler struct {
	store  store.ProgressStore
	events events.Publisher
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(st store.ProgressStore, pub events.Publisher) *ProgressHandler {
	return &ProgressHandler{store: st, events: pub}
}

// RecordProgressRequest is the request body for recording progress
type RecordProgressRequest struct {
	Type   string          `json:"type"`
	Topic  string          `json:"topic"`
	Score  float64         `json:"score"`
	Detail json.RawMessage `json:"detail"`
}

// List handles GET /api/user-progress
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	entries, err := h.store.ListProgress(r.Context(), user.ID.String())
	if err != nil {
		InternalError(w, r, "failed to load progress", err)
		return
	}
	if entries == nil {
		entries = []domain.ProgressEntry{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"progress": entries})
}

// Record handles POST /api/user-progress. Entries are timestamped
// server-side and appended, never mutated.
func (h *ProgressHandler) Record(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	var req RecordProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	kind := domain.ProgressKind(req.Type)
	switch kind {
	case domain.ProgressQuiz, domain.ProgressViva, domain.ProgressProject:
	default:
		BadRequest(w, r, "type must be one of quiz, viva, project")
		return
	}

	entry := domain.ProgressEntry{
		Kind:       kind,
		Topic:      req.Topic,
		Score:      req.Score,
		Detail:     req.Detail,
		RecordedAt: time.Now().UTC(),
	}

	if err := h.store.AppendProgress(r.Context(), user.ID.String(), entry); err != nil {
		InternalError(w, r, "failed to record progress", err)
		return
	}

	// Best-effort: a broker outage never fails the request
	if err := h.events.ProgressRecorded(r.Context(), user.ID.String(), entry); err != nil {
		slog.Warn("failed to publish progress event", "user", user.ID, "error", err)
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}
