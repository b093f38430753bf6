package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/learnforge/learnforge/internal/review"
)

// ReviewHandler handles project code review
type ReviewHandler struct {
	svc        *review.Service
	configured bool
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(svc *review.Service, configured bool) *ReviewHandler {
	return &ReviewHandler{svc: svc, configured: configured}
}

// ReviewProjectRequest is the request body for project review
type ReviewProjectRequest struct {
	Code             string   `json:"code"`
	TaskTitle        string   `json:"taskTitle"`
	TaskDescription  string   `json:"taskDescription"`
	TaskRequirements []string `json:"taskRequirements"`
}

// Review handles POST /api/review-project
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	if !h.configured {
		ProviderUnconfigured(w, r)
		return
	}

	var req ReviewProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	result, err := h.svc.Review(r.Context(), review.Request{
		Code:             req.Code,
		TaskTitle:        req.TaskTitle,
		TaskDescription:  req.TaskDescription,
		TaskRequirements: req.TaskRequirements,
	})
	if err != nil {
		if errors.Is(err, review.ErrCodeRequired) {
			BadRequest(w, r, "code is required")
			return
		}
		if errors.Is(err, review.ErrTitleRequired) {
			BadRequest(w, r, "taskTitle is required")
			return
		}
		writeProviderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"review": result})
}
