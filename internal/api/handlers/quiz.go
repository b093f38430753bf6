package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/learnforge/learnforge/internal/llm"
	"github.com/learnforge/learnforge/internal/quiz"
)

// QuizHandler handles multiple-choice quiz generation
type QuizHandler struct {
	svc        *quiz.Service
	configured bool
}

// NewQuizHandler creates a new quiz handler. configured reports whether a
// usable provider credential is present; without one requests are refused
// before any outbound call.
func NewQuizHandler(svc *quiz.Service, configured bool) *QuizHandler {
	return &QuizHandler{svc: svc, configured: configured}
}

// GenerateQuizRequest is the request body for quiz generation
type GenerateQuizRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Generate handles POST /api/generate-mcqs
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !h.configured {
		ProviderUnconfigured(w, r)
		return
	}

	var req GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	mcqs, err := h.svc.Generate(r.Context(), quiz.GenerateRequest{
		Topic: req.Topic,
		Count: req.Count,
	})
	if err != nil {
		if errors.Is(err, quiz.ErrTopicRequired) {
			BadRequest(w, r, "topic is required")
			return
		}
		writeProviderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"mcqs": mcqs})
}

// writeProviderError maps provider failures to the error envelope:
// upstream non-2xx replies keep their status and body, unparseable output
// keeps the raw text.
func writeProviderError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		UpstreamError(w, r, upstream.Status, upstream.Body, err)
		return
	}

	var malformed *llm.MalformedOutputError
	if errors.As(err, &malformed) {
		ProcessingError(w, r, malformed.Raw, err)
		return
	}

	if errors.Is(err, llm.ErrNoDefaultProvider) {
		ProviderUnconfigured(w, r)
		return
	}

	InternalError(w, r, "generation failed", err)
}
