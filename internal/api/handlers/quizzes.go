package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/learnforge/learnforge/internal/domain"
	"github.com/learnforge/learnforge/internal/store"
)

// QuizzesHandler handles user-authored quizzes
type QuizzesHandler struct {
	store store.QuizStore
}

// NewQuizzesHandler creates a new custom quiz handler
func NewQuizzesHandler(st store.QuizStore) *QuizzesHandler {
	return &QuizzesHandler{store: st}
}

// List handles GET /api/custom-quizzes
func (h *QuizzesHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	quizzes, err := h.store.ListQuizzes(r.Context(), user.ID.String())
	if err != nil {
		InternalError(w, r, "failed to load quizzes", err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.CustomQuiz{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

// Create handles POST /api/custom-quizzes
func (h *QuizzesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	var quiz domain.CustomQuiz
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	if err := validateQuiz(&quiz); err != nil {
		BadRequest(w, r, err.Error())
		return
	}
	quiz.CreatedAt = time.Now().UTC()

	if err := h.store.AppendQuiz(r.Context(), user.ID.String(), quiz); err != nil {
		InternalError(w, r, "failed to save quiz", err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"quiz": quiz})
}

func validateQuiz(quiz *domain.CustomQuiz) error {
	if quiz.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}
	for i, q := range quiz.Questions {
		if q.Text == "" {
			return fmt.Errorf("question %d is missing its text", i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d needs at least two options", i+1)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return fmt.Errorf("question %d answer index is out of range", i+1)
		}
	}
	return nil
}
