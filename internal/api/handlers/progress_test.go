package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/learnforge/learnforge/internal/domain"
	"github.com/learnforge/learnforge/internal/events"
	"github.com/learnforge/learnforge/internal/store/memory"
)

func authedRequest(method, path, body string, user *domain.User) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), ContextKeyUser, user)
	return req.WithContext(ctx)
}

func TestProgressHandler_RecordAndList(t *testing.T) {
	st := memory.NewStore()
	h := NewProgressHandler(st, events.NoopPublisher{})
	user := &domain.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}

	for _, body := range []string{
		`{"type": "quiz", "topic": "Slices", "score": 80}`,
		`{"type": "viva", "topic": "Concurrency", "score": 70}`,
	} {
		rec := httptest.NewRecorder()
		h.Record(rec, authedRequest(http.MethodPost, "/api/user-progress", body, user))
		if rec.Code != http.StatusCreated {
			t.Fatalf("record status = %d; want 201 (body %q)", rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/user-progress", "", user))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d; want 200", rec.Code)
	}

	var resp struct {
		Progress []domain.ProgressEntry `json:"progress"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Progress) != 2 {
		t.Fatalf("len(progress) = %d; want 2", len(resp.Progress))
	}
	if resp.Progress[0].Kind != domain.ProgressQuiz || resp.Progress[1].Kind != domain.ProgressViva {
		t.Errorf("entries out of insertion order: %+v", resp.Progress)
	}
	if resp.Progress[0].RecordedAt.IsZero() {
		t.Error("entries must carry a server-side timestamp")
	}
}

func TestProgressHandler_RejectsUnknownType(t *testing.T) {
	st := memory.NewStore()
	h := NewProgressHandler(st, events.NoopPublisher{})
	user := &domain.User{ID: uuid.New()}

	rec := httptest.NewRecorder()
	h.Record(rec, authedRequest(http.MethodPost, "/api/user-progress", `{"type": "exam"}`, user))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}

	entries, _ := st.ListProgress(context.Background(), user.ID.String())
	if len(entries) != 0 {
		t.Errorf("rejected entry must not be stored, got %+v", entries)
	}
}

func TestProgressHandler_UnauthenticatedDoesNotTouchStore(t *testing.T) {
	st := memory.NewStore()
	h := NewProgressHandler(st, events.NoopPublisher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/user-progress",
		strings.NewReader(`{"type": "quiz", "score": 100}`))
	h.Record(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q; want UNAUTHORIZED", apiErr.Code)
	}
}

func TestProfileHandler_ZeroProfileDefault(t *testing.T) {
	st := memory.NewStore()
	h := NewProfileHandler(st)
	user := &domain.User{ID: uuid.New()}

	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/api/user-profile", "", user))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp struct {
		Profile domain.Profile `json:"profile"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Profile.Bio != "" || resp.Profile.Goals != "" {
		t.Errorf("profile = %+v; want the zero profile", resp.Profile)
	}
}

func TestProfileHandler_SaveReplacesWholesale(t *testing.T) {
	st := memory.NewStore()
	h := NewProfileHandler(st)
	user := &domain.User{ID: uuid.New()}

	save := httptest.NewRecorder()
	h.Save(save, authedRequest(http.MethodPost, "/api/user-profile",
		`{"bio": "gopher", "goals": "ship"}`, user))
	if save.Code != http.StatusOK {
		t.Fatalf("save status = %d; want 200", save.Code)
	}

	// A save with only bio drops the previous goals
	h.Save(httptest.NewRecorder(), authedRequest(http.MethodPost, "/api/user-profile",
		`{"bio": "gopher v2"}`, user))

	profile, err := st.GetProfile(context.Background(), user.ID.String())
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.Bio != "gopher v2" || profile.Goals != "" {
		t.Errorf("profile = %+v; want wholesale replacement", profile)
	}
}

func TestQuizzesHandler_Validation(t *testing.T) {
	st := memory.NewStore()
	h := NewQuizzesHandler(st)
	user := &domain.User{ID: uuid.New()}

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"questions": [{"text": "q", "options": ["a", "b"], "answer": 0}]}`},
		{"no questions", `{"title": "t", "questions": []}`},
		{"one option", `{"title": "t", "questions": [{"text": "q", "options": ["a"], "answer": 0}]}`},
		{"answer out of range", `{"title": "t", "questions": [{"text": "q", "options": ["a", "b"], "answer": 2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, authedRequest(http.MethodPost, "/api/custom-quizzes", tt.body, user))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", rec.Code)
			}
		})
	}

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/custom-quizzes",
		`{"title": "Go Basics", "questions": [{"text": "q", "options": ["a", "b"], "answer": 1}]}`, user))
	if rec.Code != http.StatusCreated {
		t.Fatalf("valid quiz status = %d; want 201 (body %q)", rec.Code, rec.Body.String())
	}
}

func TestMessagesHandler_PairFiltering(t *testing.T) {
	st := memory.NewStore()
	h := NewMessagesHandler(st)
	ada := &domain.User{ID: uuid.New(), Name: "Ada"}
	bob := &domain.User{ID: uuid.New(), Name: "Bob"}
	eve := &domain.User{ID: uuid.New(), Name: "Eve"}

	send := func(from *domain.User, to, text string) {
		rec := httptest.NewRecorder()
		body := `{"to": "` + to + `", "text": "` + text + `"}`
		h.Send(rec, authedRequest(http.MethodPost, "/api/messages", body, from))
		if rec.Code != http.StatusCreated {
			t.Fatalf("send status = %d; want 201", rec.Code)
		}
	}

	send(ada, bob.ID.String(), "hi bob")
	send(bob, ada.ID.String(), "hi ada")
	send(eve, bob.ID.String(), "hi from eve")

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/messages?with="+bob.ID.String(), "", ada))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d; want 200", rec.Code)
	}

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("len(messages) = %d; want only the ada/bob pair", len(resp.Messages))
	}
	if resp.Messages[0].Text != "hi bob" || resp.Messages[1].Text != "hi ada" {
		t.Errorf("messages = %+v; want both directions in order", resp.Messages)
	}
}

func TestMessagesHandler_WithParamRequired(t *testing.T) {
	h := NewMessagesHandler(memory.NewStore())
	user := &domain.User{ID: uuid.New()}

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/messages", "", user))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestAchievementsHandler_UnlockIsIdempotent(t *testing.T) {
	st := memory.NewStore()
	h := NewAchievementsHandler(st, events.NoopPublisher{})
	user := &domain.User{ID: uuid.New()}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Unlock(rec, authedRequest(http.MethodPost, "/api/achievements",
			`{"achievement": "First Quiz"}`, user))
		if rec.Code != http.StatusCreated {
			t.Fatalf("unlock status = %d; want 201", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/achievements", "", user))

	var resp struct {
		Achievements []domain.Achievement `json:"achievements"`
		Catalog      []domain.Achievement `json:"catalog"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Achievements) != 1 {
		t.Errorf("achievements = %+v; repeated unlock must not duplicate", resp.Achievements)
	}
	if len(resp.Catalog) != len(domain.AllAchievements) {
		t.Errorf("catalog size = %d; want %d", len(resp.Catalog), len(domain.AllAchievements))
	}
}

func TestAchievementsHandler_UnknownAchievement(t *testing.T) {
	h := NewAchievementsHandler(memory.NewStore(), events.NoopPublisher{})
	user := &domain.User{ID: uuid.New()}

	rec := httptest.NewRecorder()
	h.Unlock(rec, authedRequest(http.MethodPost, "/api/achievements",
		`{"achievement": "Time Traveler"}`, user))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestLeaderboardHandler_SortedDescending(t *testing.T) {
	st := memory.NewStore()
	h := NewLeaderboardHandler(st)

	for _, body := range []string{
		`{"user": "ada", "score": 50}`,
		`{"user": "bob", "score": 90}`,
		`{"user": "eve", "score": 70}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/leaderboard", strings.NewReader(body))
		h.Add(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add status = %d; want 201", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))

	var resp struct {
		Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Leaderboard) != 3 {
		t.Fatalf("len = %d; want 3", len(resp.Leaderboard))
	}
	if resp.Leaderboard[0].User != "bob" || resp.Leaderboard[2].User != "ada" {
		t.Errorf("leaderboard = %+v; want descending by score", resp.Leaderboard)
	}
}
