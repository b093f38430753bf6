package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/learnforge/learnforge/internal/auth"
	"github.com/learnforge/learnforge/internal/challenge"
	"github.com/learnforge/learnforge/internal/config"
	"github.com/learnforge/learnforge/internal/events"
	"github.com/learnforge/learnforge/internal/llm"
	"github.com/learnforge/learnforge/internal/quiz"
	"github.com/learnforge/learnforge/internal/review"
	"github.com/learnforge/learnforge/internal/store/memory"
	"github.com/learnforge/learnforge/internal/viva"
)

type stubProvider struct {
	content string
	calls   int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(_ context.Context, _ *llm.Request) (*llm.Response, error) {
	p.calls++
	return &llm.Response{Content: p.content}, nil
}

type testEnv struct {
	handler  http.Handler
	store    *memory.Store
	provider *stubProvider
}

func newTestEnv(t *testing.T, configured bool, rateLimit int) *testEnv {
	t.Helper()

	st := memory.NewStore()
	provider := &stubProvider{content: `{"mcqs": []}`}

	registry := llm.NewRegistry()
	registry.Register("stub", provider)
	registry.SetDefault("stub")

	challenges, err := challenge.NewService("")
	if err != nil {
		t.Fatalf("load challenge pack: %v", err)
	}

	cfg := &config.Config{
		StoreBackend:    "memory",
		RateLimit:       rateLimit,
		RateWindow:      time.Minute,
		RateLimitEnable: rateLimit > 0,
		SessionMaxAge:   3600,
	}

	app := &App{
		Config:        cfg,
		Store:         st,
		Auth:          auth.NewService(st, time.Hour),
		LLM:           registry,
		LLMConfigured: configured,
		Quiz:          quiz.NewService(registry),
		Review:        review.NewService(registry),
		Viva:          viva.NewService(registry, slog.Default()),
		Challenge:     challenges,
		Events:        events.NoopPublisher{},
	}

	return &testEnv{handler: NewRouter(app), store: st, provider: provider}
}

func (e *testEnv) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "1.2.3.4:5678"
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()

	rec := e.do(http.MethodPost, "/api/v1/auth/register",
		`{"email": "ada@example.com", "name": "Ada", "password": "secret-password"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d; want 201 (body %q)", rec.Code, rec.Body.String())
	}

	rec = e.do(http.MethodPost, "/api/v1/auth/login",
		`{"email": "ada@example.com", "password": "secret-password"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d; want 200 (body %q)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login response carries no token")
	}
	return resp.Token
}

func bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

func TestRouter_HealthAndReady(t *testing.T) {
	env := newTestEnv(t, true, 0)

	if rec := env.do(http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d; want 200", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/ready", "", nil); rec.Code != http.StatusOK {
		t.Errorf("/ready status = %d; want 200", rec.Code)
	}
}

func TestRouter_SessionGatedRoutesRefuseWithoutAuth(t *testing.T) {
	env := newTestEnv(t, true, 0)

	routes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/user-progress"},
		{http.MethodGet, "/api/user-progress"},
		{http.MethodPost, "/api/user-profile"},
		{http.MethodPost, "/api/custom-quizzes"},
		{http.MethodPost, "/api/messages"},
		{http.MethodPost, "/api/achievements"},
	}

	for _, route := range routes {
		rec := env.do(route.method, route.path, `{"type": "quiz", "score": 100}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d; want 401", route.method, route.path, rec.Code)
		}
	}

	// Nothing reached the store
	entries, _ := env.store.ListScores(context.Background())
	if len(entries) != 0 {
		t.Errorf("leaderboard = %+v; want empty", entries)
	}
}

func TestRouter_ProgressFlow(t *testing.T) {
	env := newTestEnv(t, true, 0)
	token := env.registerAndLogin(t)

	for _, body := range []string{
		`{"type": "quiz", "topic": "Slices", "score": 80}`,
		`{"type": "project", "topic": "CLI", "score": 95}`,
	} {
		rec := env.do(http.MethodPost, "/api/user-progress", body, bearer(token))
		if rec.Code != http.StatusCreated {
			t.Fatalf("record status = %d; want 201 (body %q)", rec.Code, rec.Body.String())
		}
	}

	rec := env.do(http.MethodGet, "/api/user-progress", "", bearer(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d; want 200", rec.Code)
	}

	var resp struct {
		Progress []struct {
			Type  string `json:"type"`
			Topic string `json:"topic"`
		} `json:"progress"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Progress) != 2 {
		t.Fatalf("len(progress) = %d; want 2", len(resp.Progress))
	}
	if resp.Progress[0].Topic != "Slices" || resp.Progress[1].Topic != "CLI" {
		t.Errorf("progress = %+v; want insertion order", resp.Progress)
	}
}

func TestRouter_SessionCookieAlsoAccepted(t *testing.T) {
	env := newTestEnv(t, true, 0)
	token := env.registerAndLogin(t)

	header := http.Header{}
	header.Set("Cookie", "session="+token)

	rec := env.do(http.MethodGet, "/api/user-progress", "", header)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200 with a session cookie", rec.Code)
	}
}

func TestRouter_GenerateRouteRateGated(t *testing.T) {
	env := newTestEnv(t, true, 2)

	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/api/generate-mcqs", `{"topic": "Go"}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d; want 200", i+1, rec.Code)
		}
	}

	rec := env.do(http.MethodPost, "/api/generate-mcqs", `{"topic": "Go"}`, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit status = %d; want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "RATE_LIMITED") {
		t.Errorf("body = %q; want the RATE_LIMITED envelope", rec.Body.String())
	}

	// The gate covers the LLM endpoints only
	if rec := env.do(http.MethodGet, "/api/leaderboard", "", nil); rec.Code != http.StatusOK {
		t.Errorf("ungated route status = %d; want 200", rec.Code)
	}
}

func TestRouter_UnconfiguredProviderRefusesBeforeOutboundCall(t *testing.T) {
	env := newTestEnv(t, false, 0)

	for _, path := range []string{"/api/generate-mcqs", "/api/review-project", "/api/viva-chat"} {
		rec := env.do(http.MethodPost, path, `{"topic": "Go", "code": "x", "taskTitle": "t"}`, nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d; want 503", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "PROVIDER_UNCONFIGURED") {
			t.Errorf("%s body = %q; want PROVIDER_UNCONFIGURED", path, rec.Body.String())
		}
	}

	if env.provider.calls != 0 {
		t.Errorf("provider calls = %d; refusal must happen before any outbound call", env.provider.calls)
	}
}

func TestRouter_PublicRecordRoutes(t *testing.T) {
	env := newTestEnv(t, true, 0)

	rec := env.do(http.MethodPost, "/api/leaderboard", `{"user": "ada", "score": 42}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("leaderboard add status = %d; want 201", rec.Code)
	}

	rec = env.do(http.MethodGet, "/api/daily-challenge", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("daily challenge status = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "title") {
		t.Errorf("body = %q; want a challenge payload", rec.Body.String())
	}
}

func TestRouter_RequestIDPropagates(t *testing.T) {
	env := newTestEnv(t, true, 0)

	rec := env.do(http.MethodGet, "/health", "", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("responses should carry a request id")
	}
}
