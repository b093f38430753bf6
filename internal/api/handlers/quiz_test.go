package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/learnforge/learnforge/internal/llm"
	"github.com/learnforge/learnforge/internal/quiz"
)

type mockProvider struct {
	response *llm.Response
	err      error
	calls    int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Generate(_ context.Context, _ *llm.Request) (*llm.Response, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func newQuizHandler(p llm.Provider, configured bool) *QuizHandler {
	registry := llm.NewRegistry()
	registry.Register("mock", p)
	registry.SetDefault("mock")
	return NewQuizHandler(quiz.NewService(registry), configured)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *APIError {
	t.Helper()
	var resp struct {
		Error *APIError `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if resp.Error == nil {
		t.Fatalf("body %q carries no error envelope", rec.Body.String())
	}
	return resp.Error
}

func TestQuizHandler_Generate(t *testing.T) {
	mock := &mockProvider{response: &llm.Response{Content: `{
		"mcqs": [
			{"id": "q1", "question": "What is a slice?", "options": ["a", "b", "c", "d"], "correctAnswer": "a", "explanation": "..."}
		]
	}`}}
	h := newQuizHandler(mock, true)

	rec := postJSON(t, h.Generate, "/api/generate-mcqs", `{"topic": "Go Basics", "count": 1}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (body %q)", rec.Code, rec.Body.String())
	}

	var resp struct {
		MCQs []quiz.MCQ `json:"mcqs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.MCQs) != 1 || resp.MCQs[0].ID != "q1" {
		t.Errorf("mcqs = %+v; want the provider's question passed through", resp.MCQs)
	}
}

func TestQuizHandler_UnconfiguredProviderShortCircuits(t *testing.T) {
	mock := &mockProvider{response: &llm.Response{Content: `{"mcqs": []}`}}
	h := newQuizHandler(mock, false)

	rec := postJSON(t, h.Generate, "/api/generate-mcqs", `{"topic": "Go Basics"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d; want 503", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != "PROVIDER_UNCONFIGURED" {
		t.Errorf("code = %q; want PROVIDER_UNCONFIGURED", apiErr.Code)
	}
	if mock.calls != 0 {
		t.Errorf("provider calls = %d; refusal must happen before any outbound call", mock.calls)
	}
}

func TestQuizHandler_TopicRequired(t *testing.T) {
	h := newQuizHandler(&mockProvider{}, true)

	rec := postJSON(t, h.Generate, "/api/generate-mcqs", `{"count": 5}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != "BAD_REQUEST" {
		t.Errorf("code = %q; want BAD_REQUEST", apiErr.Code)
	}
}

func TestQuizHandler_MalformedOutput(t *testing.T) {
	raw := "Sure! Here are your questions: 1) ..."
	mock := &mockProvider{response: &llm.Response{Content: raw}}
	h := newQuizHandler(mock, true)

	rec := postJSON(t, h.Generate, "/api/generate-mcqs", `{"topic": "Go Basics"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d; want 502", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Code != "PROCESSING_ERROR" {
		t.Errorf("code = %q; want PROCESSING_ERROR", apiErr.Code)
	}
	details, ok := apiErr.Details.(map[string]any)
	if !ok || details["raw"] != raw {
		t.Errorf("details = %+v; want the raw provider text", apiErr.Details)
	}
}

func TestQuizHandler_UpstreamError(t *testing.T) {
	mock := &mockProvider{err: &llm.UpstreamError{Provider: "mock", Status: 500, Body: "boom"}}
	h := newQuizHandler(mock, true)

	rec := postJSON(t, h.Generate, "/api/generate-mcqs", `{"topic": "Go Basics"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d; want 502", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Code != "UPSTREAM_ERROR" {
		t.Errorf("code = %q; want UPSTREAM_ERROR", apiErr.Code)
	}
	details, ok := apiErr.Details.(map[string]any)
	if !ok || details["body"] != "boom" {
		t.Errorf("details = %+v; want the upstream status and body", apiErr.Details)
	}
}
