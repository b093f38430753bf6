package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockProvider is a test implementation of Provider
type mockProvider struct {
	name     string
	response *Response
	err      error
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Generate(_ context.Context, _ *Request) (*Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := &mockProvider{name: "mock"}
	r.Register("mock", p)

	got, err := r.Get("mock")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != p {
		t.Error("Get() returned a different provider")
	}

	if _, err := r.Get("missing"); err == nil {
		t.Error("Get() for an unknown provider should error")
	}
}

func TestRegistry_Default(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Default(); !errors.Is(err, ErrNoDefaultProvider) {
		t.Errorf("Default() on empty registry error = %v; want ErrNoDefaultProvider", err)
	}

	p := &mockProvider{name: "mock"}
	r.Register("mock", p)
	if err := r.SetDefault("mock"); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}

	got, err := r.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if got != p {
		t.Error("Default() returned a different provider")
	}

	if err := r.SetDefault("missing"); err == nil {
		t.Error("SetDefault() for an unknown provider should error")
	}
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &mockProvider{name: "a"})
	r.Register("b", &mockProvider{name: "b"})

	if got := r.List(); len(got) != 2 {
		t.Errorf("List() = %v; want 2 names", got)
	}
}

func TestOpenRouterProvider_Generate(t *testing.T) {
	var captured struct {
		Model          string `json:"model"`
		ResponseFormat *struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q; want /v1/chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q; want Bearer test-key", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{
					"message":       map[string]string{"role": "assistant", "content": `{"ok": true}`},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5},
		})
	}))
	defer server.Close()

	p := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "openai/gpt-3.5-turbo",
	})

	resp, err := p.Generate(context.Background(), &Request{
		System:     "system prompt",
		Messages:   []Message{{Role: RoleUser, Content: "hello"}},
		JSONObject: true,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if resp.Content != `{"ok": true}` {
		t.Errorf("Content = %q; want the assistant message", resp.Content)
	}
	if captured.Model != "openai/gpt-3.5-turbo" {
		t.Errorf("model = %q; want openai/gpt-3.5-turbo", captured.Model)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v; want json_object", captured.ResponseFormat)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("messages = %+v; want system prompt first", captured.Messages)
	}
}

func TestOpenRouterProvider_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	p := NewOpenRouterProvider(OpenRouterConfig{APIKey: "test-key", BaseURL: server.URL})

	_, err := p.Generate(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v; want UpstreamError", err)
	}
	if upstream.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d; want 429", upstream.Status)
	}
	if upstream.Body != `{"error": "rate limited"}` {
		t.Errorf("Body = %q; want the upstream body", upstream.Body)
	}
}

func TestOpenRouterProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	p := NewOpenRouterProvider(OpenRouterConfig{APIKey: "test-key", BaseURL: server.URL})

	if _, err := p.Generate(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}); err == nil {
		t.Error("Generate() with no choices should error")
	}
}

func TestIsRetryableUpstreamError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &UpstreamError{Status: 429}, true},
		{"server error", &UpstreamError{Status: 500}, true},
		{"bad gateway", &UpstreamError{Status: 502}, true},
		{"unavailable", &UpstreamError{Status: 503}, true},
		{"gateway timeout", &UpstreamError{Status: 504}, true},
		{"bad request", &UpstreamError{Status: 400}, false},
		{"unauthorized", &UpstreamError{Status: 401}, false},
		{"other error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableUpstreamError(tt.err); got != tt.want {
				t.Errorf("isRetryableUpstreamError(%v) = %v; want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestResilientProvider_Delegates(t *testing.T) {
	inner := &mockProvider{name: "mock", response: &Response{Content: "ok"}}
	p := NewResilientProvider(inner, DefaultResilientConfig())

	if p.Name() != "mock" {
		t.Errorf("Name() = %q; want mock", p.Name())
	}

	resp, err := p.Generate(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q; want ok", resp.Content)
	}
}

func TestResilientProvider_NonRetryableFailsFast(t *testing.T) {
	inner := &countingProvider{err: &UpstreamError{Status: 401, Body: "bad key"}}
	p := NewResilientProvider(inner, DefaultResilientConfig())

	_, err := p.Generate(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err == nil {
		t.Fatal("Generate() should propagate the upstream error")
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d; a non-retryable error must not be retried", inner.calls)
	}
}

type countingProvider struct {
	err   error
	calls int
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Generate(_ context.Context, _ *Request) (*Response, error) {
	p.calls++
	return nil, p.err
}
