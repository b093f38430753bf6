package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenRouterProvider implements the Provider interface for OpenRouter's
// OpenAI-compatible chat completions API
type OpenRouterProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// OpenRouterConfig holds configuration for the OpenRouter provider
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string        // default: https://openrouter.ai/api
	Model   string        // default: openai/gpt-3.5-turbo
	Timeout time.Duration // per-request ceiling, default 120s
}

// NewOpenRouterProvider creates a new OpenRouter provider
func NewOpenRouterProvider(cfg OpenRouterConfig) *OpenRouterProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api"
	}
	if cfg.Model == "" {
		cfg.Model = "openai/gpt-3.5-turbo"
	}

	return &OpenRouterProvider{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: newLLMHTTPClient(cfg.Timeout),
	}
}

func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

type openrouterRequest struct {
	Model          string              `json:"model"`
	Messages       []openrouterMessage `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openrouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openrouterResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (p *OpenRouterProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{Provider: p.Name(), Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	var orResp openrouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&orResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(orResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response %s", orResp.ID)
	}

	choice := orResp.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage: Usage{
			InputTokens:  orResp.Usage.PromptTokens,
			OutputTokens: orResp.Usage.CompletionTokens,
		},
	}, nil
}

func (p *OpenRouterProvider) buildRequest(req *Request) *openrouterRequest {
	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]openrouterMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openrouterMessage{Role: string(RoleSystem), Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, openrouterMessage{Role: string(m.Role), Content: m.Content})
	}

	orReq := &openrouterRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONObject {
		orReq.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return orReq
}
