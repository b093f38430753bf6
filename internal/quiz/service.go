// Package quiz generates multiple-choice questions through the LLM provider.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/learnforge/learnforge/internal/llm"
)

var ErrTopicRequired = errors.New("topic is required")

const (
	defaultCount = 5
	maxCount     = 20
)

// MCQ is one generated multiple-choice question
type MCQ struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// GenerateRequest describes one quiz generation call
type GenerateRequest struct {
	Topic string
	Count int
}

// Service turns generation requests into provider calls and parsed MCQ sets
type Service struct {
	registry *llm.Registry
	prompter *Prompter
}

// NewService creates a new quiz generation service
func NewService(registry *llm.Registry) *Service {
	return &Service{
		registry: registry,
		prompter: NewPrompter(),
	}
}

// Generate asks the provider for MCQs on the topic and normalizes the result.
// Every returned item carries a non-empty id; items the provider left without
// one get a positional fallback ("gen_q1", "gen_q2", ...).
func (s *Service) Generate(ctx context.Context, req GenerateRequest) ([]MCQ, error) {
	if req.Topic == "" {
		return nil, ErrTopicRequired
	}

	count := req.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	provider, err := s.registry.Default()
	if err != nil {
		return nil, err
	}

	resp, err := provider.Generate(ctx, &llm.Request{
		System: s.prompter.SystemPrompt(),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: s.prompter.BuildPrompt(req.Topic, count)},
		},
		JSONObject: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate mcqs: %w", err)
	}

	var parsed struct {
		MCQs []MCQ `json:"mcqs"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil {
		return nil, &llm.MalformedOutputError{Raw: resp.Content, Err: err}
	}
	if parsed.MCQs == nil {
		return nil, &llm.MalformedOutputError{
			Raw: resp.Content,
			Err: errors.New(`missing "mcqs" array`),
		}
	}

	for i := range parsed.MCQs {
		if parsed.MCQs[i].ID == "" {
			parsed.MCQs[i].ID = fmt.Sprintf("gen_q%d", i+1)
		}
	}

	return parsed.MCQs, nil
}
