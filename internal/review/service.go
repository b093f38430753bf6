// Package review produces structured AI code reviews of project submissions.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/learnforge/learnforge/internal/llm"
)

var (
	ErrCodeRequired  = errors.New("code is required")
	ErrTitleRequired = errors.New("task title is required")
)

// Request describes one project submission to review
type Request struct {
	Code             string
	TaskTitle        string
	TaskDescription  string
	TaskRequirements []string
}

// Review is the structured feedback for a submission
type Review struct {
	CodeStructure string   `json:"codeStructure"`
	Functionality string   `json:"functionality"`
	Efficiency    string   `json:"efficiency"`
	Correctness   string   `json:"correctness"`
	Suggestions   []string `json:"suggestions,omitempty"`
	Score         float64  `json:"score"`
}

// Service turns review requests into provider calls and parsed reviews
type Service struct {
	registry *llm.Registry
	prompter *Prompter
}

// NewService creates a new review service
func NewService(registry *llm.Registry) *Service {
	return &Service{
		registry: registry,
		prompter: NewPrompter(),
	}
}

// Review asks the provider to review the submission. The provider must
// return a JSON object with a "review" key; anything else is a malformed
// output error carrying the raw text.
func (s *Service) Review(ctx context.Context, req Request) (*Review, error) {
	if req.Code == "" {
		return nil, ErrCodeRequired
	}
	if req.TaskTitle == "" {
		return nil, ErrTitleRequired
	}

	provider, err := s.registry.Default()
	if err != nil {
		return nil, err
	}

	resp, err := provider.Generate(ctx, &llm.Request{
		System: s.prompter.SystemPrompt(),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: s.prompter.BuildPrompt(req)},
		},
		JSONObject: true,
	})
	if err != nil {
		return nil, fmt.Errorf("review project: %w", err)
	}

	var parsed struct {
		Review *Review `json:"review"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil {
		return nil, &llm.MalformedOutputError{Raw: resp.Content, Err: err}
	}
	if parsed.Review == nil {
		return nil, &llm.MalformedOutputError{
			Raw: resp.Content,
			Err: errors.New(`missing "review" object`),
		}
	}

	return parsed.Review, nil
}
