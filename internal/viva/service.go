// Package viva drives mock interview sessions through the LLM provider.
package viva

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnforge/learnforge/internal/llm"
)

var ErrTopicRequired = errors.New("topic is required")

// maxQuestions caps the interview before the wrap-up turn
const maxQuestions = 3

// QA is one prior question/answer pair in the conversation
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

// ChatRequest describes one interview turn
type ChatRequest struct {
	Topic             string
	QuestionHistory   []QA
	UserAnswer        string
	CurrentQuestionID string
}

// Question is the interviewer's next question
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Reply is the interviewer's response for one turn. Degraded marks a turn
// where the provider's output could not be parsed and its raw text was
// substituted as the question verbatim.
type Reply struct {
	NextQuestion           *Question `json:"nextQuestion,omitempty"`
	FeedbackOnAnswer       string    `json:"feedbackOnAnswer,omitempty"`
	IsFinalQuestion        bool      `json:"isFinalQuestion,omitempty"`
	OverallSessionFeedback string    `json:"overallSessionFeedback,omitempty"`
	Degraded               bool      `json:"degraded,omitempty"`
}

// Service turns interview turns into provider calls and parsed replies
type Service struct {
	registry *llm.Registry
	prompter *Prompter
	logger   *slog.Logger
}

// NewService creates a new viva service
func NewService(registry *llm.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		prompter: NewPrompter(),
		logger:   logger,
	}
}

// Chat produces the next interview turn. Unlike the quiz and review
// services, an unparseable provider reply does not fail the turn: the raw
// text is substituted as the next question so the session can continue.
// The substitution is flagged on the reply and logged.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*Reply, error) {
	if req.Topic == "" {
		return nil, ErrTopicRequired
	}

	provider, err := s.registry.Default()
	if err != nil {
		return nil, err
	}

	resp, err := provider.Generate(ctx, &llm.Request{
		System: s.prompter.SystemPrompt(),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: s.prompter.BuildPrompt(req, maxQuestions)},
		},
		JSONObject: true,
	})
	if err != nil {
		return nil, fmt.Errorf("viva chat: %w", err)
	}

	var reply Reply
	if err := json.Unmarshal([]byte(resp.Content), &reply); err != nil {
		s.logger.Warn("substituting raw provider output as viva question",
			"topic", req.Topic,
			"error", err,
		)
		return &Reply{
			NextQuestion: &Question{
				ID:   "viva_q_" + uuid.NewString(),
				Text: resp.Content,
			},
			Degraded: true,
		}, nil
	}

	if reply.NextQuestion != nil && reply.NextQuestion.ID == "" {
		reply.NextQuestion.ID = "viva_q_" + uuid.NewString()
	}

	return &reply, nil
}
