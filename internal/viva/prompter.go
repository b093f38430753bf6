package viva

import (
	"fmt"
	"strings"
)

// Prompter builds interview prompts for the LLM
type Prompter struct{}

// NewPrompter creates a new prompter
func NewPrompter() *Prompter {
	return &Prompter{}
}

// SystemPrompt returns the system prompt for the interviewer persona
func (p *Prompter) SystemPrompt() string {
	return "You are a friendly and professional AI interviewer for technical vivas. " +
		"Respond with a JSON object containing 'nextQuestion.id', 'nextQuestion.text', " +
		"and optionally 'feedbackOnAnswer' or 'overallSessionFeedback'."
}

// BuildPrompt constructs the conversational prompt for the next interview turn
func (p *Prompter) BuildPrompt(req ChatRequest, maxQuestions int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are an AI interviewer conducting a viva session on the topic: %q.\n", req.Topic))
	sb.WriteString("Keep your questions concise and focused. Ask one question at a time.\n")
	sb.WriteString(fmt.Sprintf("The goal is to assess the user's understanding through a series of 3-%d questions.\n", maxQuestions+2))

	if len(req.QuestionHistory) > 0 {
		sb.WriteString("\n\nConversation History:\n")
		for i, item := range req.QuestionHistory {
			sb.WriteString(fmt.Sprintf("AI Question %d: %s\n", i+1, item.Question))
			if item.Answer != "" {
				sb.WriteString(fmt.Sprintf("User Answer %d: %s\n", i+1, item.Answer))
			}
		}
	}

	switch {
	case req.UserAnswer != "" && req.CurrentQuestionID != "":
		sb.WriteString(fmt.Sprintf("\nThe user just answered %q to your previous question.\n", req.UserAnswer))
		sb.WriteString("Provide brief feedback on this answer (1-2 sentences) and then ask the next relevant question.")
	case len(req.QuestionHistory) == 0:
		sb.WriteString("\nStart by asking the first question.")
	default:
		sb.WriteString("\nAsk the next relevant question based on the conversation so far.")
	}

	if len(req.QuestionHistory) >= maxQuestions && req.UserAnswer != "" {
		sb.WriteString("\nThis was the last question. Provide overall feedback for the session based on all answers and conclude the viva.")
	}

	return sb.String()
}
