package quiz

import (
	"fmt"
	"strings"
)

// Prompter builds MCQ generation prompts for the LLM
type Prompter struct{}

// NewPrompter creates a new prompter
func NewPrompter() *Prompter {
	return &Prompter{}
}

// SystemPrompt returns the system prompt for quiz generation
func (p *Prompter) SystemPrompt() string {
	return "You are an expert quiz generator. Output JSON only."
}

// BuildPrompt constructs the user prompt for generating count MCQs on topic
func (p *Prompter) BuildPrompt(topic string, count int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate %d multiple-choice questions (MCQs) for the topic: %q.\n", count, topic))
	sb.WriteString(`Each MCQ should have a unique "id" (string, e.g., "q1", "q2"), a "question" (string),
an array of 4 "options" (array of strings), the "correctAnswer" (string, which must be one of the options),
and a brief "explanation" (string) for the correct answer.

Return the response as a single JSON object with a key "mcqs" which is an array of these MCQ objects.
Ensure the JSON is well-formed.

Example for one MCQ object:
{
  "id": "q1",
  "question": "What is the capital of France?",
  "options": ["Berlin", "Madrid", "Paris", "Rome"],
  "correctAnswer": "Paris",
  "explanation": "Paris is the capital and most populous city of France."
}
`)

	return sb.String()
}
