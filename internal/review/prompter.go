package review

import (
	"fmt"
	"strings"
)

// Prompter builds code review prompts for the LLM
type Prompter struct{}

// NewPrompter creates a new prompter
func NewPrompter() *Prompter {
	return &Prompter{}
}

// SystemPrompt returns the system prompt for project review
func (p *Prompter) SystemPrompt() string {
	return "You are an expert code reviewer. Output JSON only."
}

// BuildPrompt constructs the user prompt for reviewing a project submission
func (p *Prompter) BuildPrompt(req Request) string {
	requirements := "No specific requirements listed."
	if len(req.TaskRequirements) > 0 {
		requirements = strings.Join(req.TaskRequirements, "\n- ")
	}

	var sb strings.Builder

	sb.WriteString("You are an expert code reviewer and AI programming tutor.\n")
	sb.WriteString(fmt.Sprintf("Review the following code submission for the project titled %q.\n\n", req.TaskTitle))
	sb.WriteString(fmt.Sprintf("Project Description: %s\n", req.TaskDescription))
	sb.WriteString("Project Requirements:\n- " + requirements + "\n\n")
	sb.WriteString("Submitted Code:\n```\n")
	sb.WriteString(req.Code)
	sb.WriteString("\n```\n\n")
	sb.WriteString(`Please provide feedback on the following aspects:
1.  "codeStructure": (string) How well is the code organized? Are components/functions well-defined? Is it readable?
2.  "functionality": (string) Does the code appear to meet the project requirements based on a static analysis?
3.  "efficiency": (string) Are there any obvious performance issues or areas for optimization?
4.  "correctness": (string) Are there any apparent logical errors, bugs, or deviations from best practices?
5.  "suggestions": (optional array of strings) Provide 2-3 specific, actionable suggestions for improvement if applicable.
6.  "score": (number) Assign an overall score out of 10 for this submission.

Return the response as a single JSON object with a key "review" which is an object containing these feedback points.
Ensure the JSON is well-formed.
`)

	return sb.String()
}
