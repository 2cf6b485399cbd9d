package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/notewise/notewise/internal/models"
)

// WritingAgent helps with drafting, editing and summarizing text
type WritingAgent struct {
	baseAgent
}

// NewWritingAgent creates the writing agent
func NewWritingAgent() *WritingAgent {
	return &WritingAgent{baseAgent{profile: models.AgentProfile{
		ID:           "writing",
		Name:         "Writing Assistant",
		Description:  "Drafting, editing and summarizing text",
		Capabilities: []string{"drafting", "editing", "summarizing"},
		Personality:  "expressive",
		Expertise:    []string{"writing", "style", "structure"},
		PromptTemplate: "You are a writing assistant. Help the user draft, tighten " +
			"and restructure their text while keeping their own voice.",
	}}}
}

func (a *WritingAgent) ProcessMessage(ctx context.Context, text string, mode models.Mode, session *SessionContext) *Response {
	lowered := strings.ToLower(text)

	var verb, actionType string
	switch {
	case strings.Contains(lowered, "summarize"):
		verb, actionType = "summarize", "summarize"
	case strings.Contains(lowered, "edit") || strings.Contains(lowered, "rewrite") ||
		strings.Contains(lowered, "proofread") || strings.Contains(lowered, "grammar"):
		verb, actionType = "revise", "draft_content"
	default:
		verb, actionType = "draft", "draft_content"
	}

	subject := writingSubject(text)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Let's %s %s. ", verb, subject))
	switch verb {
	case "summarize":
		sb.WriteString("Paste the text or point me at a note, and tell me how short the summary should be.")
	case "revise":
		sb.WriteString("Share the passage and what bothers you about it, and I'll suggest a tighter version.")
	default:
		sb.WriteString("A rough outline helps: who is it for, and what are the two or three points it must make?")
	}

	return &Response{
		Message:    sb.String(),
		Confidence: 0.8,
		Reasoning:  fmt.Sprintf("writing request classified as %q", verb),
		Actions: []models.Action{{
			Type:     actionType,
			Data:     map[string]interface{}{"subject": subject, "operation": verb},
			Message:  fmt.Sprintf("%s %s", capitalize(verb), subject),
			Priority: models.PriorityMedium,
		}},
		SuggestedFollowUps: []string{
			"Suggest an outline",
			"Make it more concise",
			"Change the tone",
		},
	}
}

// writingSubject extracts what the user wants written, falling back to
// a generic label
func writingSubject(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range []string{
		"write me ", "write a ", "write an ", "write ", "draft a ", "draft an ",
		"draft ", "help me write ", "summarize ", "edit ", "rewrite ",
	} {
		if strings.HasPrefix(lowered, prefix) {
			subject := strings.TrimSpace(lowered[len(prefix):])
			if subject != "" {
				if len(subject) > 60 {
					subject = subject[:60]
				}
				return subject
			}
		}
	}
	return "your text"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
