package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/notewise/notewise/internal/models"
)

// GeneralAgentID is the registry id of the fallback agent. The
// coordinator also uses it for the per-turn delegation probe.
const GeneralAgentID = "general"

// GeneralAgent answers anything the specialized agents do not cover and
// acts as the delegation referee: its responses may carry a
// delegate_to_agent action naming a better-suited agent.
type GeneralAgent struct {
	baseAgent
}

// NewGeneralAgent creates the general-purpose agent
func NewGeneralAgent() *GeneralAgent {
	return &GeneralAgent{baseAgent{profile: models.AgentProfile{
		ID:           GeneralAgentID,
		Name:         "Assistant",
		Description:  "General-purpose assistant and delegation referee",
		Capabilities: []string{"conversation", "search", "delegation"},
		Personality:  "balanced",
		Expertise:    []string{"notes", "general knowledge"},
		PromptTemplate: "You are a helpful note-taking assistant. Answer directly, " +
			"use the user's own notes when they are relevant, and hand off to a " +
			"specialist when the request calls for one.",
	}}}
}

func (a *GeneralAgent) ProcessMessage(ctx context.Context, text string, mode models.Mode, session *SessionContext) *Response {
	analysis := a.AnalyzeIntent(text, sessionMessages(session))

	switch analysis.Intent {
	case IntentTask:
		return a.delegate("productivity", analysis,
			"That sounds like a task. Let me bring in the productivity assistant.")
	case IntentWriting:
		return a.delegate("writing", analysis,
			"Let me hand this to the writing assistant.")
	case IntentSearch:
		return a.search(text, analysis, session)
	case IntentQuestion:
		return a.answer(text, analysis, session)
	default:
		return a.smallTalk(text, analysis)
	}
}

// delegate builds the referee response the coordinator inspects
func (a *GeneralAgent) delegate(targetID string, analysis IntentAnalysis, message string) *Response {
	return &Response{
		Message:    message,
		Confidence: analysis.Confidence,
		Reasoning:  fmt.Sprintf("intent %q maps to agent %q", analysis.Intent, targetID),
		Actions: []models.Action{{
			Type:     ActionDelegate,
			Data:     map[string]interface{}{"agent_id": targetID},
			Message:  fmt.Sprintf("Delegate to the %s agent", targetID),
			Priority: models.PriorityMedium,
		}},
	}
}

// search looks the query up in the user's notes and remembered context
func (a *GeneralAgent) search(text string, analysis IntentAnalysis, session *SessionContext) *Response {
	if session == nil || session.Knowledge == nil {
		return &Response{
			Message:    "I don't have any notes to search yet.",
			Confidence: analysis.Confidence,
		}
	}

	query := stripSearchPhrasing(text)
	notes := session.Knowledge.SearchNotes(query, nil, "")
	memories := session.Knowledge.RelevantContext(query, 5)

	if len(notes) == 0 && len(memories) == 0 {
		return &Response{
			Message:               fmt.Sprintf("I couldn't find anything matching %q in your notes.", query),
			Confidence:            analysis.Confidence,
			NeedsClarification:    true,
			ClarificationQuestion: "Could you try different wording, or tell me roughly when you wrote it?",
		}
	}

	var sb strings.Builder
	if len(notes) > 0 {
		sb.WriteString(fmt.Sprintf("I found %d matching note(s):\n", len(notes)))
		for _, n := range notes {
			sb.WriteString(fmt.Sprintf("- %s\n", n.Title))
		}
	}
	if len(memories) > 0 {
		sb.WriteString("Related context I remember:\n")
		for _, m := range memories {
			sb.WriteString(fmt.Sprintf("- %s\n", m.Context))
		}
	}

	return &Response{
		Message:    sb.String(),
		Confidence: analysis.Confidence,
		Reasoning:  fmt.Sprintf("matched %d notes and %d memories", len(notes), len(memories)),
		Actions: []models.Action{{
			Type:     "search_notes",
			Data:     map[string]interface{}{"query": query, "results": len(notes)},
			Priority: models.PriorityLow,
		}},
	}
}

// answer responds to a question from remembered context
func (a *GeneralAgent) answer(text string, analysis IntentAnalysis, session *SessionContext) *Response {
	var memories []models.ContextualMemory
	if session != nil && session.Knowledge != nil {
		memories = session.Knowledge.RelevantContext(text, 3)
	}

	if len(memories) == 0 {
		return &Response{
			Message: "I don't have enough context from your notes to answer that well, " +
				"but I'm happy to take a note about it or help you look into it.",
			Confidence:         analysis.Confidence,
			SuggestedFollowUps: []string{"Create a note about this", "Search my notes"},
		}
	}

	var sb strings.Builder
	sb.WriteString("Here's what I know from your notes:\n")
	for _, m := range memories {
		sb.WriteString(fmt.Sprintf("- %s\n", m.Context))
	}

	return &Response{
		Message:    sb.String(),
		Confidence: analysis.Confidence,
		Reasoning:  fmt.Sprintf("answered from %d remembered entries", len(memories)),
	}
}

func (a *GeneralAgent) smallTalk(text string, analysis IntentAnalysis) *Response {
	return &Response{
		Message: "I'm here to help with your notes, tasks and writing. " +
			"What would you like to do?",
		Confidence: analysis.Confidence,
		SuggestedFollowUps: []string{
			"Create a new note",
			"Show my tasks for today",
			"Help me draft something",
		},
	}
}

// stripSearchPhrasing drops the leading search verbs so the note filter
// sees only the subject
func stripSearchPhrasing(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range []string{"find", "search for", "search", "look for", "locate", "where is", "show me"} {
		if strings.HasPrefix(lowered, prefix) {
			return strings.TrimSpace(lowered[len(prefix):])
		}
	}
	return lowered
}

func sessionMessages(session *SessionContext) []models.Message {
	if session == nil {
		return nil
	}
	return session.Messages
}
