package agent

import (
	"context"

	"github.com/notewise/notewise/internal/knowledge"
	"github.com/notewise/notewise/internal/models"
)

// Agent is the behavioral contract every specialized agent implements.
// The closed set of variants (general, writing, productivity) is
// dispatched through the coordinator's registry, not inheritance.
type Agent interface {
	// Profile returns the agent's immutable identity
	Profile() models.AgentProfile

	// ProcessMessage turns one user message into a structured response.
	// It is total: for well-formed input it always returns a response
	// and never fails.
	ProcessMessage(ctx context.Context, text string, mode models.Mode, session *SessionContext) *Response

	// BuildSystemPrompt renders the layered prompt for the given mode
	BuildSystemPrompt(mode models.Mode, session *SessionContext) string

	// AnalyzeIntent classifies the message against the ordered rule table
	AnalyzeIntent(text string, history []models.Message) IntentAnalysis

	// OptimalMode recommends a mode for the detected intent, sticking
	// with the current mode when no rule applies
	OptimalMode(text string, intent Intent, current models.Mode) models.Mode
}

// SessionContext is the per-session conversational state owned by the
// coordinator and read by agents
type SessionContext struct {
	SessionID   string
	Messages    []models.Message
	Profile     *models.UserProfile
	Preferences *models.UserPreferences
	CurrentTask *models.TaskContext
	Knowledge   *knowledge.Store
}

// Response is an agent's structured answer for one turn
type Response struct {
	Message               string          `json:"message"`
	Actions               []models.Action `json:"actions,omitempty"`
	Confidence            float64         `json:"confidence"`
	Reasoning             string          `json:"reasoning,omitempty"`
	NeedsClarification    bool            `json:"needs_clarification,omitempty"`
	ClarificationQuestion string          `json:"clarification_question,omitempty"`
	SuggestedFollowUps    []string        `json:"suggested_follow_ups,omitempty"`
}

// Request is what the hosting UI hands to the coordinator each turn
type Request struct {
	Text    string              `json:"text"`
	Mode    models.Mode         `json:"mode,omitempty"`
	Profile *models.UserProfile `json:"user_profile,omitempty"`
	Task    *models.TaskContext `json:"task_context,omitempty"`
}

// ActionDelegate is the action type the delegation probe looks for;
// its data names the target agent under "agent_id"
const ActionDelegate = "delegate_to_agent"
