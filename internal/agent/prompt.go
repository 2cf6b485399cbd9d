package agent

import (
	"fmt"
	"strings"

	"github.com/notewise/notewise/internal/models"
)

const (
	promptNoteLimit    = 5
	promptNoteTruncate = 100
	promptActionLimit  = 3
	promptMemoryLimit  = 3
	promptPatternLimit = 2
)

// modeBlocks selects the mode-specific prompt section. Unrecognized
// modes fall through to the adaptive block.
var modeBlocks = map[models.Mode]string{
	models.ModeGeneral:     "Mode: general. Respond conversationally and keep answers broadly useful.",
	models.ModeTaskFocused: "Mode: task-focused. Prioritize concrete next steps, deadlines and structure.",
	models.ModeCreative:    "Mode: creative. Favor expressive phrasing, alternatives and open-ended suggestions.",
	models.ModeAnalytical:  "Mode: analytical. Break the question down, cite what is known and reason stepwise.",
}

const adaptiveModeBlock = "Mode: adaptive. Match the tone and depth of the user's message."

// baseAgent carries the profile and the shared contract methods; each
// concrete agent embeds it and supplies only ProcessMessage
type baseAgent struct {
	profile models.AgentProfile
}

func (b baseAgent) Profile() models.AgentProfile {
	return b.profile
}

// BuildSystemPrompt concatenates, in fixed order: the agent persona,
// the mode block, the session context block, and the shared-knowledge
// block rendered from the store.
func (b baseAgent) BuildSystemPrompt(mode models.Mode, session *SessionContext) string {
	var sb strings.Builder

	sb.WriteString(b.profile.PromptTemplate)
	sb.WriteString("\n\n")

	block, ok := modeBlocks[mode]
	if !ok {
		block = adaptiveModeBlock
	}
	sb.WriteString(block)
	sb.WriteString("\n")

	sb.WriteString(contextBlock(session))
	sb.WriteString(knowledgeBlock(session))

	return sb.String()
}

func (b baseAgent) AnalyzeIntent(text string, history []models.Message) IntentAnalysis {
	return classifyIntent(text)
}

func (b baseAgent) OptimalMode(text string, intent Intent, current models.Mode) models.Mode {
	return optimalModeFor(intent, current)
}

// contextBlock renders the user profile, preferences and active task
// when present
func contextBlock(session *SessionContext) string {
	if session == nil {
		return ""
	}

	var sb strings.Builder
	if p := session.Profile; p != nil {
		sb.WriteString(fmt.Sprintf("\nUser: %s", p.Name))
		if p.Occupation != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", p.Occupation))
		}
		if len(p.Interests) > 0 {
			sb.WriteString(fmt.Sprintf(", interests: %s", strings.Join(p.Interests, ", ")))
		}
		sb.WriteString("\n")
	}
	if prefs := session.Preferences; prefs != nil {
		var parts []string
		if prefs.CommunicationStyle != "" {
			parts = append(parts, "communication: "+prefs.CommunicationStyle)
		}
		if prefs.TaskManagementStyle != "" {
			parts = append(parts, "task management: "+prefs.TaskManagementStyle)
		}
		if prefs.PreferredLanguage != "" {
			parts = append(parts, "language: "+prefs.PreferredLanguage)
		}
		if prefs.AIPersonality != "" {
			parts = append(parts, "personality: "+prefs.AIPersonality)
		}
		if len(parts) > 0 {
			sb.WriteString("Preferences: " + strings.Join(parts, "; ") + "\n")
		}
	}
	if task := session.CurrentTask; task != nil {
		sb.WriteString(fmt.Sprintf("Current task (%s): %s", task.Type, task.Title))
		if task.Description != "" {
			sb.WriteString(" - " + task.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// knowledgeBlock renders the shared-knowledge section: recent notes,
// last actions, strongest memories and best working patterns
func knowledgeBlock(session *SessionContext) string {
	if session == nil || session.Knowledge == nil {
		return ""
	}
	store := session.Knowledge

	var sb strings.Builder

	if notes := store.RecentNotes(promptNoteLimit); len(notes) > 0 {
		sb.WriteString("\nRecent notes:\n")
		for _, n := range notes {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", n.Title, truncate(n.Content, promptNoteTruncate)))
		}
	}

	if actions := store.RecentActions(promptActionLimit); len(actions) > 0 {
		sb.WriteString("Recent actions:\n")
		for _, a := range actions {
			sb.WriteString(fmt.Sprintf("- %s\n", a.Type))
		}
	}

	if memories := store.TopMemories(promptMemoryLimit); len(memories) > 0 {
		sb.WriteString("Remembered context:\n")
		for _, m := range memories {
			sb.WriteString(fmt.Sprintf("- %s\n", m.Context))
		}
	}

	if patterns := store.TopPatterns(promptPatternLimit); len(patterns) > 0 {
		sb.WriteString("Working patterns:\n")
		for _, p := range patterns {
			sb.WriteString(fmt.Sprintf("- %s %s (effectiveness %.2f)\n", p.TimeOfDay, p.ActivityType, p.Effectiveness))
		}
	}

	return sb.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
