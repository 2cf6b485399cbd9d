package agent

import (
	"regexp"
	"strings"

	"github.com/notewise/notewise/internal/models"
)

// Intent is the coarse classification of what the user wants
type Intent string

const (
	IntentTask     Intent = "task"
	IntentWriting  Intent = "writing"
	IntentSearch   Intent = "search"
	IntentQuestion Intent = "question"
	IntentGeneral  Intent = "general"
)

// IntentAnalysis is the result of classifying one message
type IntentAnalysis struct {
	Intent     Intent
	Confidence float64
	// Entities maps "dates" and "times" to matched substrings, attached
	// only when at least one pattern matched
	Entities map[string][]string
}

// intentRule binds a keyword set to an intent and a fixed confidence
type intentRule struct {
	intent     Intent
	confidence float64
	keywords   []string
}

// intentRules is the versioned classification table. Order is the
// priority order: the first rule with any keyword hit wins, regardless
// of later matches.
var intentRules = []intentRule{
	{IntentTask, 0.8, []string{
		"task", "todo", "to-do", "remind", "reminder", "schedule",
		"deadline", "organize", "plan my", "due",
	}},
	{IntentWriting, 0.8, []string{
		"write", "draft", "essay", "blog", "article", "edit",
		"rewrite", "summarize", "proofread", "grammar",
	}},
	{IntentSearch, 0.7, []string{
		"find", "search", "look for", "locate", "where is", "show me",
	}},
	{IntentQuestion, 0.6, []string{
		"what", "why", "how", "when", "who", "explain", "?",
	}},
}

// defaultIntent applies when no rule matches
var defaultIntent = IntentAnalysis{Intent: IntentGeneral, Confidence: 0.5}

var (
	datePattern = regexp.MustCompile(`(?i)\b(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?|today|tomorrow|yesterday|monday|tuesday|wednesday|thursday|friday|saturday|sunday|next week|next month)\b`)
	timePattern = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}(?:\s?[ap]m)?|\d{1,2}\s?[ap]m|noon|midnight)\b`)
)

// classifyIntent walks the rule table in priority order
func classifyIntent(text string) IntentAnalysis {
	lowered := strings.ToLower(text)

	analysis := defaultIntent
	for _, rule := range intentRules {
		if matchesAny(lowered, rule.keywords) {
			analysis = IntentAnalysis{Intent: rule.intent, Confidence: rule.confidence}
			break
		}
	}

	entities := extractEntities(text)
	if len(entities) > 0 {
		analysis.Entities = entities
	}
	return analysis
}

// extractEntities pulls date and time mentions out of the text
func extractEntities(text string) map[string][]string {
	entities := make(map[string][]string)
	if dates := datePattern.FindAllString(text, -1); len(dates) > 0 {
		entities["dates"] = dates
	}
	if times := timePattern.FindAllString(text, -1); len(times) > 0 {
		entities["times"] = times
	}
	if len(entities) == 0 {
		return nil
	}
	return entities
}

// optimalModeFor is a pure lookup from intent to mode. Unknown intents
// keep the current mode: the default is sticky, not "general".
func optimalModeFor(intent Intent, current models.Mode) models.Mode {
	switch intent {
	case IntentTask:
		return models.ModeTaskFocused
	case IntentWriting:
		return models.ModeCreative
	case IntentSearch, IntentQuestion:
		return models.ModeAnalytical
	default:
		return current
	}
}

func matchesAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
