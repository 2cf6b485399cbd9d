package knowledge

import (
	"strings"
	"time"

	"github.com/notewise/notewise/internal/models"
)

// importanceKeywords mark a note as high-signal regardless of its other
// attributes. Case-insensitive substring match against title and content.
var importanceKeywords = []string{"important", "urgent", "deadline", "meeting", "project"}

// NoteImportance scores a note in [0,1]. Additive: base 0.5, up to 0.3
// for tags, 0.2 for long content, up to 0.2 for recency, 0.3 for a
// keyword hit. Monotonically non-decreasing in every input.
func NoteImportance(note *models.KnowledgeNote, now time.Time) float64 {
	score := 0.5

	tagBonus := float64(len(note.Tags)) * 0.1
	if tagBonus > 0.3 {
		tagBonus = 0.3
	}
	score += tagBonus

	if len(note.Content) > 500 {
		score += 0.2
	}

	age := now.Sub(note.UpdatedAt)
	switch {
	case age < 7*24*time.Hour:
		score += 0.2
	case age < 30*24*time.Hour:
		score += 0.1
	}

	text := strings.ToLower(note.Title + " " + note.Content)
	for _, kw := range importanceKeywords {
		if strings.Contains(text, kw) {
			score += 0.3
			break
		}
	}

	return clamp01(score)
}

// MemoryRelevance scores a memory in [0,1] against tokenized query words.
// Each word accumulates 0.3 for a context hit, 0.2 for an insight hit and
// 0.2 for a topic hit; the sum is weighted by the memory's importance and
// a recency multiplier, then capped at 1.0.
func MemoryRelevance(memory *models.ContextualMemory, queryWords []string, now time.Time) float64 {
	contextText := strings.ToLower(memory.Context)
	insightText := strings.ToLower(strings.Join(memory.Insights, " "))
	topicText := strings.ToLower(strings.Join(memory.RelatedTopics, " "))

	score := 0.0
	for _, word := range queryWords {
		if strings.Contains(contextText, word) {
			score += 0.3
		}
		if strings.Contains(insightText, word) {
			score += 0.2
		}
		if strings.Contains(topicText, word) {
			score += 0.2
		}
	}

	score *= memory.Importance
	score *= recencyMultiplier(now.Sub(memory.Timestamp))

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// recencyMultiplier boosts fresh memories and dampens stale ones
func recencyMultiplier(age time.Duration) float64 {
	switch {
	case age < 7*24*time.Hour:
		return 1.2
	case age < 30*24*time.Hour:
		return 1.1
	case age > 90*24*time.Hour:
		return 0.8
	default:
		return 1.0
	}
}

// tokenizeQuery splits a query into lower-cased words longer than two
// characters, the unit MemoryRelevance matches against
func tokenizeQuery(query string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
