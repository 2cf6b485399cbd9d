package knowledge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notewise/notewise/internal/models"
)

func TestTimeOfDayBucket(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "late-night"},
		{5, "late-night"},
		{6, "morning"},
		{11, "morning"},
		{12, "afternoon"},
		{16, "afternoon"},
		{17, "evening"},
		{20, "evening"},
		{21, "night"},
		{23, "night"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, timeOfDayBucket(c.hour), "hour %d", c.hour)
	}
}

func TestUpdateWorkingPatterns_OneRowPerPair(t *testing.T) {
	store, _ := newTestStore(t, nil)
	morning := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		store.AddRecentAction(models.Action{Type: "create_note", Timestamp: morning})
	}
	store.AddRecentAction(models.Action{Type: "search_notes", Timestamp: morning})

	patterns := store.TopPatterns(10)
	require.Len(t, patterns, 2)

	var noteTaking *models.WorkingPattern
	for i := range patterns {
		if patterns[i].ActivityType == "note-taking" {
			noteTaking = &patterns[i]
		}
	}
	require.NotNil(t, noteTaking)
	assert.Equal(t, "morning", noteTaking.TimeOfDay)
	assert.Equal(t, 3, noteTaking.Frequency)
}

func TestUpdateWorkingPatterns_EffectivenessConverges(t *testing.T) {
	store, _ := newTestStore(t, nil)
	evening := time.Date(2026, 8, 15, 19, 0, 0, 0, time.UTC)

	store.AddRecentAction(models.Action{Type: "create_task", Timestamp: evening})
	patterns := store.TopPatterns(1)
	require.Len(t, patterns, 1)
	assert.InDelta(t, 0.7, patterns[0].Effectiveness, 0.0001, "new row starts at the target")

	// Each repeat blends halfway towards 0.7, so it stays fixed at 0.7
	store.AddRecentAction(models.Action{Type: "create_task", Timestamp: evening})
	patterns = store.TopPatterns(1)
	assert.InDelta(t, 0.7, patterns[0].Effectiveness, 0.0001)
	assert.Equal(t, 2, patterns[0].Frequency)
}

func TestUpdateWorkingPatterns_UnmappedTypeIsGeneral(t *testing.T) {
	store, _ := newTestStore(t, nil)
	store.AddRecentAction(models.Action{
		Type:      "water_plants",
		Timestamp: time.Date(2026, 8, 15, 3, 0, 0, 0, time.UTC),
	})

	patterns := store.TopPatterns(1)
	require.Len(t, patterns, 1)
	assert.Equal(t, "general", patterns[0].ActivityType)
	assert.Equal(t, "late-night", patterns[0].TimeOfDay)
}

func TestAnalyzeUserBehavior(t *testing.T) {
	store, _ := newTestStore(t, nil)
	morning := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	afternoon := time.Date(2026, 8, 15, 14, 0, 0, 0, time.UTC)
	night := time.Date(2026, 8, 15, 22, 0, 0, 0, time.UTC)

	// morning note-taking dominates frequency; all rows share the same
	// effectiveness target so productive times come out by bucket mean
	for i := 0; i < 4; i++ {
		store.AddRecentAction(models.Action{Type: "create_note", Timestamp: morning})
	}
	store.AddRecentAction(models.Action{Type: "create_task", Timestamp: afternoon})
	store.AddRecentAction(models.Action{Type: "draft_content", Timestamp: night})
	store.AddRecentAction(models.Action{Type: "summarize", Timestamp: night})

	summary := store.AnalyzeUserBehavior()
	require.NotNil(t, summary)

	assert.Len(t, summary.MostProductiveTimes, 3)
	assert.ElementsMatch(t, []string{"morning", "afternoon", "night"}, summary.MostProductiveTimes)

	require.NotEmpty(t, summary.FrequentActivities)
	assert.Equal(t, "note-taking", summary.FrequentActivities[0])

	assert.NotEmpty(t, summary.EffectivePatterns)
	assert.LessOrEqual(t, len(summary.EffectivePatterns), 5)
}

func TestAnalyzeUserBehavior_Empty(t *testing.T) {
	store, _ := newTestStore(t, nil)
	summary := store.AnalyzeUserBehavior()
	require.NotNil(t, summary)
	assert.Empty(t, summary.MostProductiveTimes)
	assert.Empty(t, summary.FrequentActivities)
	assert.Empty(t, summary.EffectivePatterns)
}

func TestAnalyzeUserBehavior_FrequencyTieBreaksByName(t *testing.T) {
	store, _ := newTestStore(t, nil)
	ts := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)

	store.AddRecentAction(models.Action{Type: "search_notes", Timestamp: ts})
	store.AddRecentAction(models.Action{Type: "delegate_to_agent", Timestamp: ts})

	summary := store.AnalyzeUserBehavior()
	require.Len(t, summary.FrequentActivities, 2)
	assert.Equal(t, []string{"delegation", "research"}, summary.FrequentActivities)
}
