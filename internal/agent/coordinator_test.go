package agent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notewise/notewise/internal/knowledge"
	"github.com/notewise/notewise/internal/models"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *knowledge.Store) {
	t.Helper()

	cfg := knowledge.DefaultConfig()
	cfg.SyncSave = true
	store := knowledge.NewStore(nil, cfg, nil)

	seq := 0
	c := NewCoordinator("session-1", store, nil,
		WithClock(func() time.Time {
			return time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("msg-%d", seq)
		}))

	require.NoError(t, c.RegisterAgent(NewGeneralAgent()))
	require.NoError(t, c.RegisterAgent(NewWritingAgent()))
	require.NoError(t, c.RegisterAgent(NewProductivityAgent()))
	return c, store
}

func TestRegisterAgent_RejectsDuplicatesAndNil(t *testing.T) {
	c, _ := newTestCoordinator(t)
	assert.Error(t, c.RegisterAgent(NewGeneralAgent()))
	assert.Error(t, c.RegisterAgent(nil))
}

func TestAgents_RegistrationOrder(t *testing.T) {
	c, _ := newTestCoordinator(t)
	profiles := c.Agents()
	require.Len(t, profiles, 3)
	assert.Equal(t, GeneralAgentID, profiles[0].ID)
	assert.Equal(t, "writing", profiles[1].ID)
	assert.Equal(t, "productivity", profiles[2].ID)
}

func TestSwitchAgent(t *testing.T) {
	c, _ := newTestCoordinator(t)
	assert.True(t, c.SwitchAgent("writing"))
	assert.Equal(t, "writing", c.ActiveAgent())

	assert.False(t, c.SwitchAgent("astrology"))
	assert.Equal(t, "writing", c.ActiveAgent(), "failed switch leaves the pointer untouched")
}

func TestProcessMessage_RequiresGeneralAgent(t *testing.T) {
	cfg := knowledge.DefaultConfig()
	cfg.SyncSave = true
	c := NewCoordinator("s", knowledge.NewStore(nil, cfg, nil), nil)
	require.NoError(t, c.RegisterAgent(NewWritingAgent()))

	_, err := c.ProcessMessage(context.Background(), &Request{Text: "hi"})
	assert.Error(t, err)
}

func TestProcessMessage_DelegatesAndSticks(t *testing.T) {
	c, _ := newTestCoordinator(t)

	resp, err := c.ProcessMessage(context.Background(), &Request{
		Text: "remind me to submit the report tomorrow",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "productivity", c.ActiveAgent())

	// A follow-up with no intent keyword stays with the specialist
	_, err = c.ProcessMessage(context.Background(), &Request{Text: "sounds good"})
	require.NoError(t, err)
	assert.Equal(t, "productivity", c.ActiveAgent())
}

func TestProcessMessage_WritingDelegation(t *testing.T) {
	c, _ := newTestCoordinator(t)

	resp, err := c.ProcessMessage(context.Background(), &Request{
		Text: "help me draft an essay about rivers",
	})
	require.NoError(t, err)
	assert.Equal(t, "writing", c.ActiveAgent())
	require.NotEmpty(t, resp.Actions)
	assert.Equal(t, "draft_content", resp.Actions[0].Type)
}

func TestProcessMessage_AppendsHistoryWithMetadata(t *testing.T) {
	c, _ := newTestCoordinator(t)

	resp, err := c.ProcessMessage(context.Background(), &Request{Text: "hello"})
	require.NoError(t, err)

	history := c.History()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, GeneralAgentID, history[1].AgentID)
	require.NotNil(t, history[1].Metadata)
	assert.Equal(t, resp.Confidence, history[1].Metadata.Confidence)
}

func TestProcessMessage_HistoryTrim(t *testing.T) {
	c, _ := newTestCoordinator(t)

	// 11 turns append 22 messages; the trim fires at 21 and keeps 15,
	// so the session ends at 16
	for i := 0; i < 11; i++ {
		_, err := c.ProcessMessage(context.Background(), &Request{
			Text: fmt.Sprintf("hello %d", i),
		})
		require.NoError(t, err)
	}

	history := c.History()
	assert.LessOrEqual(t, len(history), historyMax)
	assert.Equal(t, 16, len(history))
	assert.Equal(t, "assistant", history[len(history)-1].Role, "latest messages survive the trim")
}

func TestProcessMessage_RecordsActionsAndLearns(t *testing.T) {
	c, store := newTestCoordinator(t)

	resp, err := c.ProcessMessage(context.Background(), &Request{
		Text: "remind me to water the ferns tomorrow",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Actions)

	actions := store.RecentActions(10)
	require.NotEmpty(t, actions)
	assert.Equal(t, "create_task", actions[0].Type)

	memories := store.TopMemories(10)
	require.NotEmpty(t, memories)
	learned := memories[0]
	assert.Contains(t, learned.Context, "remind me to water the ferns")
	assert.Contains(t, learned.Context, " -> ")
	assert.Contains(t, learned.Insights, "agent: productivity")
	assert.InDelta(t, resp.Confidence, learned.Importance, 0.0001)
	assert.Contains(t, learned.RelatedTopics, "ferns")
	assert.NotContains(t, learned.RelatedTopics, "to", "short words excluded from topics")
}

func TestRefreshSession_MergesProfileAndTask(t *testing.T) {
	c, store := newTestCoordinator(t)
	store.UpdatePreferences(models.UserPreferences{CommunicationStyle: "concise"})

	_, err := c.ProcessMessage(context.Background(), &Request{
		Text:    "hello",
		Profile: &models.UserProfile{Name: "Dana"},
		Task:    &models.TaskContext{Type: "planning", Title: "Q3"},
	})
	require.NoError(t, err)

	require.NotNil(t, c.session.Profile)
	assert.Equal(t, "Dana", c.session.Profile.Name)
	require.NotNil(t, c.session.CurrentTask)
	assert.Equal(t, "Q3", c.session.CurrentTask.Title)
	require.NotNil(t, c.session.Preferences)
	assert.Equal(t, "concise", c.session.Preferences.CommunicationStyle)

	// A request without profile or task keeps the previous ones
	_, err = c.ProcessMessage(context.Background(), &Request{Text: "still here"})
	require.NoError(t, err)
	assert.Equal(t, "Dana", c.session.Profile.Name)
	assert.Equal(t, "Q3", c.session.CurrentTask.Title)
}

func TestRecommendedMode(t *testing.T) {
	c, store := newTestCoordinator(t)

	assert.Equal(t, models.ModeTaskFocused, c.RecommendedMode("schedule the demo"))
	assert.Equal(t, models.ModeCreative, c.RecommendedMode("draft an intro"))
	assert.Equal(t, models.ModeAnalytical, c.RecommendedMode("find my packing list"))
	assert.Equal(t, models.ModeGeneral, c.RecommendedMode("hello"))

	// Task type breaks the tie when no keyword matches
	c.session.CurrentTask = &models.TaskContext{Type: "research"}
	assert.Equal(t, models.ModeAnalytical, c.RecommendedMode("carry on"))
	c.session.CurrentTask = nil

	// Then stored preferences
	store.UpdatePreferences(models.UserPreferences{TaskManagementStyle: "structured"})
	assert.Equal(t, models.ModeTaskFocused, c.RecommendedMode("anything else"))
}

func TestRecommendedMode_Cached(t *testing.T) {
	c, _ := newTestCoordinator(t)

	// No keyword matches, so the recommendation would normally follow
	// the task type; the cached first answer wins on the repeat
	first := c.RecommendedMode("carry on")
	assert.Equal(t, models.ModeGeneral, first)

	c.session.CurrentTask = &models.TaskContext{Type: "writing"}
	assert.Equal(t, first, c.RecommendedMode("carry on"))
	assert.Equal(t, models.ModeGeneral, c.RecommendedMode("Carry On "), "cache key is normalized")
}

func TestExtractTopics(t *testing.T) {
	topics := extractTopics("Please help me organize the Berlin conference notes about budget", 5)
	assert.NotContains(t, topics, "please", "stop words excluded")
	assert.NotContains(t, topics, "help")
	assert.Contains(t, topics, "organize")
	assert.Contains(t, topics, "berlin")
	assert.LessOrEqual(t, len(topics), 5)

	assert.Equal(t, []string{"budget", "budget2"},
		extractTopics("budget budget budget2", 5), "duplicates collapse, first-seen order")
}
