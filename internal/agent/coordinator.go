package agent

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notewise/notewise/internal/knowledge"
	"github.com/notewise/notewise/internal/models"
)

const (
	// History is trimmed back to historyKeep entries once it grows past
	// historyMax, dropping the oldest.
	historyMax  = 20
	historyKeep = 15

	// learning-step bounds
	learnTruncate    = 100
	learnTopicMax    = 5
	learnTopicMinLen = 3

	modeCacheTTL = 30 * time.Second
)

// learningStopWords are excluded from the related-topic extraction on
// the per-turn learning step
var learningStopWords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "what": {},
	"when": {}, "where": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"about": {}, "your": {}, "please": {}, "just": {}, "like": {}, "want": {},
	"need": {}, "them": {}, "they": {}, "then": {}, "there": {}, "here": {},
	"into": {}, "some": {}, "make": {}, "help": {},
}

// Coordinator owns the agent registry, the sticky active-agent pointer,
// the running conversation and the session view of the knowledge store.
// One instance per session; no ambient globals.
type Coordinator struct {
	agents    map[string]Agent
	order     []string // registration order, for listing
	activeID  string
	session   *SessionContext
	knowledge *knowledge.Store
	modeCache *modeCache
	logger    *zap.Logger
	clock     func() time.Time
	idgen     func() string
}

// CoordinatorOption customizes coordinator construction
type CoordinatorOption func(*Coordinator)

// WithClock replaces the wall clock for deterministic tests
func WithClock(clock func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.clock = clock }
}

// WithIDGenerator replaces the message/memory id generator
func WithIDGenerator(idgen func() string) CoordinatorOption {
	return func(c *Coordinator) { c.idgen = idgen }
}

// NewCoordinator creates a coordinator for one session. Agents are
// registered afterwards; the active pointer starts at the general agent.
func NewCoordinator(sessionID string, store *knowledge.Store, logger *zap.Logger, opts ...CoordinatorOption) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Coordinator{
		agents:    make(map[string]Agent),
		activeID:  GeneralAgentID,
		knowledge: store,
		modeCache: newModeCache(modeCacheTTL),
		logger:    logger,
		clock:     time.Now,
		idgen:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.session = &SessionContext{
		SessionID: sessionID,
		Knowledge: store,
	}
	return c
}

// RegisterAgent adds an agent to the registry
func (c *Coordinator) RegisterAgent(agent Agent) error {
	if agent == nil {
		return fmt.Errorf("cannot register nil agent")
	}

	id := agent.Profile().ID
	if _, exists := c.agents[id]; exists {
		return fmt.Errorf("agent %q already registered", id)
	}

	c.agents[id] = agent
	c.order = append(c.order, id)
	return nil
}

// Agents returns the profiles of all registered agents in registration order
func (c *Coordinator) Agents() []models.AgentProfile {
	profiles := make([]models.AgentProfile, 0, len(c.agents))
	for _, id := range c.order {
		profiles = append(profiles, c.agents[id].Profile())
	}
	return profiles
}

// ActiveAgent returns the id the sticky pointer currently selects
func (c *Coordinator) ActiveAgent() string {
	return c.activeID
}

// SwitchAgent explicitly moves the active pointer. Returns false and
// changes nothing when the id is unknown.
func (c *Coordinator) SwitchAgent(id string) bool {
	if _, ok := c.agents[id]; !ok {
		c.logger.Debug("switch to unknown agent ignored", zap.String("agent", id))
		return false
	}
	c.activeID = id
	return true
}

// History returns the session's message list
func (c *Coordinator) History() []models.Message {
	return c.session.Messages
}

// ProcessMessage runs one full turn: context refresh, delegation probe,
// active-agent processing, action recording and the learning step.
func (c *Coordinator) ProcessMessage(ctx context.Context, req *Request) (*Response, error) {
	general, ok := c.agents[GeneralAgentID]
	if !ok {
		return nil, fmt.Errorf("no general agent registered")
	}

	c.refreshSession(req)

	mode := req.Mode
	if mode == "" {
		mode = models.ModeGeneral
	}

	c.appendMessage(models.Message{
		ID:        c.idgen(),
		Role:      "user",
		Content:   req.Text,
		Timestamp: c.clock(),
	})

	// Delegation probe: the general agent always analyzes the message
	// first, even when a specialist is active. Downstream learning
	// depends on this analysis happening every turn.
	probe := general.ProcessMessage(ctx, req.Text, mode, c.session)
	c.applyDelegation(probe)

	active := c.agents[c.activeID]
	resp := active.ProcessMessage(ctx, req.Text, mode, c.session)

	c.appendMessage(models.Message{
		ID:      c.idgen(),
		Role:    "assistant",
		Content: resp.Message,
		AgentID: c.activeID,
		Metadata: &models.MessageMetadata{
			Actions:    resp.Actions,
			Confidence: resp.Confidence,
			Reasoning:  resp.Reasoning,
		},
		Timestamp: c.clock(),
	})

	if c.knowledge != nil {
		for _, action := range resp.Actions {
			c.knowledge.AddRecentAction(action)
		}
		c.learn(req.Text, resp)
	}

	return resp, nil
}

// refreshSession merges the request's profile and task into the session
// and refreshes the session's view of stored preferences
func (c *Coordinator) refreshSession(req *Request) {
	if req.Profile != nil {
		c.session.Profile = req.Profile
	}
	if req.Task != nil {
		c.session.CurrentTask = req.Task
	}
	if c.knowledge != nil {
		prefs := c.knowledge.Preferences()
		c.session.Preferences = &prefs
	}
}

// appendMessage appends and trims the history back to historyKeep
// entries whenever it grows past historyMax, dropping the oldest
func (c *Coordinator) appendMessage(msg models.Message) {
	c.session.Messages = append(c.session.Messages, msg)
	if len(c.session.Messages) > historyMax {
		c.session.Messages = c.session.Messages[len(c.session.Messages)-historyKeep:]
	}
}

// applyDelegation switches the active pointer when the probe response
// carries a delegation action naming a registered agent. Unknown ids
// mean no delegation, not an error.
func (c *Coordinator) applyDelegation(probe *Response) {
	for _, action := range probe.Actions {
		if action.Type != ActionDelegate {
			continue
		}
		id, _ := action.Data["agent_id"].(string)
		if _, known := c.agents[id]; known {
			if id != c.activeID {
				c.logger.Debug("delegating",
					zap.String("from", c.activeID),
					zap.String("to", id))
			}
			c.activeID = id
		} else if id != "" {
			c.logger.Debug("delegation to unknown agent ignored", zap.String("agent", id))
		}
	}
}

// learn records one contextual memory summarizing this turn for future
// retrieval
func (c *Coordinator) learn(userText string, resp *Response) {
	memory := models.ContextualMemory{
		ID: c.idgen(),
		Context: fmt.Sprintf("%s -> %s",
			truncate(userText, learnTruncate),
			truncate(resp.Message, learnTruncate)),
		Insights: []string{
			fmt.Sprintf("agent: %s", c.activeID),
			fmt.Sprintf("confidence: %.2f", resp.Confidence),
			fmt.Sprintf("actions: %d", len(resp.Actions)),
		},
		Importance:    resp.Confidence,
		RelatedTopics: extractTopics(userText, learnTopicMax),
		Timestamp:     c.clock(),
	}
	c.knowledge.AddContextualMemory(memory)
}

// RecommendedMode suggests a mode before a message is sent, combining
// keyword buckets with stored preferences and the current task type.
// Independent of the per-agent OptimalMode logic.
func (c *Coordinator) RecommendedMode(text string) models.Mode {
	if mode, ok := c.modeCache.get(text); ok {
		return mode
	}

	mode := c.recommendMode(text)
	c.modeCache.set(text, mode)
	return mode
}

func (c *Coordinator) recommendMode(text string) models.Mode {
	analysis := classifyIntent(text)
	if m := optimalModeFor(analysis.Intent, ""); m != "" {
		return m
	}

	if task := c.session.CurrentTask; task != nil {
		switch task.Type {
		case "writing":
			return models.ModeCreative
		case "planning":
			return models.ModeTaskFocused
		case "research":
			return models.ModeAnalytical
		}
	}

	if c.knowledge != nil {
		prefs := c.knowledge.Preferences()
		if prefs.TaskManagementStyle == "structured" {
			return models.ModeTaskFocused
		}
		if prefs.CommunicationStyle == "detailed" {
			return models.ModeAnalytical
		}
	}

	return models.ModeGeneral
}

// extractTopics picks up to max distinct words longer than three
// characters from the text, excluding stop words, in first-seen order
func extractTopics(text string, max int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{})
	var topics []string
	for _, w := range words {
		if len(w) <= learnTopicMinLen {
			continue
		}
		if _, stop := learningStopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		topics = append(topics, w)
		if len(topics) >= max {
			break
		}
	}
	return topics
}
