package models

import "time"

// Message represents a single message in a conversation
type Message struct {
	ID        string           `json:"id"`
	Role      string           `json:"role"`    // "user", "assistant", "system"
	Content   string           `json:"content"` // Message content
	AgentID   string           `json:"agent_id,omitempty"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
	Timestamp time.Time        `json:"timestamp"` // When the message was created
}

// MessageMetadata carries per-message agent output details
type MessageMetadata struct {
	Actions    []Action `json:"actions,omitempty"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// ActionPriority defines how urgently an action should be surfaced
type ActionPriority string

const (
	PriorityLow    ActionPriority = "low"
	PriorityMedium ActionPriority = "medium"
	PriorityHigh   ActionPriority = "high"
)

// Action represents a structured operation proposed by an agent
type Action struct {
	Type                 string                 `json:"type"`
	Data                 map[string]interface{} `json:"data"`
	Message              string                 `json:"message,omitempty"` // Human-readable description
	Priority             ActionPriority         `json:"priority,omitempty"`
	RequiresConfirmation bool                   `json:"requires_confirmation,omitempty"`
	Timestamp            time.Time              `json:"timestamp"`
}

// ContextualMemory is a derived, scored summary of a past interaction
// or note, retrievable by relevance against a later query
type ContextualMemory struct {
	ID            string    `json:"id"`
	Context       string    `json:"context"`  // Summary of what happened
	Insights      []string  `json:"insights"` // Observations derived from the exchange
	Importance    float64   `json:"importance"`
	RelatedTopics []string  `json:"related_topics,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// WorkingPattern aggregates activity per (time-of-day, activity) pair.
// Exactly one row exists per pair; repeated actions update it in place.
type WorkingPattern struct {
	TimeOfDay     string  `json:"time_of_day"`   // "morning", "afternoon", ...
	ActivityType  string  `json:"activity_type"` // Activity label, "general" when unmapped
	Frequency     int     `json:"frequency"`
	Effectiveness float64 `json:"effectiveness"`
}

// UserPreferences is the per-store singleton of user settings.
// Updates merge field-wise; empty fields keep their previous values.
type UserPreferences struct {
	CommunicationStyle  string `json:"communication_style,omitempty"`
	TaskManagementStyle string `json:"task_management_style,omitempty"`
	NotificationLevel   string `json:"notification_level,omitempty"`
	PreferredLanguage   string `json:"preferred_language,omitempty"`
	AIPersonality       string `json:"ai_personality,omitempty"`
}

// KnowledgeNote is the agent's private working copy of a note,
// distinct from the externally persisted user note store
type KnowledgeNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProfile describes the person on the other side of the session
type UserProfile struct {
	Name       string   `json:"name,omitempty"`
	Occupation string   `json:"occupation,omitempty"`
	Interests  []string `json:"interests,omitempty"`
}

// TaskContext describes the task the user is currently working on
type TaskContext struct {
	Type        string `json:"type"` // "writing", "planning", "research", ...
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Mode defines the conversational mode an agent operates in
type Mode string

const (
	ModeGeneral     Mode = "general"
	ModeTaskFocused Mode = "task-focused"
	ModeCreative    Mode = "creative"
	ModeAnalytical  Mode = "analytical"
)

// AgentProfile is the immutable identity of a registered agent,
// one instance per concrete agent, created at coordinator startup
type AgentProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Capabilities   []string `json:"capabilities,omitempty"`
	Personality    string   `json:"personality,omitempty"`
	Expertise      []string `json:"expertise,omitempty"`
	PromptTemplate string   `json:"prompt_template"`
}
