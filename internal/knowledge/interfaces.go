package knowledge

import (
	"context"
	"time"

	"github.com/notewise/notewise/internal/models"
)

// Port is the persistence boundary for the knowledge store. Implementations
// load and save one serialized snapshot under one fixed key; the in-memory
// store remains the source of truth for the process lifetime.
type Port interface {
	// Load reads the persisted snapshot. A nil snapshot with a nil error
	// means nothing has been persisted yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes the snapshot, replacing any previous one.
	Save(ctx context.Context, snap *Snapshot) error

	// Close releases the backing store.
	Close() error
}

// Snapshot is the full serialized state of a knowledge store.
// Timestamps render as RFC 3339 text through the standard JSON encoding.
type Snapshot struct {
	UserNotes        []models.KnowledgeNote    `json:"userNotes"`
	RecentActions    []models.Action           `json:"recentActions"`
	ContextualMemory []models.ContextualMemory `json:"contextualMemory"`
	Preferences      models.UserPreferences    `json:"preferences"`
	WorkingPatterns  []models.WorkingPattern   `json:"workingPatterns"`
}

// BehaviorSummary aggregates working patterns for callers that want a
// picture of when and how the user works best.
type BehaviorSummary struct {
	MostProductiveTimes []string                `json:"most_productive_times"` // Top 3 buckets by mean effectiveness
	FrequentActivities  []string                `json:"frequent_activities"`   // Top 5 activities by summed frequency
	EffectivePatterns   []models.WorkingPattern `json:"effective_patterns"`    // Top 5 patterns by raw effectiveness
}

// Config holds knowledge store configuration
type Config struct {
	// Retention bounds
	MaxRecentActions    int
	MaxContextualMemory int
	RetentionDays       int

	// Persistence tuning
	SyncSave     bool          // Save inline instead of fire-and-forget (tests)
	SaveInterval time.Duration // Minimum spacing between coalesced saves
	SaveTimeout  time.Duration
}

// DefaultConfig returns default knowledge store configuration
func DefaultConfig() *Config {
	return &Config{
		MaxRecentActions:    50,
		MaxContextualMemory: 100,
		RetentionDays:       30,
		SyncSave:            false,
		SaveInterval:        2 * time.Second,
		SaveTimeout:         10 * time.Second,
	}
}
