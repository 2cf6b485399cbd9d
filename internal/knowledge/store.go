package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/notewise/notewise/internal/models"
)

// Store is the bounded, scored, persisted collection of notes, actions,
// contextual memories, working patterns and preferences shared by all
// agents in a session.
type Store struct {
	notes       []models.KnowledgeNote
	actions     []models.Action
	memories    []models.ContextualMemory
	patterns    []models.WorkingPattern
	preferences models.UserPreferences

	port    Port
	config  *Config
	logger  *zap.Logger
	limiter *rate.Limiter
	clock   func() time.Time
	idgen   func() string

	mu sync.RWMutex
}

// Option customizes store construction
type Option func(*Store)

// WithClock replaces the wall clock, making scoring and eviction deterministic
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator replaces the id generator
func WithIDGenerator(idgen func() string) Option {
	return func(s *Store) { s.idgen = idgen }
}

// NewStore creates a knowledge store backed by the given port and loads
// whatever state the port holds. A load failure is logged and the store
// starts from defaults merged with any partial data; it never fails
// construction.
func NewStore(port Port, config *Config, logger *zap.Logger, opts ...Option) *Store {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		port:    port,
		config:  config,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(config.SaveInterval), 1),
		clock:   time.Now,
		idgen:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load()
	return s
}

// load pulls the persisted snapshot into memory. Corruption or backend
// failure degrades to defaults plus whatever parsed.
func (s *Store) load() {
	if s.port == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.SaveTimeout)
	defer cancel()

	snap, err := s.port.Load(ctx)
	if err != nil {
		s.logger.Warn("knowledge load failed, continuing with defaults", zap.Error(err))
	}
	if snap == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = snap.UserNotes
	s.actions = snap.RecentActions
	s.memories = snap.ContextualMemory
	s.patterns = snap.WorkingPatterns
	s.preferences = snap.Preferences
}

// AddNote appends a note and derives a contextual memory summarizing it
func (s *Store) AddNote(note models.KnowledgeNote) models.KnowledgeNote {
	now := s.clock()
	if note.ID == "" {
		note.ID = s.idgen()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now
	}

	var insights []string
	if note.Category != "" {
		insights = append(insights, note.Category)
	}
	if len(note.Tags) > 0 {
		insights = append(insights, strings.Join(note.Tags, ", "))
	}

	memory := models.ContextualMemory{
		ID:            s.idgen(),
		Context:       fmt.Sprintf("user created note: %s", note.Title),
		Insights:      insights,
		Importance:    NoteImportance(&note, now),
		RelatedTopics: note.Tags,
		Timestamp:     now,
	}

	s.mu.Lock()
	s.notes = append(s.notes, note)
	s.appendMemoryLocked(memory)
	s.mu.Unlock()

	s.persist()
	return note
}

// NotePatch holds the mutable fields of a note update. Nil fields are
// left untouched.
type NotePatch struct {
	Title    *string
	Content  *string
	Tags     []string
	Category *string
}

// UpdateNote mutates a note in place by id. Returns false (and persists
// nothing) when the id is absent.
func (s *Store) UpdateNote(id string, patch NotePatch) bool {
	s.mu.Lock()
	updated := false
	for i := range s.notes {
		if s.notes[i].ID != id {
			continue
		}
		if patch.Title != nil {
			s.notes[i].Title = *patch.Title
		}
		if patch.Content != nil {
			s.notes[i].Content = *patch.Content
		}
		if patch.Tags != nil {
			s.notes[i].Tags = patch.Tags
		}
		if patch.Category != nil {
			s.notes[i].Category = *patch.Category
		}
		s.notes[i].UpdatedAt = s.clock()
		updated = true
		break
	}
	s.mu.Unlock()

	if updated {
		s.persist()
	}
	return updated
}

// DeleteNote removes a note by id; no-op when the id is absent
func (s *Store) DeleteNote(id string) bool {
	s.mu.Lock()
	deleted := false
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			deleted = true
			break
		}
	}
	s.mu.Unlock()

	if deleted {
		s.persist()
	}
	return deleted
}

// SearchNotes filters notes by lower-cased substring match on title or
// content, optional tag overlap, and optional exact category. Pure
// filter, no scoring.
func (s *Store) SearchNotes(query string, tags []string, category string) []models.KnowledgeNote {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.KnowledgeNote
	for _, note := range s.notes {
		if q != "" &&
			!strings.Contains(strings.ToLower(note.Title), q) &&
			!strings.Contains(strings.ToLower(note.Content), q) {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(note.Tags, tags) {
			continue
		}
		if category != "" && note.Category != category {
			continue
		}
		results = append(results, note)
	}
	return results
}

// RecentNotes returns the n most recently updated notes
func (s *Store) RecentNotes(n int) []models.KnowledgeNote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]models.KnowledgeNote, len(s.notes))
	copy(notes, s.notes)
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	if len(notes) > n {
		notes = notes[:n]
	}
	return notes
}

// AddRecentAction appends to the bounded action log, evicting the oldest
// entries FIFO past the cap, and folds the action into working patterns
func (s *Store) AddRecentAction(action models.Action) {
	if action.Timestamp.IsZero() {
		action.Timestamp = s.clock()
	}

	s.mu.Lock()
	s.actions = append(s.actions, action)
	if len(s.actions) > s.config.MaxRecentActions {
		s.actions = s.actions[len(s.actions)-s.config.MaxRecentActions:]
	}
	s.updateWorkingPatterns(&action)
	s.mu.Unlock()

	s.persist()
}

// RecentActions returns the last n recorded actions, oldest first
func (s *Store) RecentActions(n int) []models.Action {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if len(s.actions) > n {
		start = len(s.actions) - n
	}
	out := make([]models.Action, len(s.actions)-start)
	copy(out, s.actions[start:])
	return out
}

// AddContextualMemory appends a memory, pruning to the configured cap by
// importance (ties broken by recency)
func (s *Store) AddContextualMemory(memory models.ContextualMemory) {
	if memory.ID == "" {
		memory.ID = s.idgen()
	}
	if memory.Timestamp.IsZero() {
		memory.Timestamp = s.clock()
	}
	memory.Importance = clamp01(memory.Importance)

	s.mu.Lock()
	s.appendMemoryLocked(memory)
	s.mu.Unlock()

	s.persist()
}

// appendMemoryLocked appends and prunes; caller holds the write lock
func (s *Store) appendMemoryLocked(memory models.ContextualMemory) {
	s.memories = append(s.memories, memory)
	if len(s.memories) <= s.config.MaxContextualMemory {
		return
	}
	sort.SliceStable(s.memories, func(i, j int) bool {
		if s.memories[i].Importance != s.memories[j].Importance {
			return s.memories[i].Importance > s.memories[j].Importance
		}
		return s.memories[i].Timestamp.After(s.memories[j].Timestamp)
	})
	s.memories = s.memories[:s.config.MaxContextualMemory]
}

// RelevantContext returns up to limit memories scoring above 0.1 against
// the query, strongest first
func (s *Store) RelevantContext(query string, limit int) []models.ContextualMemory {
	if limit <= 0 {
		limit = 5
	}
	words := tokenizeQuery(query)
	now := s.clock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		memory models.ContextualMemory
		score  float64
	}
	var candidates []scored
	for _, m := range s.memories {
		score := MemoryRelevance(&m, words, now)
		if score > 0.1 {
			candidates = append(candidates, scored{m, score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]models.ContextualMemory, len(candidates))
	for i, c := range candidates {
		out[i] = c.memory
	}
	return out
}

// TopMemories returns the n memories with highest importance
func (s *Store) TopMemories(n int) []models.ContextualMemory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memories := make([]models.ContextualMemory, len(s.memories))
	copy(memories, s.memories)
	sort.SliceStable(memories, func(i, j int) bool {
		return memories[i].Importance > memories[j].Importance
	})
	if len(memories) > n {
		memories = memories[:n]
	}
	return memories
}

// Preferences returns a copy of the current user preferences
func (s *Store) Preferences() models.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preferences
}

// UpdatePreferences merges non-empty fields over the stored singleton
func (s *Store) UpdatePreferences(prefs models.UserPreferences) {
	s.mu.Lock()
	if prefs.CommunicationStyle != "" {
		s.preferences.CommunicationStyle = prefs.CommunicationStyle
	}
	if prefs.TaskManagementStyle != "" {
		s.preferences.TaskManagementStyle = prefs.TaskManagementStyle
	}
	if prefs.NotificationLevel != "" {
		s.preferences.NotificationLevel = prefs.NotificationLevel
	}
	if prefs.PreferredLanguage != "" {
		s.preferences.PreferredLanguage = prefs.PreferredLanguage
	}
	if prefs.AIPersonality != "" {
		s.preferences.AIPersonality = prefs.AIPersonality
	}
	s.mu.Unlock()

	s.persist()
}

// ClearOldData drops memories older than the cutoff and notes that are
// both older than the cutoff and of importance at most 0.7
func (s *Store) ClearOldData(daysToKeep int) {
	if daysToKeep <= 0 {
		daysToKeep = s.config.RetentionDays
	}
	now := s.clock()
	cutoff := now.AddDate(0, 0, -daysToKeep)

	s.mu.Lock()
	kept := s.memories[:0]
	for _, m := range s.memories {
		if m.Timestamp.After(cutoff) {
			kept = append(kept, m)
		}
	}
	s.memories = kept

	keptNotes := s.notes[:0]
	for _, n := range s.notes {
		if n.UpdatedAt.After(cutoff) || NoteImportance(&n, now) > 0.7 {
			keptNotes = append(keptNotes, n)
		}
	}
	s.notes = keptNotes
	s.mu.Unlock()

	s.persist()
}

// Snapshot returns a deep-enough copy of the current state for persistence
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		UserNotes:        make([]models.KnowledgeNote, len(s.notes)),
		RecentActions:    make([]models.Action, len(s.actions)),
		ContextualMemory: make([]models.ContextualMemory, len(s.memories)),
		WorkingPatterns:  make([]models.WorkingPattern, len(s.patterns)),
		Preferences:      s.preferences,
	}
	copy(snap.UserNotes, s.notes)
	copy(snap.RecentActions, s.actions)
	copy(snap.ContextualMemory, s.memories)
	copy(snap.WorkingPatterns, s.patterns)
	return snap
}

// persist writes the current snapshot through the port. Saves are
// fire-and-forget and coalesced; a save that fails or is dropped is
// tolerated because memory stays the source of truth.
func (s *Store) persist() {
	if s.port == nil {
		return
	}

	snap := s.Snapshot()

	if s.config.SyncSave {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.SaveTimeout)
		defer cancel()
		if err := s.port.Save(ctx, snap); err != nil {
			s.logger.Warn("knowledge save failed", zap.Error(err))
		}
		return
	}

	if !s.limiter.Allow() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.SaveTimeout)
		defer cancel()
		if err := s.port.Save(ctx, snap); err != nil {
			s.logger.Warn("knowledge save failed", zap.Error(err))
		}
	}()
}

// Flush forces a synchronous save, used at shutdown
func (s *Store) Flush(ctx context.Context) error {
	if s.port == nil {
		return nil
	}
	return s.port.Save(ctx, s.Snapshot())
}

// Close flushes and releases the port
func (s *Store) Close() error {
	if s.port == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SaveTimeout)
	defer cancel()
	if err := s.port.Save(ctx, s.Snapshot()); err != nil {
		s.logger.Warn("knowledge save on close failed", zap.Error(err))
	}
	return s.port.Close()
}

// hasAnyTag reports whether note tags intersect the requested tags
func hasAnyTag(noteTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range noteTags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}
