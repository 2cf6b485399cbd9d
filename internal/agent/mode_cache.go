package agent

import (
	"strings"
	"sync"
	"time"

	"github.com/notewise/notewise/internal/models"
)

// cachedMode holds a cached mode recommendation
type cachedMode struct {
	mode     models.Mode
	cachedAt time.Time
}

// modeCache provides TTL-based caching for mode recommendations, so
// hosts polling RecommendedMode while the user types don't redo the
// keyword scan on every keystroke
type modeCache struct {
	cache map[string]*cachedMode
	mu    sync.RWMutex
	ttl   time.Duration
}

func newModeCache(ttl time.Duration) *modeCache {
	return &modeCache{
		cache: make(map[string]*cachedMode),
		ttl:   ttl,
	}
}

// get retrieves a cached recommendation if still valid
func (c *modeCache) get(text string) (models.Mode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if entry, ok := c.cache[normalizeText(text)]; ok {
		if time.Since(entry.cachedAt) < c.ttl {
			return entry.mode, true
		}
	}
	return "", false
}

// set stores a recommendation, pruning expired entries opportunistically
func (c *modeCache) set(text string, mode models.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.cache {
		if now.Sub(entry.cachedAt) > c.ttl {
			delete(c.cache, key)
		}
	}

	c.cache[normalizeText(text)] = &cachedMode{mode: mode, cachedAt: now}
}

// normalizeText creates a cache key from the message text
func normalizeText(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
