package knowledge

import (
	"sort"

	"github.com/notewise/notewise/internal/models"
)

// effectivenessTarget is the fixed value every pattern update blends
// towards. There is no user feedback signal yet, so each recorded action
// pulls effectiveness halfway to this target.
const effectivenessTarget = 0.7

// activityByActionType maps action types to working-pattern activity
// labels. Unmapped types fall back to "general".
var activityByActionType = map[string]string{
	"create_note":       "note-taking",
	"update_note":       "note-taking",
	"delete_note":       "note-taking",
	"create_task":       "task-management",
	"complete_task":     "task-management",
	"set_reminder":      "task-management",
	"search_notes":      "research",
	"summarize":         "writing",
	"draft_content":     "writing",
	"delegate_to_agent": "delegation",
}

// timeOfDayBucket maps an hour to its fixed bucket
func timeOfDayBucket(hour int) string {
	switch {
	case hour < 6:
		return "late-night"
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	case hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// activityForAction resolves the activity label for an action type
func activityForAction(actionType string) string {
	if activity, ok := activityByActionType[actionType]; ok {
		return activity
	}
	return "general"
}

// updateWorkingPatterns folds one recorded action into the pattern rows.
// Caller holds the store lock. Exactly one row exists per
// (time-of-day, activity) pair: an existing row gets frequency+1 and
// effectiveness = (effectiveness + target) / 2, a new row starts at
// frequency 1 and effectiveness equal to the target.
func (s *Store) updateWorkingPatterns(action *models.Action) {
	ts := action.Timestamp
	if ts.IsZero() {
		ts = s.clock()
	}

	bucket := timeOfDayBucket(ts.Hour())
	activity := activityForAction(action.Type)

	for i := range s.patterns {
		p := &s.patterns[i]
		if p.TimeOfDay == bucket && p.ActivityType == activity {
			p.Frequency++
			p.Effectiveness = (p.Effectiveness + effectivenessTarget) / 2
			return
		}
	}

	s.patterns = append(s.patterns, models.WorkingPattern{
		TimeOfDay:     bucket,
		ActivityType:  activity,
		Frequency:     1,
		Effectiveness: effectivenessTarget,
	})
}

// AnalyzeUserBehavior aggregates working patterns into the buckets the
// user is most effective in, the activities they perform most, and the
// individually most effective patterns.
func (s *Store) AnalyzeUserBehavior() *BehaviorSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucketStat struct {
		name  string
		total float64
		count int
	}
	bucketStats := make(map[string]*bucketStat)
	activityFreq := make(map[string]int)

	for _, p := range s.patterns {
		stat, ok := bucketStats[p.TimeOfDay]
		if !ok {
			stat = &bucketStat{name: p.TimeOfDay}
			bucketStats[p.TimeOfDay] = stat
		}
		stat.total += p.Effectiveness
		stat.count++
		activityFreq[p.ActivityType] += p.Frequency
	}

	buckets := make([]*bucketStat, 0, len(bucketStats))
	for _, stat := range bucketStats {
		buckets = append(buckets, stat)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].total/float64(buckets[i].count) > buckets[j].total/float64(buckets[j].count)
	})

	summary := &BehaviorSummary{}
	for i := 0; i < len(buckets) && i < 3; i++ {
		summary.MostProductiveTimes = append(summary.MostProductiveTimes, buckets[i].name)
	}

	type activityStat struct {
		name string
		freq int
	}
	activities := make([]activityStat, 0, len(activityFreq))
	for name, freq := range activityFreq {
		activities = append(activities, activityStat{name, freq})
	}
	sort.Slice(activities, func(i, j int) bool {
		if activities[i].freq != activities[j].freq {
			return activities[i].freq > activities[j].freq
		}
		return activities[i].name < activities[j].name
	})
	for i := 0; i < len(activities) && i < 5; i++ {
		summary.FrequentActivities = append(summary.FrequentActivities, activities[i].name)
	}

	patterns := make([]models.WorkingPattern, len(s.patterns))
	copy(patterns, s.patterns)
	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].Effectiveness > patterns[j].Effectiveness
	})
	if len(patterns) > 5 {
		patterns = patterns[:5]
	}
	summary.EffectivePatterns = patterns

	return summary
}

// TopPatterns returns the n patterns with highest effectiveness,
// used when agents render the shared-knowledge prompt block
func (s *Store) TopPatterns(n int) []models.WorkingPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patterns := make([]models.WorkingPattern, len(s.patterns))
	copy(patterns, s.patterns)
	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].Effectiveness > patterns[j].Effectiveness
	})
	if len(patterns) > n {
		patterns = patterns[:n]
	}
	return patterns
}
