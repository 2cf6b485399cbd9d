package agent

import (
	"testing"

	"github.com/notewise/notewise/internal/models"
)

func TestClassifyIntent_RuleTable(t *testing.T) {
	cases := []struct {
		text       string
		intent     Intent
		confidence float64
	}{
		{"remind me to call mom tomorrow", IntentTask, 0.8},
		{"add a todo for the quarterly report", IntentTask, 0.8},
		{"help me draft a blog post", IntentWriting, 0.8},
		{"summarize my meeting notes", IntentWriting, 0.8},
		{"find my notes about the budget", IntentSearch, 0.7},
		{"show me everything tagged work", IntentSearch, 0.7},
		{"what did I write about the offsite?", IntentQuestion, 0.6},
		{"explain this to me", IntentQuestion, 0.6},
		{"hello there", IntentGeneral, 0.5},
	}

	for _, c := range cases {
		got := classifyIntent(c.text)
		if got.Intent != c.intent {
			t.Errorf("classifyIntent(%q) intent = %s, want %s", c.text, got.Intent, c.intent)
		}
		if got.Confidence != c.confidence {
			t.Errorf("classifyIntent(%q) confidence = %v, want %v", c.text, got.Confidence, c.confidence)
		}
	}
}

func TestClassifyIntent_PriorityOrder(t *testing.T) {
	// "where is" (search) and "?" (question) both match; the earlier
	// search rule must win
	got := classifyIntent("where is my packing list?")
	if got.Intent != IntentSearch {
		t.Fatalf("intent = %s, want %s", got.Intent, IntentSearch)
	}
	if got.Confidence != 0.7 {
		t.Fatalf("confidence = %v, want 0.7", got.Confidence)
	}

	// task beats writing when both match
	got = classifyIntent("write down a task for tomorrow")
	if got.Intent != IntentTask {
		t.Fatalf("intent = %s, want %s", got.Intent, IntentTask)
	}
}

func TestClassifyIntent_CaseInsensitive(t *testing.T) {
	got := classifyIntent("REMIND me about the DEADLINE")
	if got.Intent != IntentTask {
		t.Fatalf("intent = %s, want %s", got.Intent, IntentTask)
	}
}

func TestExtractEntities(t *testing.T) {
	got := classifyIntent("schedule a review tomorrow at 3:30pm")
	if got.Entities == nil {
		t.Fatal("expected entities")
	}
	if len(got.Entities["dates"]) != 1 || got.Entities["dates"][0] != "tomorrow" {
		t.Errorf("dates = %v, want [tomorrow]", got.Entities["dates"])
	}
	if len(got.Entities["times"]) != 1 || got.Entities["times"][0] != "3:30pm" {
		t.Errorf("times = %v, want [3:30pm]", got.Entities["times"])
	}
}

func TestExtractEntities_NumericDateAndNoon(t *testing.T) {
	got := classifyIntent("plan my trip on 12/25 around noon")
	if len(got.Entities["dates"]) != 1 {
		t.Fatalf("dates = %v, want one numeric date", got.Entities["dates"])
	}
	if len(got.Entities["times"]) != 1 || got.Entities["times"][0] != "noon" {
		t.Errorf("times = %v, want [noon]", got.Entities["times"])
	}
}

func TestExtractEntities_NilWhenEmpty(t *testing.T) {
	got := classifyIntent("just saying hi")
	if got.Entities != nil {
		t.Fatalf("entities = %v, want nil", got.Entities)
	}
}

func TestOptimalModeFor(t *testing.T) {
	cases := []struct {
		intent  Intent
		current models.Mode
		want    models.Mode
	}{
		{IntentTask, models.ModeGeneral, models.ModeTaskFocused},
		{IntentWriting, models.ModeGeneral, models.ModeCreative},
		{IntentSearch, models.ModeGeneral, models.ModeAnalytical},
		{IntentQuestion, models.ModeGeneral, models.ModeAnalytical},
		{IntentGeneral, models.ModeCreative, models.ModeCreative}, // sticky
		{Intent("unknown"), models.ModeTaskFocused, models.ModeTaskFocused},
	}
	for _, c := range cases {
		if got := optimalModeFor(c.intent, c.current); got != c.want {
			t.Errorf("optimalModeFor(%s, %s) = %s, want %s", c.intent, c.current, got, c.want)
		}
	}
}
