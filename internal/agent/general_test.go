package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/notewise/notewise/internal/knowledge"
	"github.com/notewise/notewise/internal/models"
)

func searchTestSession(t *testing.T) *SessionContext {
	t.Helper()
	store := knowledge.NewStore(nil, promptTestConfig(), nil)
	store.AddNote(models.KnowledgeNote{
		Title:   "Budget review",
		Content: "quarterly numbers and projections",
		Tags:    []string{"finance"},
	})
	return &SessionContext{SessionID: "s", Knowledge: store}
}

func TestGeneralAgent_SearchFindsNotes(t *testing.T) {
	agent := NewGeneralAgent()
	resp := agent.ProcessMessage(context.Background(), "find budget", models.ModeGeneral, searchTestSession(t))

	if resp.NeedsClarification {
		t.Fatal("hit search should not ask for clarification")
	}
	if !strings.Contains(resp.Message, "Budget review") {
		t.Errorf("response missing matched note title:\n%s", resp.Message)
	}
	if len(resp.Actions) != 1 || resp.Actions[0].Type != "search_notes" {
		t.Errorf("expected one search_notes action, got %+v", resp.Actions)
	}
}

func TestGeneralAgent_SearchMissAsksForClarification(t *testing.T) {
	agent := NewGeneralAgent()
	resp := agent.ProcessMessage(context.Background(), "find my dissertation outline", models.ModeGeneral, searchTestSession(t))

	if !resp.NeedsClarification {
		t.Fatal("empty search result should ask for clarification")
	}
	if resp.ClarificationQuestion == "" {
		t.Error("clarification question missing")
	}
}

func TestGeneralAgent_AnswersFromMemory(t *testing.T) {
	session := searchTestSession(t)
	session.Knowledge.AddContextualMemory(models.ContextualMemory{
		Context:    "user asked about vacation policy",
		Importance: 0.8,
	})

	agent := NewGeneralAgent()
	resp := agent.ProcessMessage(context.Background(), "what was the vacation policy?", models.ModeGeneral, session)

	if !strings.Contains(resp.Message, "vacation policy") {
		t.Errorf("answer should surface the remembered context:\n%s", resp.Message)
	}
}

func TestGeneralAgent_QuestionWithoutContextSuggestsFollowUps(t *testing.T) {
	agent := NewGeneralAgent()
	resp := agent.ProcessMessage(context.Background(), "what is a monad?", models.ModeGeneral, searchTestSession(t))

	if len(resp.SuggestedFollowUps) == 0 {
		t.Error("expected follow-up suggestions when no context matches")
	}
}

func TestGeneralAgent_SmallTalk(t *testing.T) {
	agent := NewGeneralAgent()
	resp := agent.ProcessMessage(context.Background(), "good morning", models.ModeGeneral, nil)

	if resp.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", resp.Confidence)
	}
	if len(resp.SuggestedFollowUps) == 0 {
		t.Error("small talk should suggest follow-ups")
	}
}

func TestStripSearchPhrasing(t *testing.T) {
	cases := map[string]string{
		"find my budget notes":      "my budget notes",
		"search for the roadmap":    "the roadmap",
		"Where is the packing list": "the packing list",
		"budget":                    "budget",
	}
	for in, want := range cases {
		if got := stripSearchPhrasing(in); got != want {
			t.Errorf("stripSearchPhrasing(%q) = %q, want %q", in, got, want)
		}
	}
}
