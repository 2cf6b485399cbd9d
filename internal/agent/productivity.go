package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/notewise/notewise/internal/models"
)

// ProductivityAgent turns task-shaped requests into concrete task and
// reminder actions, using extracted date/time entities for scheduling
type ProductivityAgent struct {
	baseAgent
}

// NewProductivityAgent creates the productivity agent
func NewProductivityAgent() *ProductivityAgent {
	return &ProductivityAgent{baseAgent{profile: models.AgentProfile{
		ID:           "productivity",
		Name:         "Productivity Assistant",
		Description:  "Task management, reminders and scheduling",
		Capabilities: []string{"tasks", "reminders", "scheduling"},
		Personality:  "structured",
		Expertise:    []string{"task management", "planning"},
		PromptTemplate: "You are a productivity assistant. Turn requests into " +
			"actionable tasks with clear deadlines, and keep the user's plan realistic.",
	}}}
}

func (a *ProductivityAgent) ProcessMessage(ctx context.Context, text string, mode models.Mode, session *SessionContext) *Response {
	analysis := a.AnalyzeIntent(text, sessionMessages(session))

	title := taskTitle(text)
	data := map[string]interface{}{"title": title}
	if dates, ok := analysis.Entities["dates"]; ok {
		data["due_date"] = dates[0]
	}
	if times, ok := analysis.Entities["times"]; ok {
		data["due_time"] = times[0]
	}

	priority := models.PriorityMedium
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "urgent") || strings.Contains(lowered, "asap") || strings.Contains(lowered, "important") {
		priority = models.PriorityHigh
	}

	actions := []models.Action{{
		Type:     "create_task",
		Data:     data,
		Message:  fmt.Sprintf("Create task %q", title),
		Priority: priority,
	}}

	message := fmt.Sprintf("I've set up the task %q", title)
	if due, ok := data["due_date"]; ok {
		message += fmt.Sprintf(", due %v", due)
		reminder := map[string]interface{}{"task": title, "date": due}
		if t, ok := data["due_time"]; ok {
			reminder["time"] = t
		}
		actions = append(actions, models.Action{
			Type:                 "set_reminder",
			Data:                 reminder,
			Message:              fmt.Sprintf("Remind about %q", title),
			Priority:             priority,
			RequiresConfirmation: true,
		})
		message += ", and I can set a reminder for it."
	} else {
		message += ". Want me to add a deadline?"
	}

	return &Response{
		Message:    message,
		Actions:    actions,
		Confidence: 0.85,
		Reasoning:  fmt.Sprintf("parsed task request with intent %q", analysis.Intent),
		SuggestedFollowUps: []string{
			"Show my open tasks",
			"Set a different deadline",
		},
	}
}

// taskTitle condenses the request into a task label by dropping the
// leading imperative phrasing
func taskTitle(text string) string {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)
	for _, prefix := range []string{
		"remind me to ", "i need to ", "add a task to ", "add task ",
		"create a task to ", "schedule ", "plan to ", "todo: ",
	} {
		if strings.HasPrefix(lowered, prefix) {
			trimmed = strings.TrimSpace(trimmed[len(prefix):])
			break
		}
	}
	if len(trimmed) > 80 {
		trimmed = trimmed[:80]
	}
	return trimmed
}
