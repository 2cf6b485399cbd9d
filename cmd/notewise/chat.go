package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/notewise/notewise/internal/agent"
	"github.com/notewise/notewise/internal/knowledge"
)

// runChat drives the interactive conversation loop
func runChat() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	coordinator := agent.NewCoordinator(uuid.NewString(), store, logger)
	for _, a := range []agent.Agent{
		agent.NewGeneralAgent(),
		agent.NewWritingAgent(),
		agent.NewProductivityAgent(),
	} {
		if err := coordinator.RegisterAgent(a); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
		store.Close()
		os.Exit(0)
	}()

	printBanner()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := handleCommand(input, coordinator, store); done {
				return nil
			}
			continue
		}

		mode := coordinator.RecommendedMode(input)
		resp, err := coordinator.ProcessMessage(ctx, &agent.Request{Text: input, Mode: mode})
		if err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}

		fmt.Printf("\n%s\n", resp.Message)
		if resp.NeedsClarification && resp.ClarificationQuestion != "" {
			fmt.Printf("(%s)\n", resp.ClarificationQuestion)
		}
		for _, action := range resp.Actions {
			if action.Message != "" {
				fmt.Printf("  → %s\n", action.Message)
			}
		}
		if len(resp.SuggestedFollowUps) > 0 {
			fmt.Printf("Suggestions: %s\n", strings.Join(resp.SuggestedFollowUps, " | "))
		}
		fmt.Println()
	}
	return nil
}

// handleCommand processes slash commands; returns true on /exit
func handleCommand(cmd string, coordinator *agent.Coordinator, store *knowledge.Store) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "/help":
		fmt.Println("\nCommands: /help /agents /switch <id> /history /behavior /clear /exit")
		fmt.Println()
	case "/agents":
		fmt.Println()
		for _, p := range coordinator.Agents() {
			marker := "  "
			if p.ID == coordinator.ActiveAgent() {
				marker = "* "
			}
			fmt.Printf("%s%s - %s\n", marker, p.ID, p.Description)
		}
		fmt.Println()
	case "/switch":
		if len(parts) < 2 {
			fmt.Println("\nUsage: /switch <agent-id>")
			fmt.Println()
			return false
		}
		if coordinator.SwitchAgent(parts[1]) {
			fmt.Printf("\nSwitched to %s\n\n", parts[1])
		} else {
			fmt.Printf("\nUnknown agent %q\n\n", parts[1])
		}
	case "/history":
		history := coordinator.History()
		if len(history) == 0 {
			fmt.Println("\nNo history")
			fmt.Println()
			return false
		}
		fmt.Println("\n=== History ===")
		for i, msg := range history {
			who := msg.Role
			if msg.AgentID != "" {
				who = msg.AgentID
			}
			fmt.Printf("%d. %s: %s\n", i+1, who, truncate(msg.Content, 60))
		}
		fmt.Println()
	case "/behavior":
		summary := store.AnalyzeUserBehavior()
		fmt.Printf("\nProductive times: %s\n", strings.Join(summary.MostProductiveTimes, ", "))
		fmt.Printf("Frequent activities: %s\n\n", strings.Join(summary.FrequentActivities, ", "))
	case "/clear":
		fmt.Println("\nStart a new session to clear the conversation")
		fmt.Println()
	case "/exit", "/quit":
		fmt.Println("Goodbye!")
		return true
	}
	return false
}

func printBanner() {
	fmt.Printf(`
notewise agent core %s
Agents: general (referee), writing, productivity
Type /help for commands.

`, version)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
