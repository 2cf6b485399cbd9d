package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/notewise/notewise/internal/config"
	"github.com/notewise/notewise/internal/knowledge"
)

const version = "0.2.0"

var (
	cfgPath string
	backend string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "notewise",
	Short:   "Agent core for the notewise note-taking assistant",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if backend != "" {
			cfg.Storage.Backend = backend
		}

		logCfg := zap.NewProductionConfig()
		if verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

var behaviorCmd = &cobra.Command{
	Use:   "behavior",
	Short: "Show aggregated working-pattern analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		summary := store.AnalyzeUserBehavior()
		fmt.Println("Most productive times:")
		for _, t := range summary.MostProductiveTimes {
			fmt.Printf("  - %s\n", t)
		}
		fmt.Println("Frequent activities:")
		for _, a := range summary.FrequentActivities {
			fmt.Printf("  - %s\n", a)
		}
		fmt.Println("Most effective patterns:")
		for _, p := range summary.EffectivePatterns {
			fmt.Printf("  - %s %s (freq %d, effectiveness %.2f)\n",
				p.TimeOfDay, p.ActivityType, p.Frequency, p.Effectiveness)
		}
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes [query]",
	Short: "List or search knowledge notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		notes := store.SearchNotes(query, nil, "")
		if len(notes) == 0 {
			fmt.Println("No notes found")
			return nil
		}
		for _, n := range notes {
			fmt.Printf("%s  %s\n", n.UpdatedAt.Format("2006-01-02"), n.Title)
		}
		return nil
	},
}

// openStore builds the configured persistence port, wraps it with the
// save circuit breaker, and loads the knowledge store
func openStore() (*knowledge.Store, error) {
	var (
		port knowledge.Port
		err  error
	)

	switch cfg.Storage.Backend {
	case "badger":
		port, err = knowledge.NewBadgerPort(cfg.Storage.BadgerPath)
	case "sqlite":
		port, err = knowledge.NewSQLitePort(cfg.Storage.SQLitePath)
	case "redis":
		port, err = knowledge.NewRedisPort(knowledge.RedisOptions{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
	case "memory":
		port = knowledge.NewMemoryPort()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Storage.Backend, err)
	}

	storeCfg := knowledge.DefaultConfig()
	storeCfg.RetentionDays = cfg.Retention.DaysToKeep
	storeCfg.MaxRecentActions = cfg.Retention.MaxRecentActions
	storeCfg.MaxContextualMemory = cfg.Retention.MaxContextualMemory

	return knowledge.NewStore(knowledge.NewBreakerPort(port, logger), storeCfg, logger), nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: badger, redis, sqlite, memory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(behaviorCmd)
	rootCmd.AddCommand(notesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
