// Command cos infers intent from free text and turns it into artifacts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/config"
	"github.com/scrypster/cos/internal/connections"
	"github.com/scrypster/cos/internal/engine"
	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/internal/storage"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cos",
	Short: "COS - intent inference for free-text thoughts",
	Long: `COS reads a short free-text thought, works out what you want to do with it
(schedule, communicate, learn, create, analyze, organize) and in which domain,
and suggests the next step. Accepted intents feed a local history that drives
suggestions and insights.

State is kept in the configured key-value store (sqlite by default).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(logging.Options{
			Level:  level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
		})
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
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: $COS_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(elaborateCmd)
	rootCmd.AddCommand(trainingCmd)
	rootCmd.AddCommand(backupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session bundles the store, repository and engine one command works with.
type session struct {
	store  storage.KVStore
	repo   *storage.Repository
	engine *engine.CognitiveEngine
}

func openSession(ctx context.Context) (*session, error) {
	mode, err := engine.ParseMode(cfg.Classifier.Mode)
	if err != nil {
		return nil, err
	}

	store, err := connections.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	repo := storage.NewRepository(store, logger)

	eng, err := engine.Open(ctx, repo, engine.Config{
		Mode:                mode,
		AutomationThreshold: cfg.Learning.AutomationThreshold,
	}, engine.Deps{Logger: logger})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &session{store: store, repo: repo, engine: eng}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		logger.Warn("failed to close store", zap.Error(err))
	}
}

// joinArgs joins positional arguments into one input string.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

var errEmptyInput = errors.New("input is empty")
