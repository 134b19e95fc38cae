package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrypster/cos/internal/enhance"
	"github.com/scrypster/cos/internal/llm"
	"github.com/scrypster/cos/internal/storage"
)

var elaborateShowSource bool

// elaborateCmd answers a thought with the remote model or the local fallback
var elaborateCmd = &cobra.Command{
	Use:   "elaborate [text]",
	Short: "Answer a thought with the configured model, falling back locally",
	Long: `Sends the input to the configured text generator (llm.provider) and races it
against a local rule-based answer. If the model has not answered within
llm.fallback_delay, or fails, the local answer is printed instead.
Every answer is appended to the training log.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runElaborate,
}

// trainingCmd manages the training log
var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Inspect the elaboration training log",
}

var trainingExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the training log as JSON",
	Args:  cobra.NoArgs,
	RunE:  runTrainingExport,
}

var trainingClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every training example",
	Args:  cobra.NoArgs,
	RunE:  runTrainingClear,
}

func init() {
	elaborateCmd.Flags().BoolVar(&elaborateShowSource, "source", false, "Print which side answered")

	trainingCmd.AddCommand(trainingExportCmd)
	trainingCmd.AddCommand(trainingClearCmd)
}

// openTrainingLog opens the store and loads the training log from it.
func openTrainingLog(ctx context.Context) (*enhance.TrainingLog, func(), error) {
	s, err := openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	tl, err := enhance.NewTrainingLog(ctx, s.repo, logger)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return tl, s.Close, nil
}

func runElaborate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text := joinArgs(args)
	if text == "" {
		return errEmptyInput
	}

	generator, err := llm.NewTextGenerator(cfg.LLM, logger)
	if err != nil {
		return err
	}
	tl, closeFn, err := openTrainingLog(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	e := enhance.New(generator,
		enhance.WithFallbackDelay(cfg.LLM.FallbackDelay),
		enhance.WithTrainingLog(tl),
		enhance.WithLogger(logger))

	result := e.Elaborate(ctx, text)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Text)
	if elaborateShowSource {
		fmt.Fprintf(out, "\n(source: %s, %s)\n", result.Source, result.Elapsed.Round(time.Millisecond))
	}
	return nil
}

func runTrainingExport(cmd *cobra.Command, args []string) error {
	tl, closeFn, err := openTrainingLog(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	data, err := tl.Export()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runTrainingClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	tl, closeFn, err := openTrainingLog(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	n := tl.Len()
	if err := tl.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d training examples (%s).\n", n, storage.KeyTrainingData)
	return nil
}
