package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/action"
	"github.com/scrypster/cos/internal/engine"
	"github.com/scrypster/cos/pkg/types"
)

var (
	processExecute bool
	processOutDir  string
	processJSON    bool
	processDryRun  bool
)

// processCmd classifies one thought
var processCmd = &cobra.Command{
	Use:   "process [text]",
	Short: "Classify a thought and record the accepted intent",
	Long: `Runs the input through entity extraction, action/domain classification and
context enrichment, prints the resulting intent and records it in the history.

With --execute the intent is also turned into an artifact: a markdown plan,
an .ics calendar entry written to --out, or a mailto: link printed to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

// liveCmd classifies stdin as it is typed
var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Classify lines from stdin after a quiet period",
	Long: `Reads stdin line by line. Each line replaces the pending text, and the text
is classified once input has been quiet for the debounce window, so a fast
burst of lines is classified once. Nothing is recorded in the history.`,
	Args: cobra.NoArgs,
	RunE: runLive,
}

// suggestCmd prints contextual and proactive suggestions
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show suggestions derived from recent context and history",
	Args:  cobra.NoArgs,
	RunE:  runSuggest,
}

// insightsCmd prints history insights
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize recent activity",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

// feedbackCmd records a verdict on a suggestion
var feedbackCmd = &cobra.Command{
	Use:   "feedback [category] [positive|negative] [text]",
	Short: "Record feedback on a suggested intent",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runFeedback,
}

func init() {
	processCmd.Flags().BoolVarP(&processExecute, "execute", "x", false, "Generate the artifact for the intent")
	processCmd.Flags().StringVarP(&processOutDir, "out", "o", ".", "Directory for generated files")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "Print the intent as JSON")
	processCmd.Flags().BoolVar(&processDryRun, "dry-run", false, "Do not record the intent in the history")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	text := joinArgs(args)
	if text == "" {
		return errEmptyInput
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	intent := s.engine.ProcessInput(ctx, text)
	if intent == nil {
		return errEmptyInput
	}

	if processJSON {
		if err := writeJSON(out, intent); err != nil {
			return err
		}
	} else {
		printIntent(out, intent)
	}

	if !processDryRun {
		if _, err := s.engine.AcceptIntent(ctx, text, *intent); err != nil {
			logger.Warn("failed to persist accepted intent", zap.Error(err))
		}
	}

	if !processExecute {
		return nil
	}
	artifact := action.NewExecutor(action.WithLogger(logger)).Execute(*intent, text)
	return emitArtifact(out, artifact, processOutDir)
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	var mu sync.Mutex
	d := engine.NewDebouncer(cfg.Classifier.DebounceWindow, func(text string) {
		intent := s.engine.ProcessInput(ctx, text)
		if intent == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "> %s\n", text)
		printIntent(out, intent)
	})
	defer d.Stop()

	logger.Debug("live classification started", zap.Duration("window", d.Window()))
	if err := feedLines(cmd.InOrStdin(), d); err != nil {
		return err
	}
	d.Flush()
	return nil
}

// feedLines submits every line of r to the debouncer.
func feedLines(r io.Reader, d *engine.Debouncer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		d.Submit(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	suggestions := append(s.engine.ContextualSuggestions(), s.engine.ProactiveSuggestions()...)
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions yet.")
		return nil
	}
	for _, suggestion := range suggestions {
		fmt.Fprintf(out, "- %s\n", suggestion)
	}
	return nil
}

func runInsights(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	for _, insight := range s.engine.Insights(time.Now()) {
		fmt.Fprintf(out, "- %s\n", insight)
	}
	return nil
}

func runFeedback(cmd *cobra.Command, args []string) error {
	category := strings.ToLower(args[0])
	feedback, err := types.ParseFeedback(strings.ToLower(args[1]))
	if err != nil {
		return err
	}
	text := joinArgs(args[2:])

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.engine.UpdateLearningData(cmd.Context(), text, category, feedback); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s feedback for %s.\n", feedback, category)
	return nil
}

func printIntent(w io.Writer, intent *types.Intent) {
	fmt.Fprintf(w, "Category:   %s\n", intent.Category)
	if intent.Domain != "" {
		fmt.Fprintf(w, "Domain:     %s\n", intent.Domain)
	}
	fmt.Fprintf(w, "Confidence: %.0f%%\n", intent.Confidence*100)
	fmt.Fprintf(w, "Suggestion: %s\n", intent.Suggestion)
	fmt.Fprintf(w, "Action:     %s\n", intent.Action)
	for _, e := range intent.Entities {
		fmt.Fprintf(w, "  %-7s %s\n", e.Type, e.Value)
	}
}

func emitArtifact(w io.Writer, artifact action.Artifact, dir string) error {
	if artifact.Kind == action.KindMailto {
		fmt.Fprintln(w, artifact.URL)
		return nil
	}
	path, err := artifact.Save(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\nWrote %s\n", artifact.Message, path)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
