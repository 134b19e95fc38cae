package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/importer"
)

var (
	importIncludeDone bool
	importDryRun      bool
)

// importCmd seeds the history from a notes folder
var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Classify the task items of a Markdown notes folder",
	Long: `Walks a Markdown folder (an Obsidian vault works) and runs every open task
item ("- [ ] ...") through the pipeline, recording each intent in the history.
Notes with "cos_ignore: true" in their frontmatter are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importIncludeDone, "include-done", false, "Also import checked-off items")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Classify without recording")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	result, err := importer.Scan(ctx, args[0], logger)
	if err != nil {
		return err
	}
	thoughts := result.Open()
	if importIncludeDone {
		thoughts = result.Thoughts
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	counts := make(map[string]int)
	for _, th := range thoughts {
		if err := ctx.Err(); err != nil {
			return err
		}
		intent := s.engine.ProcessInput(ctx, th.Text)
		if intent == nil {
			continue
		}
		counts[intent.Category]++
		if importDryRun {
			continue
		}
		if _, err := s.engine.AcceptIntent(ctx, th.Text, *intent); err != nil {
			logger.Warn("failed to record imported thought",
				zap.String("path", th.Path), zap.Int("line", th.Line), zap.Error(err))
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanned %d files, classified %d thoughts", result.FilesFound, len(thoughts))
	if result.FilesFailed > 0 {
		fmt.Fprintf(out, " (%d files failed)", result.FilesFailed)
	}
	fmt.Fprintln(out)

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	for _, c := range categories {
		fmt.Fprintf(out, "  %-12s %d\n", c, counts[c])
	}
	return nil
}
