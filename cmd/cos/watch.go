package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/action"
	"github.com/scrypster/cos/internal/watcher"
)

var (
	watchFile string
	watchPoll bool
	watchOut  string
)

// watchCmd follows the page context a browser host writes to disk
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Suggest actions for the page you are looking at",
	Long: `Follows a JSON file holding {"title": ..., "url": ...} that a browser host
rewrites whenever the active page changes. Every new page is matched against
the site rules and the predicted actions are printed.

Type the number of a prediction and press enter to generate it into --out.
Use --poll on filesystems without change notifications.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchFile, "file", "f", "", "Page context file (default: watcher.context_file)")
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false, "Poll the file every watcher.poll_interval instead of using notifications")
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", ".", "Directory for generated files")
}

// textPanel prints suggestion panels as plain text.
type textPanel struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *textPanel) Show(pc watcher.PageContext, info watcher.SiteInfo, predictions []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\n%s - %s (%d%%)\n", info.Site, info.Activity, info.Confidence)
	if pc.Title != "" {
		fmt.Fprintf(p.w, "  %s\n", pc.Title)
	}
	for i, prediction := range predictions {
		fmt.Fprintf(p.w, "  [%d] %s\n", i+1, prediction)
	}
}

func (p *textPanel) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, "(panel closed)")
}

func newSource(path string) watcher.Source {
	if watchPoll {
		return watcher.NewPollSource(func() (watcher.PageContext, error) {
			return watcher.ReadContextFile(path)
		}, cfg.Watcher.PollInterval)
	}
	return watcher.NewFileSource(path, logger)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := watchFile
	if path == "" {
		path = cfg.Watcher.ContextFile
	}
	if path == "" {
		return errors.New("no context file: pass --file or set watcher.context_file")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	w := watcher.New(newSource(path), &textPanel{w: out},
		watcher.WithExecutor(action.NewExecutor(action.WithLogger(logger))),
		watcher.WithLogger(logger))
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("watching page context", zap.String("path", path), zap.Bool("poll", watchPoll))

	choices := make(chan string)
	go readChoices(ctx, cmd.InOrStdin(), choices)

	for {
		select {
		case <-ctx.Done():
			return nil
		case choice, ok := <-choices:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if err := runChoice(out, w, choice); err != nil {
				logger.Warn("prediction failed", zap.String("choice", choice), zap.Error(err))
			}
		}
	}
}

// readChoices forwards trimmed stdin lines until EOF or ctx is done.
func readChoices(ctx context.Context, r io.Reader, ch chan<- string) {
	defer close(ch)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case ch <- strings.TrimSpace(scanner.Text()):
		case <-ctx.Done():
			return
		}
	}
}

// runChoice handles one line typed while watching: a prediction number or
// "q" to close the panel.
func runChoice(w io.Writer, wt *watcher.Watcher, choice string) error {
	if choice == "" {
		return nil
	}
	if choice == "q" {
		wt.Close()
		return nil
	}
	predictions := wt.Predictions()
	var n int
	if _, err := fmt.Sscanf(choice, "%d", &n); err != nil || n < 1 || n > len(predictions) {
		return fmt.Errorf("pick a number between 1 and %d", len(predictions))
	}
	return emitArtifact(w, wt.ExecutePrediction(predictions[n-1]), watchOut)
}
