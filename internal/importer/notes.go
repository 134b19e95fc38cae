// Package importer pulls thoughts out of Markdown note folders (Obsidian
// vaults or plain directories) so they can be run through the intent
// pipeline in bulk. A thought is one task list item: "- [ ] call Sarah".
package importer

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/scrypster/cos/internal/logging"
)

// Thought is one task item found in a note.
type Thought struct {
	Text string   `json:"text"`
	Done bool     `json:"done"`
	Tags []string `json:"tags,omitempty"`

	// Path is relative to the scanned root.
	Path string `json:"path"`
	Line int    `json:"line"`

	// Date comes from the note's frontmatter; zero when absent.
	Date time.Time `json:"date,omitempty"`
}

// Note is a parsed Markdown file.
type Note struct {
	Frontmatter map[string]any
	Thoughts    []Thought
}

// Result summarizes a Scan.
type Result struct {
	FilesFound   int       `json:"files_found"`
	FilesSkipped int       `json:"files_skipped"`
	FilesFailed  int       `json:"files_failed"`
	Thoughts     []Thought `json:"thoughts"`
	Errors       []string  `json:"errors,omitempty"`
}

// taskRe matches "- [ ] text", "* [x] text" and numbered "1. [ ] text".
var taskRe = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+\[([ xX])\]\s+(.+)$`)

// ignoreKey in frontmatter excludes a note from scanning.
const ignoreKey = "cos_ignore"

// ParseNote parses one Markdown document. Line numbers count from 1 and
// include the frontmatter.
func ParseNote(content []byte) (Note, error) {
	lines := splitLines(string(content))
	fm, bodyStart, err := splitFrontmatter(lines)
	if err != nil {
		return Note{}, err
	}

	note := Note{Frontmatter: fm}
	date := frontmatterDate(fm)
	inFence := false
	for i := bodyStart; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := taskRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text, tags := splitTags(StripWikiLinks(m[2]))
		if text == "" {
			continue
		}
		note.Thoughts = append(note.Thoughts, Thought{
			Text: text,
			Done: m[1] != " ",
			Tags: tags,
			Line: i + 1,
			Date: date,
		})
	}
	return note, nil
}

// Scan walks root and parses every .md / .markdown file. Hidden directories
// such as .obsidian are skipped, as are notes whose frontmatter sets
// cos_ignore: true. Per-file failures are collected in the result; only a
// failed walk or a cancelled ctx returns an error.
func Scan(ctx context.Context, root string, logger *zap.Logger) (Result, error) {
	logger = logging.OrNop(logger).Named("importer")

	info, err := os.Stat(root)
	if err != nil {
		return Result{}, fmt.Errorf("importer: cannot access %q: %w", root, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("importer: %q is not a directory", root)
	}

	files, err := collectMarkdownFiles(root)
	if err != nil {
		return Result{}, fmt.Errorf("importer: walk %s: %w", root, err)
	}

	result := Result{FilesFound: len(files), Thoughts: []Thought{}}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable note", zap.String("path", rel), zap.Error(err))
			result.FilesFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rel, err))
			continue
		}

		note, err := ParseNote(data)
		if err != nil {
			logger.Warn("skipping note with bad frontmatter", zap.String("path", rel), zap.Error(err))
			result.FilesFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rel, err))
			continue
		}
		if ignored, _ := note.Frontmatter[ignoreKey].(bool); ignored || len(note.Thoughts) == 0 {
			result.FilesSkipped++
			continue
		}

		for _, th := range note.Thoughts {
			th.Path = rel
			result.Thoughts = append(result.Thoughts, th)
		}
	}

	logger.Info("notes scanned",
		zap.String("root", root),
		zap.Int("files", result.FilesFound),
		zap.Int("thoughts", len(result.Thoughts)))
	return result, nil
}

// Open returns the thoughts that are not checked off.
func (r Result) Open() []Thought {
	var out []Thought
	for _, th := range r.Thoughts {
		if !th.Done {
			out = append(out, th)
		}
	}
	return out
}

func splitLines(text string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// splitFrontmatter parses YAML between leading "---" lines and returns the
// index of the first body line. A missing closing delimiter means there is
// no frontmatter.
func splitFrontmatter(lines []string) (map[string]any, int, error) {
	fm := map[string]any{}
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fm, 0, nil
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "---" {
			continue
		}
		if err := yaml.Unmarshal([]byte(strings.Join(lines[1:i], "\n")), &fm); err != nil {
			return nil, 0, fmt.Errorf("invalid frontmatter: %w", err)
		}
		if fm == nil {
			fm = map[string]any{}
		}
		return fm, i + 1, nil
	}
	return fm, 0, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// frontmatterDate reads the first of date, created or created_at.
func frontmatterDate(fm map[string]any) time.Time {
	for _, key := range []string{"date", "created", "created_at"} {
		switch v := fm[key].(type) {
		case time.Time:
			return v
		case string:
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t
				}
			}
		}
	}
	return time.Time{}
}

// collectMarkdownFiles returns every Markdown file under root in walk order.
func collectMarkdownFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".md", ".markdown":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
