package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyNote = `---
date: 2024-01-15
tags: [daily]
---
# Monday

- [ ] schedule meeting with [[Sarah Connor|Sarah]] tomorrow at 2pm #work
- [x] email the client about the budget
* [ ] research [[Quantum Physics]] papers
1. [ ] write the quarterly report

` + "```" + `
- [ ] not a task inside a fence
` + "```" + `
- plain bullet
- [ ] #onlytag
`

func TestParseNote(t *testing.T) {
	note, err := ParseNote([]byte(dailyNote))
	require.NoError(t, err)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	want := []Thought{
		{Text: "schedule meeting with Sarah tomorrow at 2pm", Tags: []string{"work"}, Line: 7, Date: date},
		{Text: "email the client about the budget", Done: true, Line: 8, Date: date},
		{Text: "research Quantum Physics papers", Line: 9, Date: date},
		{Text: "write the quarterly report", Line: 10, Date: date},
	}
	if diff := cmp.Diff(want, note.Thoughts); diff != "" {
		t.Errorf("thoughts mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []any{"daily"}, note.Frontmatter["tags"])
}

func TestParseNote_NoFrontmatter(t *testing.T) {
	note, err := ParseNote([]byte("- [ ] call mom\n"))
	require.NoError(t, err)
	require.Len(t, note.Thoughts, 1)
	assert.Equal(t, 1, note.Thoughts[0].Line)
	assert.True(t, note.Thoughts[0].Date.IsZero())
	assert.Empty(t, note.Frontmatter)
}

func TestParseNote_UnclosedFrontmatterIsBody(t *testing.T) {
	note, err := ParseNote([]byte("---\n- [ ] call mom\n"))
	require.NoError(t, err)
	require.Len(t, note.Thoughts, 1)
	assert.Equal(t, 2, note.Thoughts[0].Line)
}

func TestParseNote_BadFrontmatter(t *testing.T) {
	_, err := ParseNote([]byte("---\ntags: [unclosed\n---\n- [ ] x\n"))
	assert.Error(t, err)
}

func TestSplitTags(t *testing.T) {
	text, tags := splitTags("plan #Work sprint #work #home/chores")
	assert.Equal(t, "plan sprint", text)
	assert.Equal(t, []string{"Work", "home/chores"}, tags)
}

func TestStripWikiLinks(t *testing.T) {
	assert.Equal(t, "see Alias and Target", StripWikiLinks("see [[Note|Alias]] and [[ Target ]]"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "daily", "2024-01-15.md"), dailyNote)
	writeFile(t, filepath.Join(root, "ideas.markdown"), "- [ ] design a logo\n")
	writeFile(t, filepath.Join(root, "empty.md"), "# nothing here\n")
	writeFile(t, filepath.Join(root, "private.md"), "---\ncos_ignore: true\n---\n- [ ] secret\n")
	writeFile(t, filepath.Join(root, "broken.md"), "---\n: [\n---\n- [ ] x\n")
	writeFile(t, filepath.Join(root, ".obsidian", "workspace.md"), "- [ ] hidden\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "- [ ] not markdown\n")

	result, err := Scan(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, result.FilesFound)
	assert.Equal(t, 2, result.FilesSkipped)
	assert.Equal(t, 1, result.FilesFailed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken.md")

	require.Len(t, result.Thoughts, 5)
	assert.Equal(t, "daily/2024-01-15.md", result.Thoughts[0].Path)
	assert.Equal(t, "ideas.markdown", result.Thoughts[4].Path)

	open := result.Open()
	assert.Len(t, open, 4)
	for _, th := range open {
		assert.False(t, th.Done)
	}
}

func TestScan_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	writeFile(t, path, "- [ ] x\n")

	_, err := Scan(context.Background(), path, nil)
	assert.ErrorContains(t, err, "not a directory")

	_, err = Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "- [ ] x\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, root, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
