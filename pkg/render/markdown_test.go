package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notekeep/pkg/core"
)

var day = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

func sample() []core.Note {
	return []core.Note{
		{ID: "n1", Title: "Groceries", Content: "milk\neggs\n", CreatedAt: day, UpdatedAt: day},
		{ID: "n2", Content: "sketch", HasDrawing: true, Paths: []core.PathData{{Path: "M0 0"}}, CreatedAt: day, UpdatedAt: day},
	}
}

func TestMarkdown_Render(t *testing.T) {
	dir := t.TempDir()
	m := &Markdown{Dir: dir, Now: func() time.Time { return day }}

	path, err := m.Render(context.Background(), sample())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes_export_2024-05-17.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)

	assert.True(t, strings.HasPrefix(doc, "---\n"))
	assert.Contains(t, doc, "title: Groceries")
	assert.Contains(t, doc, "milk\neggs\n")
	assert.Contains(t, doc, "strokes: 1")
	assert.NotContains(t, doc, "## ")
}

func TestMarkdown_FrontmatterParses(t *testing.T) {
	m := &Markdown{Now: func() time.Time { return day }}
	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf, sample()[:1]))

	parts := strings.SplitN(buf.String(), "---\n", 3)
	require.Len(t, parts, 3)

	var meta frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &meta))
	assert.Equal(t, "n1", meta.ID)
	assert.Equal(t, "Groceries", meta.Title)
	assert.True(t, meta.CreatedAt.Equal(day))
}

func TestMarkdown_Pretty(t *testing.T) {
	m := &Markdown{Pretty: true, Now: func() time.Time { return day }}
	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf, sample()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Notes\n"))
	assert.Contains(t, out, "## Groceries\n")
	assert.Contains(t, out, "## Untitled\n")
}

func TestMarkdown_ExplicitPath(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "mine.md")
	m := &Markdown{Path: target}

	path, err := m.Render(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, target, path)
	assert.FileExists(t, target)
}

func TestMarkdown_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Markdown{Dir: t.TempDir()}).Render(ctx, sample())
	assert.ErrorIs(t, err, context.Canceled)
}
