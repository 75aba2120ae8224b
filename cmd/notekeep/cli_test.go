package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/core"
)

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type cli struct {
	t      *testing.T
	dir    string
	config string
	extra  []string
}

func newCLI(t *testing.T, extra ...string) *cli {
	t.Helper()
	base := t.TempDir()
	config := filepath.Join(base, "config.toml")
	require.NoError(t, os.WriteFile(config, nil, 0644))
	return &cli{t: t, dir: filepath.Join(base, "data"), config: config, extra: extra}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	full := append([]string{"--data-dir", c.dir, "--config", c.config}, c.extra...)
	rootCmd.SetArgs(append(full, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "notekeep %s", strings.Join(args, " "))
	return out
}

func TestCLI_NoteLifecycle(t *testing.T) {
	c := newCLI(t)

	id := strings.TrimSpace(c.must("new", "--title", "Groceries", "--content", "milk"))
	require.NotEmpty(t, id)

	out := c.must("show", id)
	assert.Contains(t, out, "# Groceries")
	assert.Contains(t, out, "milk")

	c.must("edit", id, "--content", "milk and eggs")

	var note core.Note
	require.NoError(t, json.Unmarshal([]byte(c.must("show", id, "--json")), &note))
	assert.Equal(t, "Groceries", note.Title, "edit keeps untouched fields")
	assert.Equal(t, "milk and eggs", note.Content)

	other := strings.TrimSpace(c.must("new", "--title", "Meeting notes"))
	list := c.must("list")
	assert.Contains(t, list, id+" - Groceries")
	assert.Contains(t, list, other+" - Meeting notes")

	matched := c.must("list", "--match", "meet*")
	assert.NotContains(t, matched, id)
	assert.Contains(t, matched, other)

	c.must("delete", id)
	_, err := c.run("show", id)
	assert.ErrorContains(t, err, "note not found")
}

func TestCLI_ListJSONEmpty(t *testing.T) {
	c := newCLI(t)
	out := c.must("list", "--json")
	assert.JSONEq(t, "[]", out)
}

func TestCLI_EditMissing(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("edit", "ghost", "--title", "x")
	assert.ErrorContains(t, err, "not found")
}

func TestCLI_Highlights(t *testing.T) {
	c := newCLI(t)
	id := strings.TrimSpace(c.must("new", "--title", "Biology"))

	h1 := strings.TrimSpace(c.must("highlight", "add", id, "The cell membrane", "--color", "green"))
	h2 := strings.TrimSpace(c.must("highlight", "add", id, "Cell division"))
	require.NotEqual(t, h1, h2)

	list := c.must("highlight", "list", id)
	assert.Contains(t, list, "green\tThe cell membrane")
	assert.Contains(t, list, "yellow\tCell division")

	out := c.must("search", "cell")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], h2), "earlier match ranks first")

	c.must("highlight", "update", h1, "--text", "The nucleus")
	assert.Contains(t, c.must("highlight", "list"), "The nucleus")

	c.must("highlight", "delete", h1)
	c.must("highlight", "delete", h2)
	assert.Empty(t, c.must("highlight", "list"))

	_, err := c.run("highlight", "add", "ghost", "text")
	assert.ErrorContains(t, err, "note not found")

	// Deleting the note removes its highlights.
	c.must("highlight", "add", id, "kept until delete")
	c.must("delete", id)
	assert.Empty(t, c.must("highlight", "list"))
}

func TestCLI_ExportImport(t *testing.T) {
	src := newCLI(t)
	id := strings.TrimSpace(src.must("new", "--title", "Keep me"))
	src.must("highlight", "add", id, "important")

	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "backup"+ext)
			src.must("export", file)

			dst := newCLI(t)
			dst.must("new", "--title", "replaced")
			dst.must("import", file)

			list := dst.must("list")
			assert.Contains(t, list, "Keep me")
			assert.NotContains(t, list, "replaced")
			assert.Contains(t, dst.must("highlight", "list", id), "important")
		})
	}

	stdout := src.must("export", "-")
	assert.Contains(t, stdout, `"exportDate"`)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"notes": []}`), 0644))
	_, err := src.run("import", bad)
	assert.ErrorIs(t, err, core.ErrInvalidBackup)
	assert.Contains(t, src.must("list"), "Keep me")
}

func TestCLI_Clear(t *testing.T) {
	c := newCLI(t)
	c.must("new")
	c.must("new")

	_, err := c.run("clear")
	assert.Error(t, err)
	assert.NotEmpty(t, c.must("list"))

	assert.Contains(t, c.must("clear", "--yes"), "Cleared 2 notes")
	assert.Empty(t, c.must("list"))
}

func TestCLI_Backup(t *testing.T) {
	c := newCLI(t)
	backups := filepath.Join(t.TempDir(), "backups")

	id := strings.TrimSpace(c.must("new", "--title", "v1"))
	c.must("highlight", "add", id, "survives")
	c.must("backup", "run", "--dir", backups)

	c.must("edit", id, "--title", "v2")
	c.must("new", "--title", "extra")

	c.must("backup", "restore", "--dir", backups)
	list := c.must("list")
	assert.Contains(t, list, "v1")
	assert.NotContains(t, list, "v2")
	assert.NotContains(t, list, "extra")
	assert.Contains(t, c.must("highlight", "list"), "survives")

	assert.Contains(t, c.must("backup", "list", "--dir", backups), "notes_")
}

func TestCLI_Render(t *testing.T) {
	c := newCLI(t)
	c.must("new", "--title", "Alpha", "--content", "first")
	c.must("new", "--title", "Beta", "--content", "second")

	target := filepath.Join(t.TempDir(), "notes.md")
	c.must("render", target, "--pretty", "--match", "a*")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Alpha")
	assert.NotContains(t, string(data), "Beta")
}

func TestCLI_SQLiteAdapter(t *testing.T) {
	c := newCLI(t, "--adapter", "sqlite")
	id := strings.TrimSpace(c.must("new", "--title", "In a database"))

	assert.Contains(t, c.must("show", id), "In a database")
	assert.FileExists(t, filepath.Join(c.dir, "notekeep.db"))
}

func TestCLI_ConfigFile(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.config, []byte(`adapter = "sqlite"`), 0644))

	out := c.must("state")
	var report []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report, 2)
	assert.Equal(t, "service", report[0].Type)
	assert.Equal(t, "sqlite", report[1].Type)

	require.NoError(t, os.WriteFile(c.config, []byte(`adapter = "tape"`), 0644))
	_, err := c.run("list")
	assert.ErrorContains(t, err, "unknown adapter")
}

func TestCLI_State(t *testing.T) {
	c := newCLI(t)
	c.must("new")

	out := c.must("state", "--format", "yaml")
	assert.Contains(t, out, "type: service")
	assert.Contains(t, out, "type: fs")
}

func TestCLI_Init(t *testing.T) {
	c := newCLI(t)
	out := c.must("init")
	assert.Contains(t, out, c.dir)
	assert.FileExists(t, filepath.Join(c.dir, "notes.json"))
	assert.FileExists(t, filepath.Join(c.dir, "highlights.json"))
}

func TestCLI_Version(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.must("version"), "notekeep version")
}

func TestCLI_WatchRequiresFS(t *testing.T) {
	c := newCLI(t, "--adapter", "memory")
	_, err := c.run("watch")
	assert.ErrorIs(t, err, core.ErrNotWatchable)
}
