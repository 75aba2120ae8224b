// Package render turns notes into standalone documents.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/core"
)

// Renderer writes notes to a document and returns where it landed.
type Renderer interface {
	Render(ctx context.Context, notes []core.Note) (string, error)
}

// FileName returns the default document name for an export made at t.
func FileName(t time.Time) string {
	return "notes_export_" + t.Format(time.DateOnly) + ".md"
}

// frontmatter is the per-note metadata block.
type frontmatter struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	CreatedAt  time.Time `yaml:"createdAt"`
	UpdatedAt  time.Time `yaml:"updatedAt"`
	HasDrawing bool      `yaml:"hasDrawing"`
	Strokes    int       `yaml:"strokes,omitempty"`
}

// Markdown renders notes as one Markdown file. Each note gets a YAML
// frontmatter block followed by its content.
type Markdown struct {
	// Dir is where the file is written. Ignored when Path is set.
	Dir string
	// Path overrides the generated file name.
	Path string
	// Pretty adds a document heading and a heading per note.
	Pretty bool
	Now    func() time.Time
}

var _ Renderer = (*Markdown)(nil)

// Render writes the document and returns its path.
func (m *Markdown) Render(ctx context.Context, notes []core.Note) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := m.Write(&buf, notes); err != nil {
		return "", err
	}

	path := m.Path
	if path == "" {
		path = filepath.Join(m.Dir, FileName(m.now()))
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := fs.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Write renders notes into buf without touching the filesystem.
func (m *Markdown) Write(buf *bytes.Buffer, notes []core.Note) error {
	if m.Pretty {
		fmt.Fprintf(buf, "# Notes\n\n_Exported %s_\n\n", m.now().Format(time.DateOnly))
	}

	for i, n := range notes {
		if i > 0 {
			buf.WriteString("\n")
		}
		meta, err := yaml.Marshal(frontmatter{
			ID:         n.ID,
			Title:      n.Title,
			CreatedAt:  n.CreatedAt,
			UpdatedAt:  n.UpdatedAt,
			HasDrawing: n.HasDrawing,
			Strokes:    len(n.Paths),
		})
		if err != nil {
			return fmt.Errorf("failed to encode frontmatter for %s: %w", n.ID, err)
		}
		buf.WriteString("---\n")
		buf.Write(meta)
		buf.WriteString("---\n\n")

		if m.Pretty {
			title := n.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Fprintf(buf, "## %s\n\n", title)
		}
		if content := strings.TrimRight(n.Content, "\n"); content != "" {
			buf.WriteString(content)
			buf.WriteString("\n")
		}
	}
	return nil
}

func (m *Markdown) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
