package core

import "time"

// PathData is one freehand stroke of a drawing.
// Strokes are never edited in place; a note's Paths are replaced wholesale.
type PathData struct {
	Path        string  `json:"path" yaml:"path"`
	Color       string  `json:"color" yaml:"color"`
	StrokeWidth float64 `json:"strokeWidth" yaml:"strokeWidth"`
}

// Note is the central entity of the domain.
// It is a user-authored text document with an optional freehand drawing.
type Note struct {
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Content          string     `json:"content" yaml:"content"`
	Paths            []PathData `json:"paths" yaml:"paths"`
	HasDrawing       bool       `json:"hasDrawing" yaml:"hasDrawing"`
	DrawingThumbnail string     `json:"drawingThumbnail,omitempty" yaml:"drawingThumbnail,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// clone returns a deep copy so callers never share the stroke slice with the store.
func (n Note) clone() Note {
	if n.Paths != nil {
		n.Paths = append(make([]PathData, 0, len(n.Paths)), n.Paths...)
	}
	return n
}

// NotePatch carries a partial update for a Note.
// Nil fields are left untouched.
type NotePatch struct {
	Title            *string
	Content          *string
	Paths            []PathData
	SetPaths         bool // Paths is applied (even when nil) only if set
	HasDrawing       *bool
	DrawingThumbnail *string
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

func (p NotePatch) apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.SetPaths {
		n.Paths = append([]PathData(nil), p.Paths...)
	}
	if p.HasDrawing != nil {
		n.HasDrawing = *p.HasDrawing
	}
	if p.DrawingThumbnail != nil {
		n.DrawingThumbnail = *p.DrawingThumbnail
	}
	if p.CreatedAt != nil {
		n.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		n.UpdatedAt = *p.UpdatedAt
	}
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
