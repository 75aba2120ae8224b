// Highlights and storage events.
package core

// Highlight is a user-marked span of note text, optionally annotated.
type Highlight struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Color     string `json:"color" yaml:"color"`
	AIInfo    string `json:"aiInfo,omitempty" yaml:"aiInfo,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
}

// HighlightPatch carries a partial update for a Highlight.
type HighlightPatch struct {
	Text      *string
	Color     *string
	AIInfo    *string
	SourceURL *string
}

func (p HighlightPatch) apply(h *Highlight) {
	if p.Text != nil {
		h.Text = *p.Text
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.AIInfo != nil {
		h.AIInfo = *p.AIInfo
	}
	if p.SourceURL != nil {
		h.SourceURL = *p.SourceURL
	}
}

// NoteHighlight groups the highlights of a single note, in insertion order.
// A group is never stored empty.
type NoteHighlight struct {
	NoteID     string      `json:"noteId" yaml:"noteId"`
	Highlights []Highlight `json:"highlights" yaml:"highlights"`
}

func (g NoteHighlight) clone() NoteHighlight {
	g.Highlights = append([]Highlight(nil), g.Highlights...)
	return g
}

// EventType represents the type of change observed in storage.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a storage key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
