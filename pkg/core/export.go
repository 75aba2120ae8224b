package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/notekeep/pkg/codec"
)

// ExportDocument is the backup file layout.
type ExportDocument struct {
	Notes      []Note          `json:"notes" yaml:"notes"`
	Highlights []NoteHighlight `json:"highlights" yaml:"highlights"`
	ExportDate time.Time       `json:"exportDate" yaml:"exportDate"`
}

// importDocument distinguishes a missing (or null) collection from an empty one.
type importDocument struct {
	Notes      *[]Note          `json:"notes" yaml:"notes"`
	Highlights *[]NoteHighlight `json:"highlights" yaml:"highlights"`
}

// ExportFileName returns the default backup file name for a given day.
func ExportFileName(t time.Time, f codec.Format) string {
	return "notes_backup_" + t.Format(time.DateOnly) + f.Ext()
}

// Snapshot returns the full state as an export document stamped with the current time.
func (s *Service) Snapshot() ExportDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]Note, len(s.notes))
	for i, n := range s.notes {
		notes[i] = n.clone()
	}
	return ExportDocument{
		Notes:      notes,
		Highlights: cloneGroups(s.highlights),
		ExportDate: s.now(),
	}
}

// ExportData writes the full state to w.
func (s *Service) ExportData(w io.Writer, f codec.Format) error {
	if err := codec.Encode(w, f, s.Snapshot()); err != nil {
		s.logger.Error("error exporting data", "error", err)
		return fmt.Errorf("failed to export data: %w", err)
	}
	return nil
}

// ImportData replaces the full state with the document read from r and
// persists it before returning. Documents lacking notes or highlights are
// rejected with ErrInvalidBackup and leave the state untouched.
func (s *Service) ImportData(ctx context.Context, r io.Reader, f codec.Format) error {
	var doc importDocument
	if err := codec.Decode(r, f, &doc); err != nil {
		s.logger.Error("error importing data", "error", err)
		return fmt.Errorf("failed to import data: %w", err)
	}
	if doc.Notes == nil || doc.Highlights == nil {
		return ErrInvalidBackup
	}
	return s.Replace(ctx, *doc.Notes, *doc.Highlights)
}

// Replace swaps in new collections and writes both synchronously.
// Storage errors are returned; the in-memory state is replaced regardless.
func (s *Service) Replace(ctx context.Context, notes []Note, groups []NoteHighlight) error {
	notesRaw, err := json.Marshal(nonNil(notes))
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	groups = pruneEmpty(append([]NoteHighlight(nil), groups...))
	groupsRaw, err := json.Marshal(nonNil(groups))
	if err != nil {
		return fmt.Errorf("failed to encode highlights: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.notes = append([]Note(nil), notes...)
	s.highlights = groups
	if s.noteIndex(s.current) < 0 {
		s.current = ""
	}

	s.seq[NotesKey]++
	errNotes := s.store(ctx, NotesKey, s.seq[NotesKey], notesRaw, false)
	s.seq[HighlightsKey]++
	errGroups := s.store(ctx, HighlightsKey, s.seq[HighlightsKey], groupsRaw, false)

	return errors.Join(errNotes, errGroups)
}
