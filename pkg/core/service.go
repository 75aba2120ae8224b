package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"
)

// DefaultAutoSaveInterval matches the editor's fixed auto-save timer.
const DefaultAutoSaveInterval = 2 * time.Second

// Service holds the notes and highlight groups in memory and writes them
// through to a KVStore on every mutation.
//
// All methods are safe for concurrent use. Mutations are serialized by a
// single lock; persistence happens outside of it.
type Service struct {
	mu         sync.RWMutex
	kv         KVStore
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	syncWrites bool

	notes      []Note
	highlights []NoteHighlight
	current    string
	closed     bool

	// seq is the last sequence issued per key (guarded by mu).
	seq map[string]uint64

	writeMu sync.Mutex
	written map[string]uint64 // last sequence stored per key
	settled map[string]uint64 // last sequence finished per key, stored or failed
	lastRaw map[string][]byte // last blob stored per key, nil after a remove

	pendingMu sync.Mutex
	pending   int
	waiters   []chan struct{}

	autoSaveStop     context.CancelFunc
	autoSaveInterval time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for persistence failures.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSyncWrites makes every mutation wait for its storage write.
func WithSyncWrites(enabled bool) ServiceOption {
	return func(s *Service) {
		s.syncWrites = enabled
	}
}

// WithClock overrides the time source used for note timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the id generator used for notes and highlights.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates a new Service on top of kv. Call Load to populate it.
func NewService(kv KVStore, opts ...ServiceOption) *Service {
	s := &Service{
		kv:      kv,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
		seq:     make(map[string]uint64),
		written: make(map[string]uint64),
		settled: make(map[string]uint64),
		lastRaw: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Notes ---

// CreateNote inserts an empty note, makes it the current note and returns its id.
func (s *Service) CreateNote() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := Note{
		ID:        s.newID(),
		Paths:     []PathData{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes = append(s.notes, n)
	s.current = n.ID
	s.persistNotesLocked()

	return n.ID
}

// GetNote returns a copy of the note with the given id.
func (s *Service) GetNote(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.noteIndex(id); i >= 0 {
		return s.notes[i].clone(), true
	}
	return Note{}, false
}

// Notes returns a snapshot of all notes in creation order.
func (s *Service) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.clone()
	}
	return out
}

// UpdateNote merges patch into the note with the given id.
// It reports false, and does nothing, when the note does not exist.
// UpdatedAt only changes when the patch carries it.
func (s *Service) UpdateNote(id string, patch NotePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return false
	}
	patch.apply(&s.notes[i])
	s.persistNotesLocked()
	return true
}

// DeleteNote removes a note together with its highlight group.
func (s *Service) DeleteNote(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return false
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	s.persistNotesLocked()

	if g := s.groupIndex(id); g >= 0 {
		s.highlights = append(s.highlights[:g], s.highlights[g+1:]...)
		s.persistHighlightsLocked()
	}
	if s.current == id {
		s.current = ""
	}
	return true
}

// ClearAllNotes empties both collections and removes them from storage.
func (s *Service) ClearAllNotes() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = nil
	s.highlights = nil
	s.current = ""
	s.removeLocked(NotesKey)
	s.removeLocked(HighlightsKey)
}

// CurrentNote returns the id of the note highlights are added to by default.
func (s *Service) CurrentNote() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrentNote selects the default highlight target. Unknown ids are rejected.
func (s *Service) SetCurrentNote(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.noteIndex(id) < 0 {
		return false
	}
	s.current = id
	return true
}

// --- Highlights ---

// AddHighlight appends h to the group of noteID, or of the current note when
// noteID is empty. Without a target it does nothing and reports false.
// A highlight without an id gets a fresh one.
func (s *Service) AddHighlight(h Highlight, noteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := noteID
	if target == "" {
		target = s.current
	}
	if target == "" {
		return false
	}
	if h.ID == "" {
		h.ID = s.newID()
	}

	if g := s.groupIndex(target); g >= 0 {
		s.highlights[g].Highlights = append(s.highlights[g].Highlights, h)
	} else {
		s.highlights = append(s.highlights, NoteHighlight{
			NoteID:     target,
			Highlights: []Highlight{h},
		})
	}
	s.persistHighlightsLocked()
	return true
}

// UpdateHighlight merges patch into every highlight with the given id,
// wherever it lives. Ids are not unique across notes.
func (s *Service) UpdateHighlight(id string, patch HighlightPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for g := range s.highlights {
		for h := range s.highlights[g].Highlights {
			if s.highlights[g].Highlights[h].ID == id {
				patch.apply(&s.highlights[g].Highlights[h])
				found = true
			}
		}
	}
	if !found {
		return false
	}
	s.persistHighlightsLocked()
	return true
}

// DeleteHighlight removes every highlight with the given id.
// Groups left empty are pruned.
func (s *Service) DeleteHighlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for g := range s.highlights {
		before := len(s.highlights[g].Highlights)
		s.highlights[g].Highlights = slices.DeleteFunc(s.highlights[g].Highlights, func(h Highlight) bool {
			return h.ID == id
		})
		found = found || len(s.highlights[g].Highlights) < before
	}
	if !found {
		return false
	}
	s.highlights = pruneEmpty(s.highlights)
	s.persistHighlightsLocked()
	return true
}

// Highlights returns a snapshot of all highlight groups.
func (s *Service) Highlights() []NoteHighlight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGroups(s.highlights)
}

// HighlightsFor returns the highlights of one note in insertion order.
func (s *Service) HighlightsFor(noteID string) []Highlight {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if g := s.groupIndex(noteID); g >= 0 {
		return append([]Highlight(nil), s.highlights[g].Highlights...)
	}
	return nil
}

// AllHighlights flattens every group, keeping group and insertion order.
func (s *Service) AllHighlights() []Highlight {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Highlight
	for _, g := range s.highlights {
		out = append(out, g.Highlights...)
	}
	return out
}

// --- Persistence ---

// Load reads both collections from storage. Missing keys yield empty
// collections. Unreadable or corrupt blobs are logged, leave the matching
// collection empty, and are reported in the returned error.
func (s *Service) Load(ctx context.Context) error {
	notes, errNotes := s.readNotes(ctx)
	groups, errGroups := s.readHighlights(ctx)

	s.mu.Lock()
	s.notes = notes
	s.highlights = groups
	if s.noteIndex(s.current) < 0 {
		s.current = ""
	}
	s.mu.Unlock()

	return errors.Join(errNotes, errGroups)
}

// Reload re-reads a single key after it changed outside of this Service.
// Blobs identical to the last one this Service wrote are ignored, and so is
// the read when this Service changed or is still writing the key meanwhile.
func (s *Service) Reload(ctx context.Context, key string) error {
	if key != NotesKey && key != HighlightsKey {
		return nil
	}

	s.mu.RLock()
	seq := s.seq[key]
	s.mu.RUnlock()

	raw, err := s.kv.Read(ctx, key)
	if err != nil {
		s.logger.Error("error reloading data", "key", key, "error", err)
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	var (
		notes  []Note
		groups []NoteHighlight
	)
	switch key {
	case NotesKey:
		notes, err = decodeNotes(raw)
	case HighlightsKey:
		groups, err = decodeHighlights(raw)
	}
	if err != nil {
		s.logger.Error("error reloading data", "key", key, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq[key] != seq {
		s.logger.Debug("skipping reload, changed locally during read", "key", key)
		return nil
	}

	s.writeMu.Lock()
	own, known := s.lastRaw[key]
	inFlight := s.settled[key] < seq
	s.writeMu.Unlock()
	if inFlight {
		s.logger.Debug("skipping reload, local write in flight", "key", key)
		return nil
	}
	if known && string(own) == string(raw) {
		return nil
	}

	switch key {
	case NotesKey:
		s.notes = notes
		if s.noteIndex(s.current) < 0 {
			s.current = ""
		}
	case HighlightsKey:
		s.highlights = groups
	}

	s.logger.Debug("reloaded after external change", "key", key)
	return nil
}

// Save re-persists both collections unconditionally.
func (s *Service) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistNotesLocked()
	s.persistHighlightsLocked()
}

// Flush waits for every storage write started so far.
func (s *Service) Flush(ctx context.Context) error {
	s.pendingMu.Lock()
	if s.pending == 0 {
		s.pendingMu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	s.waiters = append(s.waiters, ch)
	s.pendingMu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops auto-save, flushes pending writes and closes the store
// if it implements io.Closer. Mutations after Close are kept in memory only.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	if s.autoSaveStop != nil {
		s.autoSaveStop()
		s.autoSaveStop = nil
	}
	s.mu.Unlock()

	if err := s.Flush(ctx); err != nil {
		return err
	}
	if c, ok := s.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// StartAutoSave re-persists the full state every interval until ctx is
// cancelled or the Service is closed. Starting again replaces the previous timer.
func (s *Service) StartAutoSave(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	if s.autoSaveStop != nil {
		s.autoSaveStop()
	}
	s.autoSaveStop = cancel
	s.autoSaveInterval = interval
	s.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.Save()
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("auto-save panic", "error", err)
	}))
}

// Watch reloads keys changed outside of this Service until ctx is cancelled.
// It requires a store implementing Watchable.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.kv.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	upstream, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, 16)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-upstream:
				if !ok {
					return nil
				}
				_ = s.Reload(ctx, e.Key)
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return out, nil
}

func (s *Service) persistNotesLocked() {
	s.persistLocked(NotesKey, nonNil(s.notes))
}

func (s *Service) persistHighlightsLocked() {
	s.persistLocked(HighlightsKey, nonNil(s.highlights))
}

// persistLocked serializes v under the lock and stores it asynchronously,
// unless sync writes are enabled.
func (s *Service) persistLocked(key string, v any) {
	if s.closed {
		s.logger.Debug("store closed, skipping write", "key", key)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("error encoding data", "key", key, "error", err)
		return
	}
	s.dispatchLocked(key, data, false)
}

func (s *Service) removeLocked(key string) {
	if s.closed {
		return
	}
	s.dispatchLocked(key, nil, true)
}

func (s *Service) dispatchLocked(key string, data []byte, remove bool) {
	s.seq[key]++
	seq := s.seq[key]

	if s.syncWrites {
		_ = s.store(context.Background(), key, seq, data, remove)
		return
	}

	s.beginWrite()
	lifecycle.Go(context.Background(), func(ctx context.Context) error {
		defer s.endWrite()
		return s.store(ctx, key, seq, data, remove)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("storage write panic", "key", key, "error", err)
	}))
}

// store applies a write unless a newer one for the same key already landed.
func (s *Service) store(ctx context.Context, key string, seq uint64, data []byte, remove bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if seq <= s.written[key] {
		s.logger.Debug("dropping stale write", "key", key, "seq", seq)
		return nil
	}

	s.settled[key] = max(s.settled[key], seq)

	var err error
	if remove {
		err = s.kv.Remove(ctx, key)
	} else {
		err = s.kv.Write(ctx, key, data)
	}
	if err != nil {
		s.logger.Error("error saving data", "key", key, "error", err)
		return err
	}

	s.written[key] = seq
	if remove {
		delete(s.lastRaw, key)
	} else {
		s.lastRaw[key] = data
	}
	return nil
}

func (s *Service) beginWrite() {
	s.pendingMu.Lock()
	s.pending++
	s.pendingMu.Unlock()
}

func (s *Service) endWrite() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	s.pending--
	if s.pending == 0 {
		for _, ch := range s.waiters {
			close(ch)
		}
		s.waiters = nil
	}
}

func (s *Service) readNotes(ctx context.Context) ([]Note, error) {
	raw, err := s.kv.Read(ctx, NotesKey)
	if err != nil {
		s.logger.Error("error loading notes", "error", err)
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	notes, err := decodeNotes(raw)
	if err != nil {
		s.logger.Error("error loading notes", "error", err)
		return nil, err
	}
	return notes, nil
}

func (s *Service) readHighlights(ctx context.Context) ([]NoteHighlight, error) {
	raw, err := s.kv.Read(ctx, HighlightsKey)
	if err != nil {
		s.logger.Error("error loading highlights", "error", err)
		return nil, fmt.Errorf("failed to read highlights: %w", err)
	}
	groups, err := decodeHighlights(raw)
	if err != nil {
		s.logger.Error("error loading highlights", "error", err)
		return nil, err
	}
	return groups, nil
}

func decodeNotes(raw []byte) ([]Note, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var notes []Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse notes: %w", err)
	}
	return notes, nil
}

func decodeHighlights(raw []byte) ([]NoteHighlight, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var groups []NoteHighlight
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse highlights: %w", err)
	}
	return pruneEmpty(groups), nil
}

// --- Lookup helpers (callers hold mu) ---

func (s *Service) noteIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) groupIndex(noteID string) int {
	for i := range s.highlights {
		if s.highlights[i].NoteID == noteID {
			return i
		}
	}
	return -1
}

func cloneGroups(groups []NoteHighlight) []NoteHighlight {
	out := make([]NoteHighlight, len(groups))
	for i, g := range groups {
		out[i] = g.clone()
	}
	return out
}

func pruneEmpty(groups []NoteHighlight) []NoteHighlight {
	out := groups[:0]
	for _, g := range groups {
		if len(g.Highlights) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
