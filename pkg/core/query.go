package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindNotes returns the notes whose title matches a glob pattern
// (e.g. "meeting*", "{todo,done}/**"). Matching is case-insensitive.
// An empty pattern matches every note.
func (s *Service) FindNotes(pattern string) ([]Note, error) {
	if pattern == "" {
		return s.Notes(), nil
	}
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Note
	for _, n := range s.notes {
		ok, err := doublestar.Match(pattern, strings.ToLower(n.Title))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n.clone())
		}
	}
	return out, nil
}
