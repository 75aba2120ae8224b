// Package search finds highlights matching a query.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/notekeep/pkg/core"
)

// Searcher ranks highlights against a query and annotates the matches.
type Searcher interface {
	Search(ctx context.Context, query string, highlights []core.Highlight) ([]core.Highlight, error)
}

// Substring is a case-insensitive substring Searcher.
// Matches closer to the start of the text rank first; ties keep input order.
type Substring struct {
	// Annotate builds the AIInfo of a match. Defaults to DefaultAnnotation.
	Annotate func(h core.Highlight, query string) string
}

var _ Searcher = Substring{}

// DefaultAnnotation explains why a highlight matched.
func DefaultAnnotation(h core.Highlight, query string) string {
	return fmt.Sprintf("This highlighted text relates to %q because it contains the term in %q.", query, h.Text)
}

// Search implements Searcher. An empty query matches nothing.
func (s Substring) Search(ctx context.Context, query string, highlights []core.Highlight) ([]core.Highlight, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	annotate := s.Annotate
	if annotate == nil {
		annotate = DefaultAnnotation
	}

	type hit struct {
		h   core.Highlight
		pos int
	}
	var hits []hit
	for _, h := range highlights {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pos := strings.Index(strings.ToLower(h.Text), q)
		if pos < 0 {
			continue
		}
		h.AIInfo = annotate(h, query)
		hits = append(hits, hit{h: h, pos: pos})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].pos < hits[j].pos
	})

	out := make([]core.Highlight, len(hits))
	for i, x := range hits {
		out[i] = x.h
	}
	return out, nil
}
