package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/core"
)

var corpus = []core.Highlight{
	{ID: "1", Text: "The cell membrane", Color: "yellow"},
	{ID: "2", Text: "Cell division", Color: "green", SourceURL: "https://example.com/learn-more"},
	{ID: "3", Text: "Photosynthesis", Color: "pink"},
	{ID: "4", Text: "a CELL wall", Color: "blue"},
}

func TestSubstring_RanksByPosition(t *testing.T) {
	got, err := Substring{}.Search(context.Background(), "cell", corpus)
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, h := range got {
		ids[i] = h.ID
	}
	assert.Equal(t, []string{"2", "4", "1"}, ids)

	for _, h := range got {
		assert.Contains(t, h.AIInfo, `"cell"`)
	}
	assert.Equal(t, "https://example.com/learn-more", got[0].SourceURL, "stored source is kept")
}

func TestSubstring_DoesNotMutateInput(t *testing.T) {
	_, err := Substring{}.Search(context.Background(), "cell", corpus)
	require.NoError(t, err)
	for _, h := range corpus {
		assert.Empty(t, h.AIInfo)
	}
}

func TestSubstring_EmptyQuery(t *testing.T) {
	got, err := Substring{}.Search(context.Background(), "   ", corpus)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSubstring_NoMatch(t *testing.T) {
	got, err := Substring{}.Search(context.Background(), "mitochondria", corpus)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSubstring_CustomAnnotation(t *testing.T) {
	s := Substring{Annotate: func(h core.Highlight, q string) string {
		return strings.ToUpper(q) + ":" + h.ID
	}}
	got, err := s.Search(context.Background(), "photo", corpus)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PHOTO:3", got[0].AIInfo)
}

func TestSubstring_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Substring{}.Search(ctx, "cell", corpus)
	assert.ErrorIs(t, err, context.Canceled)
}
