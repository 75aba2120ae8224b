package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/core"
)

func titles(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestFindNotes(t *testing.T) {
	svc, _ := newService(t)
	for _, title := range []string{"Meeting Monday", "meeting friday", "Groceries", "work/plan", "work/archive/old"} {
		id := svc.CreateNote()
		svc.UpdateNote(id, core.NotePatch{Title: core.Ptr(title)})
	}

	got, err := svc.FindNotes("meeting*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Meeting Monday", "meeting friday"}, titles(got))

	got, err = svc.FindNotes("work/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"work/plan"}, titles(got))

	got, err = svc.FindNotes("work/**")
	require.NoError(t, err)
	assert.Equal(t, []string{"work/plan", "work/archive/old"}, titles(got))

	got, err = svc.FindNotes("{groceries,nothing}")
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries"}, titles(got))

	got, err = svc.FindNotes("")
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestFindNotes_BadPattern(t *testing.T) {
	svc, _ := newService(t)
	svc.CreateNote()

	_, err := svc.FindNotes("[unclosed")
	assert.Error(t, err)
}
