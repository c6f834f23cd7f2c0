package workspace

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestManagerCreatesStorePerSession(t *testing.T) {
	m := NewManager(8, time.Minute)

	a := m.Get("sess-a")
	b := m.Get("sess-b")
	require.NotSame(t, a, b)
	require.Same(t, a, m.Get("sess-a"))
	require.Equal(t, 2, m.Len())
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	m := NewManager(8, time.Minute)

	a := m.Get("sess-a")
	a.ReplaceProject(Project{ID: uuid.New()}, []File{{Path: "a.js", Content: "a"}})

	b := m.Get("sess-b")
	require.Equal(t, 0, b.FileCount())
	require.Equal(t, 1, a.FileCount())
}

func TestManagerDropClosesSubscribers(t *testing.T) {
	m := NewManager(8, time.Minute)

	s := m.Get("sess-a")
	ch, _ := s.Subscribe()

	m.Drop("sess-a")

	_, open := <-ch
	require.False(t, open)
	_, ok := m.Peek("sess-a")
	require.False(t, ok)
}

func TestManagerEvictsOverCapacity(t *testing.T) {
	m := NewManager(2, time.Minute)

	oldest := m.Get("sess-1")
	ch, _ := oldest.Subscribe()
	m.Get("sess-2")
	m.Get("sess-3")

	require.Equal(t, 2, m.Len())
	_, open := <-ch
	require.False(t, open)
}
