package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/types"
)

func docWith(text string) document.Document {
	return document.New(document.NewParagraph(document.NewText(text)))
}

func TestCommit_OnlyWhenDifferent(t *testing.T) {
	m := NewManager()

	assert.False(t, m.Commit(document.Empty(), types.Selection{}))
	assert.Equal(t, 1, m.Len())

	assert.True(t, m.Commit(docWith("a"), types.Selection{}))
	// Same structure with fresh block IDs is not a change.
	assert.False(t, m.Commit(docWith("a"), types.Selection{}))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m.Index())
}

func TestHistoryBound(t *testing.T) {
	m := NewManager()
	const n = 80
	for i := 1; i <= n; i++ {
		require.True(t, m.Commit(docWith(fmt.Sprintf("edit %d", i)), types.Selection{}))
	}
	assert.Equal(t, Capacity, m.Len())

	var last Snapshot
	for i := 0; i < Capacity; i++ {
		if s, ok := m.Undo(); ok {
			last = s
		}
	}
	assert.Equal(t, fmt.Sprintf("edit %d", n-Capacity+1), last.Document.Blocks[0].PlainText())
	assert.False(t, m.CanUndo())

	_, ok := m.Undo()
	assert.False(t, ok)
}

func TestUndoRedo_PointerMoves(t *testing.T) {
	m := NewManager()
	m.Commit(docWith("one"), types.Selection{})
	m.Commit(docWith("two"), types.Selection{})

	s, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "one", s.Document.Blocks[0].PlainText())
	assert.Equal(t, 3, m.Len())
	assert.True(t, m.CanRedo())

	s, ok = m.Redo()
	require.True(t, ok)
	assert.Equal(t, "two", s.Document.Blocks[0].PlainText())

	_, ok = m.Redo()
	assert.False(t, ok)
}

func TestCommit_AfterUndoDropsRedo(t *testing.T) {
	m := NewManager()
	m.Commit(docWith("one"), types.Selection{})
	m.Commit(docWith("two"), types.Selection{})
	m.Undo()

	assert.True(t, m.Commit(docWith("branch"), types.Selection{}))
	assert.Equal(t, 3, m.Len())
	assert.False(t, m.CanRedo())

	s, _ := m.Undo()
	assert.Equal(t, "one", s.Document.Blocks[0].PlainText())
}

func TestComposition_CoalescesIntoOneSnapshot(t *testing.T) {
	m := NewManager()
	m.BeginComposition()
	assert.Equal(t, Composing, m.State())

	for _, text := range []string{"k", "ka", "か"} {
		assert.False(t, m.Commit(docWith(text), types.Selection{}))
	}
	_, ok := m.Undo()
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())

	assert.True(t, m.EndComposition(docWith("か"), types.Selection{}))
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 2, m.Len())
	assert.False(t, m.EndComposition(docWith("x"), types.Selection{}))
}

func TestObserve_State(t *testing.T) {
	m := NewManager()
	m.Observe()
	assert.Equal(t, Recording, m.State())
	m.Commit(docWith("typed"), types.Selection{})
	assert.Equal(t, Idle, m.State())
}

func TestSnapshots_AreIsolated(t *testing.T) {
	m := NewManager()
	doc := docWith("original")
	m.Commit(doc, types.Selection{})

	doc.Blocks[0].Inlines[0].Value = "mutated"
	assert.Equal(t, "original", m.Current().Document.Blocks[0].PlainText())

	cur := m.Current()
	cur.Document.Blocks[0].Inlines[0].Value = "also mutated"
	assert.Equal(t, "original", m.Current().Document.Blocks[0].PlainText())
}

func TestReset(t *testing.T) {
	m := NewManager()
	m.Commit(docWith("a"), types.Selection{})
	m.Reset(docWith("loaded"), types.Selection{})
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.CanUndo())
	assert.Equal(t, "loaded", m.Current().Document.Blocks[0].PlainText())
}
