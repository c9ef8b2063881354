package find

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prose/internal/document"
)

type fakeEditor struct {
	doc      document.Document
	caret    document.Point
	modified int
	commits  int
}

func (f *fakeEditor) LiveDocument() *document.Document { return &f.doc }
func (f *fakeEditor) CaretPoint() document.Point       { return f.caret }
func (f *fakeEditor) SetCaretPoint(p document.Point)   { f.caret = f.doc.ClampPoint(p) }
func (f *fakeEditor) MarkModified(string)              { f.modified++ }
func (f *fakeEditor) CommitHistory()                   { f.commits++ }

func newFixture() (*fakeEditor, *Manager) {
	ed := &fakeEditor{doc: document.New(
		document.NewParagraph(document.NewText("ação e "), document.NewBold(document.NewText("ação"))),
		document.NewImage("https://x/i.png", ""),
		document.NewParagraph(document.NewText("outra ação")),
	)}
	return ed, NewManager(ed)
}

func TestHighlightMatches_GraphemeOffsets(t *testing.T) {
	_, m := newFixture()
	require.NoError(t, m.HighlightMatches("ação"))
	assert.Equal(t, []Match{
		{Block: 0, From: 0, To: 4},
		{Block: 0, From: 7, To: 11},
		{Block: 2, From: 6, To: 10},
	}, m.Matches())

	assert.Error(t, m.HighlightMatches("("))
	assert.False(t, m.HasHighlights())
}

func TestFindNext_Wraps(t *testing.T) {
	ed, m := newFixture()
	require.NoError(t, m.HighlightMatches("ação"))

	match, found, wrapped := m.FindNext(true)
	require.True(t, found)
	assert.False(t, wrapped)
	assert.Equal(t, document.Point{Block: 0, Offset: 7}, ed.caret)
	assert.Equal(t, 7, match.From)

	m.FindNext(true)
	assert.Equal(t, document.Point{Block: 2, Offset: 6}, ed.caret)

	_, _, wrapped = m.FindNext(true)
	assert.True(t, wrapped)
	assert.Equal(t, document.Point{Block: 0, Offset: 0}, ed.caret)

	_, _, wrapped = m.FindNext(false)
	assert.True(t, wrapped)
	assert.Equal(t, document.Point{Block: 2, Offset: 6}, ed.caret)
}

func TestMatches_RefreshAfterInvalidate(t *testing.T) {
	ed, m := newFixture()
	require.NoError(t, m.HighlightMatches("outra"))
	require.Len(t, m.Matches(), 1)

	ed.doc.InsertText(document.Point{Block: 0}, "outra ", nil)
	m.Invalidate()
	assert.Len(t, m.Matches(), 2)
}

func TestReplace_KeepsFormatting(t *testing.T) {
	ed, m := newFixture()

	n, err := m.Replace("ação", "acto", false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, `<p>acto e <strong>acto</strong></p><img src="https://x/i.png" alt=""><p>outra ação</p>`,
		document.Serialize(ed.doc))
	assert.Equal(t, 1, ed.commits)

	n, err = m.Replace("a", "A", true)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = m.Replace("", "x", true)
	assert.Error(t, err)
}

func TestParseSubstituteCommand(t *testing.T) {
	pattern, repl, global, err := ParseSubstituteCommand("/foo/bar/g")
	require.NoError(t, err)
	assert.Equal(t, "foo", pattern)
	assert.Equal(t, "bar", repl)
	assert.True(t, global)

	_, _, global, err = ParseSubstituteCommand("/foo/bar")
	require.NoError(t, err)
	assert.False(t, global)

	_, _, _, err = ParseSubstituteCommand("foo/bar")
	assert.Error(t, err)
	_, _, _, err = ParseSubstituteCommand("//bar/")
	assert.Error(t, err)
}
