// Package text implements raw text input: typing, line breaks and
// deletion at the caret or over the selection.
package text

import (
	"strings"
	"unicode"

	"github.com/bethropolis/prose/internal/core/history"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
)

// Operations handles text insertion/deletion
type Operations struct {
	editor EditorInterface
	last   editKind
}

type editKind int

const (
	editNone editKind = iota
	editInsert
	editDelete
)

// EditorInterface defines editor methods needed
type EditorInterface interface {
	LiveDocument() *document.Document
	CaretPoint() document.Point
	SetCaretPoint(p document.Point)
	SelectionRange() (start, end document.Point, ok bool)
	ClearSelection()
	// TakePendingMarks returns and clears the marks toggled on the caret.
	TakePendingMarks() *document.Marks
	GetHistoryManager() *history.Manager
	CommitHistory()
	MarkModified(source string)
}

// NewOperations creates a text operations manager
func NewOperations(editor EditorInterface) *Operations {
	return &Operations{
		editor: editor,
	}
}

// InsertText types text at the caret, replacing the selection. Typing is
// coalesced in history: a burst of word characters becomes one snapshot,
// committed when a space or punctuation is typed or the burst is broken.
func (o *Operations) InsertText(text string) {
	if text == "" {
		return
	}
	o.begin(editInsert)
	o.deleteSelection()

	doc := o.editor.LiveDocument()
	p := doc.InsertText(o.editor.CaretPoint(), text, o.editor.TakePendingMarks())
	o.editor.SetCaretPoint(p)
	o.editor.MarkModified("input")

	if strings.ContainsFunc(text, wordBoundary) {
		o.editor.CommitHistory()
		o.last = editNone
		return
	}
	o.editor.GetHistoryManager().Observe()
}

// InsertRune inserts a single rune at cursor
func (o *Operations) InsertRune(r rune) {
	o.InsertText(string(r))
}

// InsertNewLine splits the block at the caret (Enter).
func (o *Operations) InsertNewLine() {
	o.begin(editNone)
	o.deleteSelection()
	doc := o.editor.LiveDocument()
	o.editor.SetCaretPoint(doc.SplitBlock(o.editor.CaretPoint()))
	o.editor.MarkModified("input")
	o.editor.CommitHistory()
}

// InsertLineBreak adds a line break inside the block (Shift+Enter).
func (o *Operations) InsertLineBreak() {
	o.InsertText("\n")
}

// DeleteBackward deletes character before cursor
func (o *Operations) DeleteBackward() {
	o.delete(func(doc *document.Document, p document.Point) document.Point {
		return doc.DeleteBackward(p)
	})
}

// DeleteForward deletes character after cursor
func (o *Operations) DeleteForward() {
	o.delete(func(doc *document.Document, p document.Point) document.Point {
		return doc.DeleteForward(p)
	})
}

func (o *Operations) delete(fn func(*document.Document, document.Point) document.Point) {
	o.begin(editDelete)
	if o.deleteSelection() {
		o.editor.MarkModified("input")
		o.editor.CommitHistory()
		o.last = editNone
		return
	}
	doc := o.editor.LiveDocument()
	before := doc.Clone()
	p := fn(doc, o.editor.CaretPoint())
	o.editor.SetCaretPoint(p)
	if document.Equal(before, *doc) {
		return
	}
	o.editor.MarkModified("input")
	o.editor.GetHistoryManager().Observe()
}

// DeleteSelection removes the selected content. It reports false when the
// selection is collapsed.
func (o *Operations) DeleteSelection() bool {
	o.begin(editNone)
	if !o.deleteSelection() {
		return false
	}
	o.editor.MarkModified("input")
	o.editor.CommitHistory()
	return true
}

func (o *Operations) deleteSelection() bool {
	start, end, ok := o.editor.SelectionRange()
	o.editor.ClearSelection()
	if !ok {
		return false
	}
	p := o.editor.LiveDocument().DeleteRange(start, end)
	o.editor.SetCaretPoint(p)
	logger.DebugTagf("core", "deleted selection %v-%v", start, end)
	return true
}

// begin commits an open typing burst when the kind of edit changes.
func (o *Operations) begin(kind editKind) {
	if o.last != kind && o.editor.GetHistoryManager().State() == history.Recording {
		o.editor.CommitHistory()
	}
	o.last = kind
}

// Break ends the current burst; the editor calls it before caret motions
// and commands.
func (o *Operations) Break() {
	o.last = editNone
	if o.editor.GetHistoryManager().State() == history.Recording {
		o.editor.CommitHistory()
	}
}

func wordBoundary(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
