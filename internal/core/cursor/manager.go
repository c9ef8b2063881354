// Package cursor resolves and moves the caret. Positions are kept as
// path+offset cursors and re-resolved against the live document, so a
// cursor left behind by a structural change snaps to the nearest valid
// text position.
package cursor

import (
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/types"
)

// Editor is the interface the cursor manager expects from the editor.
type Editor interface {
	LiveDocument() *document.Document
}

// Manager owns the caret position and the block viewport.
type Manager struct {
	editor      Editor
	position    types.Cursor
	viewportTop int // index of the first visible block
	viewHeight  int // visible blocks
	scrollOff   int
}

// NewManager creates a cursor manager with the caret at the document start.
func NewManager(editor Editor, scrollOff int) *Manager {
	return &Manager{
		editor:    editor,
		position:  types.Cursor{Path: []int{0}},
		scrollOff: max(scrollOff, 0),
	}
}

// Collapsed reports whether both ends of sel resolve to the identical
// (path, offset) pair.
func Collapsed(doc *document.Document, sel types.Selection) bool {
	return doc.Resolve(sel.Anchor).Equal(doc.Resolve(sel.Focus))
}

// Step moves p by delta characters, crossing block boundaries. Leaving the
// end of a block lands at the start of the next one.
func Step(doc *document.Document, p document.Point, delta int) document.Point {
	p = doc.ClampPoint(p)
	for ; delta > 0; delta-- {
		switch {
		case p.Offset < doc.BlockLen(p.Block):
			p.Offset++
		case p.Block < len(doc.Blocks)-1:
			p = document.Point{Block: p.Block + 1}
		default:
			return p
		}
	}
	for ; delta < 0; delta++ {
		switch {
		case p.Offset > 0:
			p.Offset--
		case p.Block > 0:
			p = document.Point{Block: p.Block - 1, Offset: doc.BlockLen(p.Block - 1)}
		default:
			return p
		}
	}
	return p
}

// SetViewSize updates the number of visible blocks.
func (m *Manager) SetViewSize(height int) {
	m.viewHeight = height
	m.ScrollToCursor()
}

// GetViewport returns the first visible block and the view height.
func (m *Manager) GetViewport() (int, int) {
	return m.viewportTop, m.viewHeight
}

// GetPosition returns the caret.
func (m *Manager) GetPosition() types.Cursor {
	return m.position.Clone()
}

// Point returns the caret as a flat point.
func (m *Manager) Point() document.Point {
	return m.editor.LiveDocument().PointOf(m.position)
}

// SetPosition moves the caret to the canonical form of c.
func (m *Manager) SetPosition(c types.Cursor) {
	m.position = m.editor.LiveDocument().Resolve(c)
	m.ScrollToCursor()
}

// SetPoint moves the caret to p.
func (m *Manager) SetPoint(p document.Point) {
	m.position = m.editor.LiveDocument().CursorAt(p)
	m.ScrollToCursor()
}

// Reresolve re-canonicalizes the caret after the document changed.
func (m *Manager) Reresolve() {
	before := m.position
	m.position = m.editor.LiveDocument().Resolve(before)
	if !before.Equal(m.position) {
		logger.DebugTagf("cursor", "re-resolved %v/%d to %v/%d", before.Path, before.Offset, m.position.Path, m.position.Offset)
	}
	m.ScrollToCursor()
}

// Move moves the caret by delta characters.
func (m *Manager) Move(delta int) {
	m.SetPoint(Step(m.editor.LiveDocument(), m.Point(), delta))
}

// MoveBlock moves the caret delta blocks up or down, keeping its offset
// where the target block is long enough.
func (m *Manager) MoveBlock(delta int) {
	p := m.Point()
	p.Block += delta
	m.SetPoint(m.editor.LiveDocument().ClampPoint(document.Point{Block: max(p.Block, 0), Offset: p.Offset}))
}

// PageMove moves the caret by whole viewports.
func (m *Manager) PageMove(deltaPages int) {
	if m.viewHeight <= 0 {
		return
	}
	m.MoveBlock(deltaPages * m.viewHeight)
}

// MoveToBlockStart moves the caret to the start of its block.
func (m *Manager) MoveToBlockStart() {
	m.SetPoint(document.Point{Block: m.Point().Block})
}

// MoveToBlockEnd moves the caret to the end of its block.
func (m *Manager) MoveToBlockEnd() {
	b := m.Point().Block
	m.SetPoint(document.Point{Block: b, Offset: m.editor.LiveDocument().BlockLen(b)})
}

// MoveToDocumentStart moves the caret to the first position.
func (m *Manager) MoveToDocumentStart() {
	m.SetPoint(document.Point{})
}

// MoveToDocumentEnd moves the caret to the last position.
func (m *Manager) MoveToDocumentEnd() {
	doc := m.editor.LiveDocument()
	last := len(doc.Blocks) - 1
	m.SetPoint(document.Point{Block: last, Offset: doc.BlockLen(last)})
}

// ScrollToCursor keeps the caret's block inside the viewport with
// scrollOff blocks of context.
func (m *Manager) ScrollToCursor() {
	if m.viewHeight <= 0 {
		return
	}
	block := max(m.position.Block(), 0)
	scrollOff := min(m.scrollOff, (m.viewHeight-1)/2)

	if block < m.viewportTop+scrollOff {
		m.viewportTop = max(block-scrollOff, 0)
	} else if block >= m.viewportTop+m.viewHeight-scrollOff {
		m.viewportTop = max(block-m.viewHeight+scrollOff+1, 0)
	}
}
