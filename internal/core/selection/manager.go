package selection

import (
	"github.com/bethropolis/prose/internal/core/cursor"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/types"
)

// Manager handles text selection state and logic.
type Manager struct {
	editor EditorInterface

	selecting bool
	anchor    types.Cursor // where the selection started
	focus     types.Cursor // follows the caret
}

// EditorInterface defines what the selection manager needs from editor.
type EditorInterface interface {
	GetCursor() types.Cursor
	LiveDocument() *document.Document
}

// NewManager creates a new selection manager.
func NewManager(editor EditorInterface) *Manager {
	return &Manager{editor: editor}
}

// HasSelection reports whether a non-collapsed selection is active.
func (m *Manager) HasSelection() bool {
	if !m.selecting {
		return false
	}
	sel := types.Selection{Anchor: m.anchor, Focus: m.focus}
	return !cursor.Collapsed(m.editor.LiveDocument(), sel)
}

// GetSelection returns the current selection. Without an active
// selection it is collapsed at the caret.
func (m *Manager) GetSelection() types.Selection {
	if !m.selecting {
		return types.Collapsed(m.editor.GetCursor())
	}
	return types.Selection{Anchor: m.anchor.Clone(), Focus: m.focus.Clone()}
}

// Range returns the selection as ordered points; ok is false when it is
// collapsed.
func (m *Manager) Range() (start, end document.Point, ok bool) {
	sel := m.GetSelection()
	doc := m.editor.LiveDocument()
	start, end = document.OrderPoints(doc.PointOf(sel.Anchor), doc.PointOf(sel.Focus))
	return start, end, document.ComparePoints(start, end) != 0
}

// SetSelection replaces the selection, e.g. from the hosting surface.
// Both ends are stored in canonical form.
func (m *Manager) SetSelection(sel types.Selection) {
	doc := m.editor.LiveDocument()
	m.anchor = doc.Resolve(sel.Anchor)
	m.focus = doc.Resolve(sel.Focus)
	m.selecting = !cursor.Collapsed(doc, sel)
	logger.DebugTagf("core", "Selection Manager: set %v/%d -> %v/%d", m.anchor.Path, m.anchor.Offset, m.focus.Path, m.focus.Offset)
}

// SetRange selects the points [start, end).
func (m *Manager) SetRange(anchor, focus document.Point) {
	doc := m.editor.LiveDocument()
	m.SetSelection(types.Selection{Anchor: doc.CursorAt(anchor), Focus: doc.CursorAt(focus)})
}

// ClearSelection resets the selection state.
func (m *Manager) ClearSelection() {
	if m.selecting {
		logger.DebugTagf("core", "Selection Manager: Cleared")
	}
	m.selecting = false
	m.anchor = types.Cursor{}
	m.focus = types.Cursor{}
}

// StartOrUpdateSelection is called when selection should start or extend
// (Shift+motion). Call it before the motion to anchor at the old caret,
// and UpdateSelectionEnd after it.
func (m *Manager) StartOrUpdateSelection() {
	current := m.editor.GetCursor()
	if !m.selecting {
		m.anchor = current
		m.selecting = true
		logger.DebugTagf("core", "Selection Manager: Started at %v/%d", m.anchor.Path, m.anchor.Offset)
	}
	m.focus = current
}

// UpdateSelectionEnd moves the focus to the caret.
func (m *Manager) UpdateSelectionEnd() {
	if m.selecting {
		m.focus = m.editor.GetCursor()
	}
}

// Reresolve re-canonicalizes both ends after a structural change. Ends that
// pointed into removed nodes degrade to the nearest valid position.
func (m *Manager) Reresolve() {
	if !m.selecting {
		return
	}
	doc := m.editor.LiveDocument()
	m.anchor = doc.Resolve(m.anchor)
	m.focus = doc.Resolve(m.focus)
}

// IsSelecting returns the raw selecting flag state.
func (m *Manager) IsSelecting() bool {
	return m.selecting
}
