package history

import (
	"sync"
	"time"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/types"
)

// Capacity is the number of snapshots kept. Committing one more evicts the
// oldest.
const Capacity = 50

// Manager is a linear undo stack. Undo and redo only move an index over
// the stored snapshots; committing after an undo discards the snapshots
// ahead of the index.
type Manager struct {
	mutex     sync.Mutex
	snapshots []Snapshot
	index     int // snapshot matching the live document
	state     State
	capacity  int
	now       func() time.Time
}

// NewManager creates a history manager holding a single empty-document
// snapshot.
func NewManager() *Manager {
	m := &Manager{capacity: Capacity, now: time.Now}
	m.Reset(document.Empty(), types.Selection{})
	return m
}

// Reset drops all history and makes doc the only snapshot. Call this on
// document load.
func (m *Manager) Reset(doc document.Document, sel types.Selection) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.snapshots = append(make([]Snapshot, 0, m.capacity), m.snapshot(doc, sel))
	m.index = 0
	m.state = Idle
	logger.DebugTagf("history", "Reset")
}

func (m *Manager) snapshot(doc document.Document, sel types.Selection) Snapshot {
	return Snapshot{
		Document:  doc.Clone(),
		Selection: types.Selection{Anchor: sel.Anchor.Clone(), Focus: sel.Focus.Clone()},
		Timestamp: m.now(),
	}
}

// Observe notes an uncommitted mutation (a keystroke of a typing burst).
func (m *Manager) Observe() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.state == Idle {
		m.state = Recording
	}
}

// Commit snapshots doc if it differs from the snapshot at the current
// index. It reports whether a snapshot was pushed. While composing it only
// records that a commit is due.
func (m *Manager) Commit(doc document.Document, sel types.Selection) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.state == Composing {
		logger.DebugTagf("history", "Commit deferred until composition ends")
		return false
	}
	return m.commitLocked(doc, sel)
}

func (m *Manager) commitLocked(doc document.Document, sel types.Selection) bool {
	m.state = Idle
	if document.Equal(doc, m.snapshots[m.index].Document) {
		return false
	}

	m.snapshots = append(m.snapshots[:m.index+1], m.snapshot(doc, sel))
	if len(m.snapshots) > m.capacity {
		// Evict the oldest.
		copy(m.snapshots, m.snapshots[len(m.snapshots)-m.capacity:])
		m.snapshots = m.snapshots[:m.capacity]
	}
	m.index = len(m.snapshots) - 1

	logger.DebugTagf("history", "Committed snapshot. Index: %d, Count: %d", m.index, len(m.snapshots))
	return true
}

// BeginComposition enters the Composing state.
func (m *Manager) BeginComposition() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.state = Composing
}

// EndComposition leaves the Composing state and commits the net result of
// the composition as one snapshot.
func (m *Manager) EndComposition(doc document.Document, sel types.Selection) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.state != Composing {
		return false
	}
	return m.commitLocked(doc, sel)
}

// Undo steps back one snapshot and returns a copy of it. At index 0, or
// while composing, it does nothing and returns false.
func (m *Manager) Undo() (Snapshot, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.state == Composing || m.index <= 0 {
		logger.DebugTagf("history", "Nothing to undo.")
		return Snapshot{}, false
	}
	m.index--
	m.state = Idle
	logger.DebugTagf("history", "Undo to index %d", m.index)
	return m.copyAt(m.index), true
}

// Redo steps forward one snapshot and returns a copy of it.
func (m *Manager) Redo() (Snapshot, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.state == Composing || m.index >= len(m.snapshots)-1 {
		logger.DebugTagf("history", "Nothing to redo.")
		return Snapshot{}, false
	}
	m.index++
	m.state = Idle
	logger.DebugTagf("history", "Redo to index %d", m.index)
	return m.copyAt(m.index), true
}

func (m *Manager) copyAt(i int) Snapshot {
	s := m.snapshots[i]
	s.Document = s.Document.Clone()
	s.Selection = types.Selection{Anchor: s.Selection.Anchor.Clone(), Focus: s.Selection.Focus.Clone()}
	return s
}

// Current returns a copy of the snapshot at the index.
func (m *Manager) Current() Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.copyAt(m.index)
}

// CanUndo returns true if there are changes that can be undone.
func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.index > 0
}

// CanRedo returns true if there are changes that can be redone.
func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.index < len(m.snapshots)-1
}

// Len returns the number of stored snapshots.
func (m *Manager) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.snapshots)
}

// Index returns the position of the live document in the stack.
func (m *Manager) Index() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.index
}

// State returns the recording state.
func (m *Manager) State() State {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}
