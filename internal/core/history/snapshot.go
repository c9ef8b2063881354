// Package history provides bounded undo/redo over full-document snapshots.
package history

import (
	"time"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/types"
)

// Snapshot is a deep copy of the document taken after a committed change,
// together with the selection to restore with it.
type Snapshot struct {
	Document  document.Document
	Selection types.Selection
	Timestamp time.Time
}

// State is the recording state of the manager.
type State int

const (
	// Idle: everything observed so far is committed.
	Idle State = iota
	// Recording: mutations were observed and await a commit.
	Recording
	// Composing: an input-method composition is active; commits are
	// deferred until it ends.
	Composing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Composing:
		return "composing"
	}
	return "unknown"
}
