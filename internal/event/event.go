// internal/event/event.go
package event

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/prose/internal/types"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document lifecycle
	TypeDocumentModified // content changed (edit, command, paste, upload, undo)
	TypeDocumentLoaded   // a serialized document was loaded
	TypeDocumentSaved    // the serialized document was handed to storage

	TypeSelectionChanged
	TypeCommandApplied
	TypeCommandRejected // e.g. a selection-only command on a caret
	TypePasteDegraded   // markup paste fell back to plain text
	TypeHistoryChanged  // undo/redo availability changed

	// Media pipeline
	TypeUploadStarted
	TypeMediaInserted
	TypeUploadFailed

	TypeKeyPressed

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

var typeNames = map[Type]string{
	TypeUnknown:          "unknown",
	TypeDocumentModified: "document-modified",
	TypeDocumentLoaded:   "document-loaded",
	TypeDocumentSaved:    "document-saved",
	TypeSelectionChanged: "selection-changed",
	TypeCommandApplied:   "command-applied",
	TypeCommandRejected:  "command-rejected",
	TypePasteDegraded:    "paste-degraded",
	TypeHistoryChanged:   "history-changed",
	TypeUploadStarted:    "upload-started",
	TypeMediaInserted:    "media-inserted",
	TypeUploadFailed:     "upload-failed",
	TypeKeyPressed:       "key-pressed",
	TypeAppReady:         "app-ready",
	TypeAppQuit:          "app-quit",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// DocumentModifiedData names what changed the document.
type DocumentModifiedData struct {
	Source string // "input", "command", "paste", "media", "undo", "redo", "set"
}

// DocumentLoadedData contains info about the loaded document.
type DocumentLoadedData struct {
	FilePath string
	Blocks   int
}

// DocumentSavedData contains info about the saved document.
type DocumentSavedData struct {
	FilePath string
	Bytes    int
}

// SelectionChangedData carries the canonical selection.
type SelectionChangedData struct {
	Selection types.Selection
}

// CommandData identifies a formatting command and, for rejections, why.
type CommandData struct {
	Name string
	Err  error
}

// PasteDegradedData reports a plain-text fallback.
type PasteDegradedData struct {
	Reason error
}

// HistoryChangedData reports the undo stack position.
type HistoryChangedData struct {
	Index   int
	Len     int
	CanUndo bool
	CanRedo bool
}

// UploadData describes one upload. Err is set for TypeUploadFailed.
type UploadData struct {
	File     string
	URL      string
	InFlight int
	Err      error
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
