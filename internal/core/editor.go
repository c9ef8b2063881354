// internal/core/editor.go
package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bethropolis/prose/internal/config"
	"github.com/bethropolis/prose/internal/core/clipboard"
	"github.com/bethropolis/prose/internal/core/cursor"
	"github.com/bethropolis/prose/internal/core/find"
	"github.com/bethropolis/prose/internal/core/history"
	"github.com/bethropolis/prose/internal/core/media"
	"github.com/bethropolis/prose/internal/core/selection"
	"github.com/bethropolis/prose/internal/core/text"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/sanitize"
	"github.com/bethropolis/prose/internal/types"
)

// Options wires an Editor to its collaborators. Zero values get defaults.
type Options struct {
	// Sanitizer reads pasted payloads; a default one is built when nil.
	Sanitizer *sanitize.Sanitizer
	// Uploader receives dropped files. Without one, drops fail.
	Uploader media.Uploader
	// Clipboard is the system clipboard; nil keeps copies internal.
	Clipboard clipboard.System
	Events    *event.Manager
	ScrollOff int
}

// Editor owns the live document and routes every mutation through the
// managers that keep caret, selection and history consistent with it. All
// methods must be called from one goroutine; uploads finishing in the
// background are applied with ApplyUploads.
type Editor struct {
	doc      document.Document
	filePath string
	modified bool
	// pending are the marks the next typed text gets, set by a mark
	// command on a caret.
	pending *document.Marks
	// anchors are the insertion points of unfinished uploads, kept in
	// step with every edit.
	anchors map[*media.Upload]media.Anchor

	cursorManager    *cursor.Manager
	selectionManager *selection.Manager
	historyManager   *history.Manager
	textOps          *text.Operations
	clipboardManager *clipboard.Manager
	findManager      *find.Manager
	mediaPipeline    *media.Pipeline
	sanitizer        *sanitize.Sanitizer
	eventManager     *event.Manager
}

var errNoUploader = errors.New("no upload service configured")

// NewEditor creates an editor holding an empty document.
func NewEditor(opts Options) (*Editor, error) {
	san := opts.Sanitizer
	if san == nil {
		var err error
		san, err = sanitize.New(sanitize.Options{EmbedHosts: config.DefaultEmbedHosts})
		if err != nil {
			return nil, fmt.Errorf("editor: %w", err)
		}
	}
	uploader := opts.Uploader
	if uploader == nil {
		uploader = media.UploaderFunc(func(_ context.Context, _ media.File) (string, error) {
			return "", errNoUploader
		})
	}

	e := &Editor{
		doc:          document.Empty(),
		anchors:      make(map[*media.Upload]media.Anchor),
		sanitizer:    san,
		eventManager: opts.Events,
	}
	e.cursorManager = cursor.NewManager(e, opts.ScrollOff)
	e.selectionManager = selection.NewManager(e)
	e.historyManager = history.NewManager()
	e.textOps = text.NewOperations(e)
	e.clipboardManager = clipboard.NewManager(opts.Clipboard)
	e.findManager = find.NewManager(e)
	e.mediaPipeline = media.NewPipeline(uploader)
	return e, nil
}

// SetEventManager sets the event manager for dispatching events
func (e *Editor) SetEventManager(mgr *event.Manager) {
	e.eventManager = mgr
}

// GetEventManager returns the event manager, which may be nil.
func (e *Editor) GetEventManager() *event.Manager {
	return e.eventManager
}

func (e *Editor) dispatch(t event.Type, data interface{}) {
	e.eventManager.Dispatch(t, data)
}

// --- Document ---

// LiveDocument returns the document the editor mutates. Callers must not
// keep it across edits.
func (e *Editor) LiveDocument() *document.Document {
	return &e.doc
}

// GetDocument returns a copy of the document.
func (e *Editor) GetDocument() document.Document {
	return e.doc.Clone()
}

// SetDocument replaces the document as one undoable edit.
func (e *Editor) SetDocument(doc document.Document) {
	e.textOps.Break()
	e.doc = doc.Clone()
	e.doc.Normalize()
	e.pending = nil
	e.selectionManager.Reresolve()
	e.cursorManager.Reresolve()
	e.MarkModified("set")
	e.CommitHistory()
}

// LoadMarkup replaces the document with serialized markup and starts a
// fresh history. A non-nil error wrapping document.ErrDeserializeFallback
// means the markup held unrecognized structure; the document is loaded
// anyway.
func (e *Editor) LoadMarkup(src string) error {
	doc, err := document.Deserialize(src)
	e.doc = doc
	e.pending = nil
	e.modified = false
	e.selectionManager.ClearSelection()
	e.cursorManager.MoveToDocumentStart()
	e.historyManager.Reset(e.doc, e.selectionManager.GetSelection())
	e.dispatch(event.TypeHistoryChanged, e.historyData())
	return err
}

// Load reads a serialized document from path. A missing file starts an
// empty document that will be saved there.
func (e *Editor) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	loadErr := e.LoadMarkup(string(data))
	e.filePath = path
	logger.Infof("Loaded %s (%d blocks)", path, len(e.doc.Blocks))
	e.dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{FilePath: path, Blocks: len(e.doc.Blocks)})
	return loadErr
}

// Save writes the serialized document to its file.
func (e *Editor) Save() error {
	if e.filePath == "" {
		return errors.New("no file name")
	}
	return e.SaveAs(e.filePath)
}

// SaveAs writes the serialized document to path and makes it the
// document's file.
func (e *Editor) SaveAs(path string) error {
	out := e.Serialize()
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	e.filePath = path
	e.modified = false
	logger.Infof("Saved %s (%d bytes)", path, len(out))
	e.dispatch(event.TypeDocumentSaved, event.DocumentSavedData{FilePath: path, Bytes: len(out)})
	return nil
}

// Serialize returns the persisted form of the document.
func (e *Editor) Serialize() string {
	return document.Serialize(e.doc)
}

// FilePath returns the document's file, if any.
func (e *Editor) FilePath() string {
	return e.filePath
}

// IsModified reports unsaved changes.
func (e *Editor) IsModified() bool {
	return e.modified
}

// MarkModified records a mutation made by source.
func (e *Editor) MarkModified(source string) {
	e.modified = true
	e.findManager.Invalidate()
	for u, a := range e.anchors {
		e.anchors[u] = a.Follow(e.doc)
	}
	e.dispatch(event.TypeDocumentModified, event.DocumentModifiedData{Source: source})
}

// --- Caret and selection ---

// GetCursor returns the caret.
func (e *Editor) GetCursor() types.Cursor {
	return e.cursorManager.GetPosition()
}

// SetCursor moves the caret and collapses the selection.
func (e *Editor) SetCursor(c types.Cursor) {
	e.textOps.Break()
	e.pending = nil
	e.selectionManager.ClearSelection()
	e.cursorManager.SetPosition(c)
}

// CaretPoint returns the caret as a flat point.
func (e *Editor) CaretPoint() document.Point {
	return e.cursorManager.Point()
}

// SetCaretPoint moves the caret without touching the selection.
func (e *Editor) SetCaretPoint(p document.Point) {
	e.cursorManager.SetPoint(p)
}

// GetSelection returns the selection, collapsed at the caret when nothing
// is selected.
func (e *Editor) GetSelection() types.Selection {
	return e.selectionManager.GetSelection()
}

// HasSelection reports a non-collapsed selection.
func (e *Editor) HasSelection() bool {
	return e.selectionManager.HasSelection()
}

// SelectionRange returns the ordered selection ends.
func (e *Editor) SelectionRange() (start, end document.Point, ok bool) {
	return e.selectionManager.Range()
}

// ClearSelection collapses the selection at the caret.
func (e *Editor) ClearSelection() {
	e.selectionManager.ClearSelection()
}

// StartOrUpdateSelection anchors a selection at the caret before a
// selecting motion.
func (e *Editor) StartOrUpdateSelection() {
	e.selectionManager.StartOrUpdateSelection()
}

// OnSelectionChange takes a selection reported by the editing surface. The
// caret follows the focus.
func (e *Editor) OnSelectionChange(sel types.Selection) {
	e.textOps.Break()
	e.pending = nil
	e.selectionManager.SetSelection(sel)
	e.cursorManager.SetPosition(sel.Focus)
	e.dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Selection: e.selectionManager.GetSelection()})
}

// SelectRange selects from anchor to focus.
func (e *Editor) SelectRange(anchor, focus document.Point) {
	e.OnSelectionChange(types.Selection{Anchor: e.doc.CursorAt(anchor), Focus: e.doc.CursorAt(focus)})
}

// TakePendingMarks returns and clears the pending marks.
func (e *Editor) TakePendingMarks() *document.Marks {
	m := e.pending
	e.pending = nil
	return m
}

// PendingMarks returns the marks the next typed text gets.
func (e *Editor) PendingMarks() document.Marks {
	if e.pending != nil {
		return *e.pending
	}
	return e.doc.MarksAt(e.CaretPoint())
}

// --- Managers ---

// GetHistoryManager returns the history manager.
func (e *Editor) GetHistoryManager() *history.Manager {
	return e.historyManager
}

// GetCursorManager returns the cursor manager.
func (e *Editor) GetCursorManager() *cursor.Manager {
	return e.cursorManager
}

// GetSelectionManager returns the selection manager.
func (e *Editor) GetSelectionManager() *selection.Manager {
	return e.selectionManager
}

// GetFindManager returns the find manager.
func (e *Editor) GetFindManager() *find.Manager {
	return e.findManager
}

// CommitHistory attempts a history snapshot of the live document.
func (e *Editor) CommitHistory() {
	if e.historyManager.Commit(e.doc, e.selectionManager.GetSelection()) {
		e.dispatch(event.TypeHistoryChanged, e.historyData())
	}
}

func (e *Editor) historyData() event.HistoryChangedData {
	h := e.historyManager
	return event.HistoryChangedData{Index: h.Index(), Len: h.Len(), CanUndo: h.CanUndo(), CanRedo: h.CanRedo()}
}

// --- Viewport ---

// SetViewSize updates the number of visible blocks.
func (e *Editor) SetViewSize(height int) {
	e.cursorManager.SetViewSize(height)
}

// GetViewport returns the first visible block and the view height.
func (e *Editor) GetViewport() (int, int) {
	return e.cursorManager.GetViewport()
}

// ScrollToCursor keeps the caret visible.
func (e *Editor) ScrollToCursor() {
	e.cursorManager.ScrollToCursor()
}
