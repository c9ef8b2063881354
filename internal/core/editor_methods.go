package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/bethropolis/prose/internal/core/command"
	"github.com/bethropolis/prose/internal/core/cursor"
	"github.com/bethropolis/prose/internal/core/find"
	"github.com/bethropolis/prose/internal/core/media"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/sanitize"
	"github.com/bethropolis/prose/internal/types"
)

// Text operation methods delegated to textOps

func (e *Editor) InsertText(s string) {
	e.textOps.InsertText(s)
}

func (e *Editor) InsertRune(r rune) {
	e.textOps.InsertRune(r)
}

func (e *Editor) InsertNewLine() {
	e.textOps.InsertNewLine()
}

func (e *Editor) InsertLineBreak() {
	e.textOps.InsertLineBreak()
}

func (e *Editor) DeleteBackward() {
	e.textOps.DeleteBackward()
}

func (e *Editor) DeleteForward() {
	e.textOps.DeleteForward()
}

// DeleteSelection removes the selected content; false when nothing is
// selected.
func (e *Editor) DeleteSelection() bool {
	return e.textOps.DeleteSelection()
}

// Cursor operations delegated to cursorManager

// motion ends a typing burst, runs move and extends the selection when
// one is being made.
func (e *Editor) motion(move func()) {
	e.textOps.Break()
	e.pending = nil
	move()
	if e.selectionManager.IsSelecting() {
		e.selectionManager.UpdateSelectionEnd()
		e.dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Selection: e.selectionManager.GetSelection()})
	}
}

// MoveCursor moves the caret by delta characters.
func (e *Editor) MoveCursor(delta int) {
	e.motion(func() { e.cursorManager.Move(delta) })
}

// MoveBlock moves the caret delta blocks.
func (e *Editor) MoveBlock(delta int) {
	e.motion(func() { e.cursorManager.MoveBlock(delta) })
}

func (e *Editor) PageMove(deltaPages int) {
	e.motion(func() { e.cursorManager.PageMove(deltaPages) })
}

func (e *Editor) Home() {
	e.motion(e.cursorManager.MoveToBlockStart)
}

func (e *Editor) End() {
	e.motion(e.cursorManager.MoveToBlockEnd)
}

func (e *Editor) DocumentStart() {
	e.motion(e.cursorManager.MoveToDocumentStart)
}

func (e *Editor) DocumentEnd() {
	e.motion(e.cursorManager.MoveToDocumentEnd)
}

// setSelectionPoints makes [anchor, focus] the selection with the caret at
// focus. A collapsed pair clears the selection.
func (e *Editor) setSelectionPoints(anchor, focus document.Point) {
	e.cursorManager.SetPoint(focus)
	if document.ComparePoints(anchor, focus) == 0 {
		e.selectionManager.ClearSelection()
		return
	}
	e.selectionManager.SetRange(anchor, focus)
}

// --- Formatting commands ---

// ApplyCommand runs a formatting command on the selection. A rejected
// command leaves the document untouched and returns the reason.
func (e *Editor) ApplyCommand(name string) error {
	e.textOps.Break()

	sel := e.selectionManager.GetSelection()
	cmdSel := command.Selection{Anchor: e.doc.PointOf(sel.Anchor), Focus: e.doc.PointOf(sel.Focus)}
	if cursor.Collapsed(&e.doc, sel) {
		cmdSel.Anchor = cmdSel.Focus
	}

	res, err := command.Apply(&e.doc, cmdSel, name, e.pending)
	if err != nil {
		logger.DebugTagf("core", "command %s rejected: %v", name, err)
		e.dispatch(event.TypeCommandRejected, event.CommandData{Name: name, Err: err})
		return err
	}

	e.pending = res.Pending
	e.setSelectionPoints(res.Selection.Anchor, res.Selection.Focus)
	if res.Changed {
		e.MarkModified("command")
		e.CommitHistory()
	}
	e.dispatch(event.TypeCommandApplied, event.CommandData{Name: name})
	return nil
}

// --- History ---

// Undo restores the previous snapshot. It reports false at the oldest
// snapshot or during a composition.
func (e *Editor) Undo() bool {
	e.textOps.Break()
	snap, ok := e.historyManager.Undo()
	if !ok {
		return false
	}
	e.restore(snap.Document, snap.Selection, "undo")
	return true
}

// Redo re-applies the next snapshot.
func (e *Editor) Redo() bool {
	e.textOps.Break()
	snap, ok := e.historyManager.Redo()
	if !ok {
		return false
	}
	e.restore(snap.Document, snap.Selection, "redo")
	return true
}

func (e *Editor) restore(doc document.Document, sel types.Selection, source string) {
	e.doc = doc
	e.pending = nil
	e.selectionManager.SetSelection(sel)
	e.cursorManager.SetPosition(sel.Focus)
	e.MarkModified(source)
	e.dispatch(event.TypeHistoryChanged, e.historyData())
}

// CompositionStart defers history commits while an input method composes.
func (e *Editor) CompositionStart() {
	e.textOps.Break()
	e.historyManager.BeginComposition()
}

// CompositionEnd commits the composed text as one snapshot.
func (e *Editor) CompositionEnd() {
	if e.historyManager.EndComposition(e.doc, e.selectionManager.GetSelection()) {
		e.dispatch(event.TypeHistoryChanged, e.historyData())
	}
}

// --- Clipboard ---

// Copy puts the selection on the clipboard; false when nothing is
// selected.
func (e *Editor) Copy() (bool, error) {
	start, end, ok := e.SelectionRange()
	if !ok {
		return false, nil
	}
	return e.clipboardManager.Copy(e.doc, start, end)
}

// Cut copies the selection and deletes it.
func (e *Editor) Cut() (bool, error) {
	copied, err := e.Copy()
	if !copied {
		return false, err
	}
	e.DeleteSelection()
	return true, err
}

// Paste inserts the clipboard content at the caret.
func (e *Editor) Paste(ctx context.Context) (bool, error) {
	return e.PastePayload(ctx, e.clipboardManager.Payload())
}

// PastePayload sanitizes p and inserts the result at the caret, replacing
// the selection. A payload that had to degrade to plain text is still
// inserted; the degradation is reported as an event.
func (e *Editor) PastePayload(ctx context.Context, p sanitize.Payload) (bool, error) {
	blocks, err := e.sanitizer.Sanitize(ctx, p)
	if err != nil {
		if !errors.Is(err, sanitize.ErrSanitizeDegraded) {
			return false, fmt.Errorf("paste: %w", err)
		}
		e.dispatch(event.TypePasteDegraded, event.PasteDegradedData{Reason: err})
	}
	if len(blocks) == 0 {
		logger.DebugTagf("core", "paste: nothing to insert")
		return false, nil
	}

	e.textOps.Break()
	if start, end, ok := e.SelectionRange(); ok {
		e.SetCaretPoint(e.doc.DeleteRange(start, end))
	}
	e.selectionManager.ClearSelection()
	e.pending = nil

	e.SetCaretPoint(e.doc.InsertBlocks(e.CaretPoint(), blocks))
	e.MarkModified("paste")
	e.CommitHistory()
	logger.DebugTagf("core", "pasted %d blocks", len(blocks))
	return true, nil
}

// --- Media ---

// Drop starts uploading files at the caret. Files that are not media are
// refused; the others upload concurrently and are inserted by
// ApplyUploads as they finish.
func (e *Editor) Drop(ctx context.Context, files ...media.File) ([]*media.Upload, error) {
	e.textOps.Break()
	anchor := media.AnchorAt(e.doc, e.CaretPoint())

	var uploads []*media.Upload
	var errs error
	for _, f := range files {
		u, err := e.mediaPipeline.Start(ctx, anchor, f)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", f.Name, err))
			continue
		}
		uploads = append(uploads, u)
		e.anchors[u] = anchor
		e.dispatch(event.TypeUploadStarted, event.UploadData{File: f.Name, InFlight: e.mediaPipeline.InFlight()})
	}
	return uploads, errs
}

// UploadsReady receives a value when finished uploads wait for
// ApplyUploads.
func (e *Editor) UploadsReady() <-chan struct{} {
	return e.mediaPipeline.Ready()
}

// InFlightUploads is the number of unfinished uploads.
func (e *Editor) InFlightUploads() int {
	return e.mediaPipeline.InFlight()
}

// WaitUploads blocks until every started upload finished. Their results
// still need ApplyUploads.
func (e *Editor) WaitUploads() {
	e.mediaPipeline.Wait()
}

// ApplyUploads inserts the media of every finished upload at its anchor
// and returns how many nodes were inserted. Failed uploads insert
// nothing. The caret, the selection and the anchors of unfinished uploads
// keep their place in the text.
func (e *Editor) ApplyUploads() int {
	completions := e.mediaPipeline.Drain()
	if len(completions) == 0 {
		return 0
	}
	e.textOps.Break()

	inserted := 0
	for _, c := range completions {
		anchor, ok := e.anchors[c.Upload]
		if !ok {
			anchor = c.Anchor
		}
		delete(e.anchors, c.Upload)
		if c.Err != nil {
			e.dispatch(event.TypeUploadFailed, event.UploadData{File: c.File.Name, Err: c.Err, InFlight: e.mediaPipeline.InFlight()})
			continue
		}

		e.insertMedia(anchor, c.Block)
		e.MarkModified("media")
		e.CommitHistory()
		inserted++
		e.dispatch(event.TypeMediaInserted, event.UploadData{File: c.File.Name, URL: c.Block.URL, InFlight: e.mediaPipeline.InFlight()})
	}
	return inserted
}

// insertMedia inserts blk at anchor, moving every live position past the
// new block along with it.
func (e *Editor) insertMedia(anchor media.Anchor, blk document.Block) {
	caret := e.CaretPoint()
	selecting := e.HasSelection()
	sel := e.selectionManager.GetSelection()
	from, to := e.doc.PointOf(sel.Anchor), e.doc.PointOf(sel.Focus)
	track := []*document.Point{&caret, &from, &to}

	others := make(map[*media.Upload]*document.Point, len(e.anchors))
	for u, a := range e.anchors {
		if p, ok := a.Resolve(e.doc); ok {
			others[u] = &p
			track = append(track, &p)
		}
	}

	media.Insert(&e.doc, anchor, blk, track...)

	for u, p := range others {
		e.anchors[u] = media.AnchorAt(e.doc, *p)
	}
	e.cursorManager.SetPoint(caret)
	if selecting {
		e.selectionManager.SetRange(from, to)
	}
}

// --- Find ---

// Find highlights matches of pattern and moves to the first one after the
// caret.
func (e *Editor) Find(pattern string) (find.Match, bool, error) {
	e.textOps.Break()
	if err := e.findManager.HighlightMatches(pattern); err != nil {
		return find.Match{}, false, err
	}
	m, found, _ := e.findManager.FindNext(true)
	return m, found, nil
}

// FindNext moves to the next match; wrapped reports a wrap-around.
func (e *Editor) FindNext(forward bool) (m find.Match, found, wrapped bool) {
	e.textOps.Break()
	e.selectionManager.ClearSelection()
	return e.findManager.FindNext(forward)
}

// Replace substitutes matches of pattern; only the first unless global.
func (e *Editor) Replace(pattern, replacement string, global bool) (int, error) {
	e.textOps.Break()
	e.selectionManager.ClearSelection()
	return e.findManager.Replace(pattern, replacement, global)
}
