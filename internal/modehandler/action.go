package modehandler

import (
	"context"

	"github.com/bethropolis/prose/internal/input"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// executeAction handles actions when in ModeNormal.
func (mh *ModeHandler) executeAction(actionEvent input.ActionEvent, ev *tcell.EventKey) bool {
	actionProcessed := true
	action := actionEvent.Action

	isShift := ev != nil && ev.Modifiers()&tcell.ModShift != 0
	if action.IsMovement() {
		if isShift {
			mh.editor.StartOrUpdateSelection()
		} else {
			mh.editor.ClearSelection()
		}
	}

	findManager := mh.editor.GetFindManager()

	switch action {
	// Mode switching
	case input.ActionEnterCommandMode:
		mh.currentMode = ModeCommand
		mh.cmdBuffer = ""
		mh.statusBar.SetTemporaryMessage(":")
		logger.Debugf("ModeHandler: Entering Command Mode")

	case input.ActionEnterFindMode:
		mh.currentMode = ModeFind
		mh.findBuffer = ""
		findManager.ClearHighlights()
		mh.statusBar.SetTemporaryMessage("/")
		logger.Debugf("ModeHandler: Entering Find Mode")

	case input.ActionLeader:
		mh.startLeader()

	// Quit/Save
	case input.ActionQuit:
		switch {
		case findManager.HasHighlights():
			findManager.ClearHighlights()
			mh.statusBar.SetTemporaryMessage("Highlights cleared")
		case mh.editor.HasSelection():
			mh.editor.ClearSelection()
		case mh.editor.IsModified() && !mh.forceQuitPending:
			mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to force quit.")
			mh.forceQuitPending = true
			return true
		default:
			mh.quit(false)
			return false
		}
	case input.ActionForceQuit:
		mh.quit(true)
		return false

	case input.ActionSave:
		mh.save()

	// Find next/previous
	case input.ActionFindNext, input.ActionFindPrevious:
		if mh.lastSearchTerm == "" {
			mh.statusBar.SetTemporaryMessage("No previous search term")
			break
		}
		forward := mh.lastSearchForward == (action == input.ActionFindNext)
		mh.executeFind(forward, true)

	// Movement
	case input.ActionMoveUp:
		mh.editor.MoveBlock(-1)
	case input.ActionMoveDown:
		mh.editor.MoveBlock(1)
	case input.ActionMoveLeft:
		mh.editor.MoveCursor(-1)
	case input.ActionMoveRight:
		mh.editor.MoveCursor(1)
	case input.ActionMovePageUp:
		mh.editor.PageMove(-1)
	case input.ActionMovePageDown:
		mh.editor.PageMove(1)
	case input.ActionMoveHome:
		mh.editor.Home()
	case input.ActionMoveEnd:
		mh.editor.End()
	case input.ActionMoveDocumentStart:
		mh.editor.DocumentStart()
	case input.ActionMoveDocumentEnd:
		mh.editor.DocumentEnd()

	// Clipboard
	case input.ActionCopy, input.ActionCut:
		copyFn, verb := mh.editor.Copy, "copied"
		if action == input.ActionCut {
			copyFn, verb = mh.editor.Cut, "cut"
		}
		copied, err := copyFn()
		switch {
		case !copied:
			mh.statusBar.SetTemporaryMessage("Nothing selected")
		case err != nil:
			// The internal copy still works without a system clipboard.
			logger.WarnTagf("clipboard", "system clipboard: %v", err)
			mh.statusBar.SetTemporaryMessage("Selection %s (system clipboard unavailable)", verb)
		default:
			mh.statusBar.SetTemporaryMessage("Selection %s", verb)
		}

	case input.ActionPaste:
		pasted, err := mh.editor.Paste(context.Background())
		if err != nil {
			mh.statusBar.SetTemporaryMessage("Paste failed: %v", err)
			logger.Debugf("Paste error: %v", err)
		} else if !pasted {
			mh.statusBar.SetTemporaryMessage("Clipboard empty - nothing to paste")
		}

	// History
	case input.ActionUndo:
		if !mh.editor.Undo() {
			mh.statusBar.SetTemporaryMessage("Nothing to undo")
		}
	case input.ActionRedo:
		if !mh.editor.Redo() {
			mh.statusBar.SetTemporaryMessage("Nothing to redo")
		}

	// Text modification
	case input.ActionInsertRune:
		mh.editor.InsertRune(actionEvent.Rune)
	case input.ActionInsertNewLine:
		mh.editor.InsertNewLine()
	case input.ActionInsertLineBreak:
		mh.editor.InsertLineBreak()
	case input.ActionDeleteCharBackward:
		mh.editor.DeleteBackward()
	case input.ActionDeleteCharForward:
		mh.editor.DeleteForward()

	default:
		actionProcessed = false
	}

	if actionProcessed && action != input.ActionQuit {
		mh.forceQuitPending = false
	}
	return actionProcessed
}

func (mh *ModeHandler) save() {
	mh.editor.ClearSelection()
	if err := mh.editor.Save(); err != nil {
		mh.statusBar.SetTemporaryMessage("Save FAILED: %v", err)
		return
	}
	mh.statusBar.SetTemporaryMessage("Saved %s", mh.editor.FilePath())
}
