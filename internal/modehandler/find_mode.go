package modehandler

import (
	"github.com/bethropolis/prose/internal/input"
	"github.com/bethropolis/prose/internal/logger"
)

// handleActionFind handles actions when in ModeFind.
func (mh *ModeHandler) handleActionFind(actionEvent input.ActionEvent) bool {
	actionProcessed := true
	needsUpdate := false

	switch actionEvent.Action {
	case input.ActionInsertRune:
		mh.findBuffer += string(actionEvent.Rune)
		needsUpdate = true

	case input.ActionDeleteCharBackward:
		if len(mh.findBuffer) > 0 {
			mh.findBuffer = trimLastRune(mh.findBuffer)
			needsUpdate = true
		} else {
			mh.cancelFindMode()
		}

	case input.ActionInsertNewLine:
		mh.currentMode = ModeNormal
		if mh.findBuffer != "" {
			mh.lastSearchTerm = mh.findBuffer
			mh.lastSearchForward = true
			mh.executeFind(true, false)
		} else {
			mh.statusBar.ResetTemporaryMessage()
			mh.editor.GetFindManager().ClearHighlights()
		}
		mh.findBuffer = ""

	case input.ActionQuit:
		mh.cancelFindMode()

	default:
		actionProcessed = false
	}

	if needsUpdate && mh.currentMode == ModeFind {
		mh.statusBar.SetTemporaryMessage("/%s", mh.findBuffer)
	}

	return actionProcessed
}

// cancelFindMode leaves Find mode without searching.
func (mh *ModeHandler) cancelFindMode() {
	mh.currentMode = ModeNormal
	mh.findBuffer = ""
	mh.editor.GetFindManager().ClearHighlights()
	mh.statusBar.ResetTemporaryMessage()
	logger.Debugf("ModeHandler: Canceled Find Mode")
}

// executeFind moves to the next match of the last search term. The first
// search of a term highlights all matches.
func (mh *ModeHandler) executeFind(forward bool, isSubsequent bool) {
	if mh.lastSearchTerm == "" {
		mh.statusBar.SetTemporaryMessage("No search term")
		return
	}

	var found, wrapped bool
	if isSubsequent {
		_, found, wrapped = mh.editor.FindNext(forward)
	} else {
		var err error
		_, found, err = mh.editor.Find(mh.lastSearchTerm)
		if err != nil {
			mh.statusBar.SetTemporaryMessage("Invalid pattern: %s", err)
			return
		}
	}

	if !found {
		mh.statusBar.SetTemporaryMessage("Pattern not found: %s", mh.lastSearchTerm)
		logger.Debugf("ModeHandler: Pattern not found: '%s'", mh.lastSearchTerm)
		return
	}
	if !isSubsequent {
		mh.lastSearchForward = forward
	}
	matches := len(mh.editor.GetFindManager().Matches())
	if wrapped {
		mh.statusBar.SetTemporaryMessage("Search wrapped: '%s' (%d matches)", mh.lastSearchTerm, matches)
		return
	}
	mh.statusBar.SetTemporaryMessage("Found: '%s' (%d matches)", mh.lastSearchTerm, matches)
}
