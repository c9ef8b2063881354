package modehandler

import (
	"github.com/bethropolis/prose/internal/logger"
	"github.com/gdamore/tcell/v2"
)

func (mh *ModeHandler) startLeader() {
	mh.leaderWaiting = true
	mh.leaderStarted = mh.now()
	mh.statusBar.SetTemporaryMessage("Ctrl+K ...")
}

// resetLeaderState clears the waiting state.
func (mh *ModeHandler) resetLeaderState() {
	if mh.leaderWaiting {
		logger.Debugf("Resetting leader state")
		mh.leaderWaiting = false
	}
}

// handleLeaderKey completes a formatting chord. A key arriving after the
// timeout, or one that is not bound, is handled as a normal key.
func (mh *ModeHandler) handleLeaderKey(ev *tcell.EventKey) (handled, redraw bool) {
	expired := mh.leaderTimeout > 0 && mh.now().Sub(mh.leaderStarted) > mh.leaderTimeout
	mh.resetLeaderState()
	if expired {
		logger.Debugf("Leader chord timed out")
		return false, false
	}
	if ev.Key() == tcell.KeyEscape {
		mh.statusBar.ResetTemporaryMessage()
		return true, true
	}
	if ev.Key() != tcell.KeyRune {
		return false, false
	}

	name, ok := mh.inputProcessor.LeaderCommand(ev.Rune())
	if !ok {
		mh.statusBar.SetTemporaryMessage("Ctrl+K %c is not bound", ev.Rune())
		return true, true
	}
	mh.applyCommand(name)
	return true, true
}

// applyCommand runs a formatting command and reports the outcome.
func (mh *ModeHandler) applyCommand(name string) {
	if err := mh.editor.ApplyCommand(name); err != nil {
		mh.statusBar.SetTemporaryMessage("%v", err)
		return
	}
	mh.forceQuitPending = false
	mh.statusBar.SetTemporaryMessage("%s", name)
}
