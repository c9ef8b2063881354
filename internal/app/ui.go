package app

import (
	"github.com/bethropolis/prose/internal/modehandler"
	"github.com/bethropolis/prose/internal/tui"
)

// drawEditor clears the screen and redraws all components.
func (a *App) drawEditor() {
	a.updateStatusBarContent()

	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	activeTheme := a.themeManager.Current()

	a.tuiManager.Clear()
	a.editor.ScrollToCursor()
	a.rows = tui.DrawDocument(a.tuiManager, a.editor, activeTheme, a.cfg.Editor.StatusBarHeight)
	a.statusBar.Draw(screen, width, height)
	tui.DrawCursor(a.tuiManager, a.editor, a.rows)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes the current editor state to the status bar.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.editor.FilePath(), a.editor.IsModified())

	caret := a.editor.CaretPoint()
	doc := a.editor.LiveDocument()
	if caret.Block < len(doc.Blocks) {
		a.statusBar.SetCursorInfo(caret, doc.Blocks[caret.Block].Kind, a.editor.PendingMarks())
	}
	a.statusBar.SetUploads(a.editor.InFlightUploads())

	// The typed command or pattern stays up however long typing takes.
	switch a.modeHandler.GetCurrentMode() {
	case modehandler.ModeCommand:
		a.statusBar.SetTemporaryMessage(":%s", a.modeHandler.GetCommandBuffer())
	case modehandler.ModeFind:
		a.statusBar.SetTemporaryMessage("/%s", a.modeHandler.GetFindBuffer())
	}
}
