// internal/tui/drawing.go
package tui

import (
	"github.com/bethropolis/prose/internal/core"
	"github.com/bethropolis/prose/internal/core/find"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// cellStyle layers a cell's marks over its block style.
func cellStyle(t *theme.Theme, c Cell) tcell.Style {
	style := t.GetStyle(c.Style)
	m := c.Marks
	if m.Bold {
		style = style.Bold(true)
	}
	if m.Italic {
		style = style.Italic(true)
	}
	if m.Underline {
		style = style.Underline(true)
	}
	if m.Href != "" {
		fg, _, _ := t.GetStyle("Link").Decompose()
		style = style.Foreground(fg).Underline(true)
	}
	switch m.Highlight {
	case document.HighlightSimple:
		_, bg, _ := t.GetStyle("Highlight").Decompose()
		style = style.Background(bg)
	case document.HighlightAnimated:
		_, bg, _ := t.GetStyle("Highlight.animated").Decompose()
		style = style.Background(bg).Blink(true)
	}
	return style
}

func inMatch(matches []find.Match, b, off int) bool {
	for _, m := range matches {
		if m.Block == b && off >= m.From && off < m.To {
			return true
		}
	}
	return false
}

// DrawDocument draws the visible blocks of the editor's document into the
// area above the status bar and returns the laid out rows.
func DrawDocument(tuiManager *TUI, editor *core.Editor, activeTheme *theme.Theme, statusBarHeight int) []Row {
	if activeTheme == nil {
		logger.Warnf("DrawDocument called with nil theme, using %s", theme.PaperDark.Name)
		activeTheme = &theme.PaperDark
	}

	defaultStyle := activeTheme.GetStyle("Default")
	selectionStyle := activeTheme.GetStyle("Selection")
	searchStyle := activeTheme.GetStyle("SearchHighlight")

	width, height := tuiManager.Size()
	viewHeight := height - statusBarHeight
	if viewHeight <= 0 || width <= 0 {
		return nil
	}

	top, _ := editor.GetViewport()
	rows := Layout(editor.GetDocument(), top, width, viewHeight)
	selStart, selEnd, selecting := editor.SelectionRange()
	matches := editor.GetFindManager().Matches()

	for y := 0; y < viewHeight; y++ {
		for x := 0; x < width; x++ {
			tuiManager.screen.SetContent(x, y, ' ', nil, defaultStyle)
		}
		if y >= len(rows) {
			continue
		}
		row := rows[y]
		for _, c := range row.Cells {
			if c.X >= width {
				break
			}
			style := cellStyle(activeTheme, c)
			if c.Offset >= 0 && inMatch(matches, row.Block, c.Offset) {
				style = searchStyle
			}
			if selecting && (c.Offset >= 0 || c.Style == "Media" || c.Style == "Separator") &&
				inRange(row.Block, c.Offset, selStart, selEnd) {
				style = selectionStyle
			}

			runes := []rune(c.Cluster)
			tuiManager.screen.SetContent(c.X, y, runes[0], runes[1:], style)
			for w := 1; w < c.Width && c.X+w < width; w++ {
				tuiManager.screen.SetContent(c.X+w, y, ' ', nil, style)
			}
		}
	}
	return rows
}

// DrawCursor places the terminal cursor on the caret, hiding it when the
// caret is outside the laid out rows.
func DrawCursor(tuiManager *TUI, editor *core.Editor, rows []Row) {
	width, _ := tuiManager.Size()
	y, x, ok := CaretCell(rows, editor.CaretPoint())
	if !ok || x >= width {
		tuiManager.screen.HideCursor()
		return
	}
	tuiManager.screen.ShowCursor(x, y)
}
