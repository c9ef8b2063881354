package statusbar

import (
	"testing"
	"time"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_DefaultLine(t *testing.T) {
	sb := New(DefaultConfig(&theme.PaperDark))
	sb.SetFileInfo("post.html", false)
	sb.SetCursorInfo(document.Point{Block: 2, Offset: 4}, document.Heading3, document.Marks{Bold: true, Href: "https://x"})
	sb.SetEditorMode("FIND")

	text, style := sb.Text()
	assert.Equal(t, "post.html -- Block: 3 (heading3), Char: 5 [B link] -- FIND", text)
	assert.Equal(t, theme.PaperDark.GetStyle("StatusBar"), style)

	sb.SetFileInfo("", true)
	sb.SetEditorMode("")
	sb.SetUploads(2)
	text, style = sb.Text()
	assert.Equal(t, "[No Name] [Modified] -- Block: 3 (heading3), Char: 5 [B link] -- uploading 2", text)
	assert.Equal(t, theme.PaperDark.GetStyle("StatusBarModified"), style)
}

func TestText_TemporaryMessageExpires(t *testing.T) {
	sb := New(DefaultConfig(&theme.PaperDark))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sb.now = func() time.Time { return now }

	sb.SetTemporaryMessage("Saved %s", "post.html")
	text, style := sb.Text()
	assert.Equal(t, "Saved post.html", text)
	assert.Equal(t, theme.PaperDark.GetStyle("StatusBarMessage"), style)

	sb.SetTemporaryMessage("/cat")
	_, style = sb.Text()
	assert.Equal(t, theme.PaperDark.GetStyle("StatusBarFind"), style)

	now = now.Add(time.Minute)
	text, _ = sb.Text()
	assert.Contains(t, text, "Block: 1")
}

func TestDraw_ClipsToWidth(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(10, 3)

	sb := New(DefaultConfig(&theme.PaperLight))
	sb.SetTemporaryMessage("héllo wörld and more")
	sb.Draw(screen, 10, 3)
	screen.Show()

	cells, w, _ := screen.GetContents()
	var got []rune
	for x := 0; x < w; x++ {
		got = append(got, cells[2*w+x].Runes...)
	}
	assert.Equal(t, "héllo wörl", string(got))
}
