package modehandler

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prose/internal/core"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/input"
	"github.com/bethropolis/prose/internal/statusbar"
	"github.com/bethropolis/prose/internal/theme"
)

type harness struct {
	mh     *ModeHandler
	editor *core.Editor
	sb     *statusbar.StatusBar
	quits  []bool
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	events := event.NewManager()
	editor, err := core.NewEditor(core.Options{Events: events})
	require.NoError(t, err)

	h := &harness{editor: editor, now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	h.sb = statusbar.New(statusbar.DefaultConfig(&theme.PaperDark))
	h.mh = New(Config{
		Editor:         editor,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   events,
		StatusBar:      h.sb,
		Quit:           func(force bool) { h.quits = append(h.quits, force) },
		LeaderTimeout:  500 * time.Millisecond,
	})
	h.mh.now = func() time.Time { return h.now }
	return h
}

func (h *harness) key(k tcell.Key, mod tcell.ModMask) {
	h.mh.HandleKeyEvent(tcell.NewEventKey(k, 0, mod))
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.mh.HandleKeyEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (h *harness) status() string {
	text, _ := h.sb.Text()
	return text
}

func TestLeader_AppliesCommandToSelection(t *testing.T) {
	h := newHarness(t)
	h.typeText("hello")
	for i := 0; i < 5; i++ {
		h.key(tcell.KeyLeft, tcell.ModShift)
	}
	require.True(t, h.editor.HasSelection())

	h.key(tcell.KeyCtrlK, tcell.ModCtrl)
	assert.True(t, h.mh.IsLeaderWaiting())
	h.typeText("b")

	assert.False(t, h.mh.IsLeaderWaiting())
	assert.Equal(t, "<p><strong>hello</strong></p>", h.editor.Serialize())
	assert.Equal(t, "bold", h.status())
}

func TestLeader_CaretSetsPendingMarks(t *testing.T) {
	h := newHarness(t)
	h.key(tcell.KeyCtrlK, tcell.ModCtrl)
	h.typeText("ix")

	assert.Equal(t, "<p><em>x</em></p>", h.editor.Serialize())
}

func TestLeader_RejectedCommandReported(t *testing.T) {
	h := newHarness(t)
	h.typeText("abc")
	h.key(tcell.KeyCtrlK, tcell.ModCtrl)
	h.typeText("q")

	assert.Equal(t, "<p>abc</p>", h.editor.Serialize())
	assert.Contains(t, h.status(), "requires a selection")
}

func TestLeader_TimesOut(t *testing.T) {
	h := newHarness(t)
	h.key(tcell.KeyCtrlK, tcell.ModCtrl)
	h.now = h.now.Add(time.Second)
	h.typeText("b")

	assert.Equal(t, "<p>b</p>", h.editor.Serialize())
}

func TestLeader_UnboundKey(t *testing.T) {
	h := newHarness(t)
	h.key(tcell.KeyCtrlK, tcell.ModCtrl)
	h.typeText("z")

	assert.Equal(t, "<p></p>", h.editor.Serialize())
	assert.Equal(t, "Ctrl+K z is not bound", h.status())
}

func TestCommandMode(t *testing.T) {
	h := newHarness(t)
	var got [][]string
	require.NoError(t, h.mh.RegisterCommand("greet", func(args []string) error {
		got = append(got, args)
		return nil
	}))
	require.NoError(t, h.mh.RegisterCommand("fail", func([]string) error { return errors.New("nope") }))
	require.NoError(t, h.mh.RegisterCommand("s", func(args []string) error {
		got = append(got, args)
		return nil
	}))
	assert.Error(t, h.mh.RegisterCommand("greet", nil))

	h.key(tcell.KeyCtrlP, tcell.ModCtrl)
	assert.Equal(t, ModeCommand, h.mh.GetCurrentMode())
	h.typeText("greet a bx")
	h.key(tcell.KeyBackspace2, tcell.ModNone)
	assert.Equal(t, "greet a b", h.mh.GetCommandBuffer())
	h.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, ModeNormal, h.mh.GetCurrentMode())

	h.key(tcell.KeyCtrlP, tcell.ModCtrl)
	h.typeText("s/a b/c/g")
	h.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, [][]string{{"a", "b"}, {"/a b/c/g"}}, got)

	h.key(tcell.KeyCtrlP, tcell.ModCtrl)
	h.typeText("fail")
	h.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, "Error executing command 'fail': nope", h.status())

	h.key(tcell.KeyCtrlP, tcell.ModCtrl)
	h.typeText("missing")
	h.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, "Unknown command: missing", h.status())

	// Nothing typed into the document.
	assert.Equal(t, "<p></p>", h.editor.Serialize())
}

func TestFindMode(t *testing.T) {
	h := newHarness(t)
	h.typeText("cat and cat")

	h.key(tcell.KeyCtrlF, tcell.ModCtrl)
	assert.Equal(t, ModeFind, h.mh.GetCurrentMode())
	h.typeText("cat")
	h.key(tcell.KeyEnter, tcell.ModNone)

	assert.Equal(t, ModeNormal, h.mh.GetCurrentMode())
	assert.Equal(t, document.Point{Block: 0, Offset: 0}, h.editor.CaretPoint())
	assert.Equal(t, "Found: 'cat' (2 matches)", h.status())

	h.key(tcell.KeyF3, tcell.ModNone)
	assert.Equal(t, document.Point{Block: 0, Offset: 8}, h.editor.CaretPoint())
	h.key(tcell.KeyF3, tcell.ModShift)
	assert.Equal(t, document.Point{Block: 0, Offset: 0}, h.editor.CaretPoint())

	h.key(tcell.KeyEscape, tcell.ModNone)
	assert.False(t, h.editor.GetFindManager().HasHighlights())
	assert.Empty(t, h.quits)
}

func TestQuit_AsksBeforeDiscarding(t *testing.T) {
	h := newHarness(t)
	h.typeText("draft")

	h.key(tcell.KeyEscape, tcell.ModNone)
	assert.Empty(t, h.quits)
	assert.Contains(t, h.status(), "Unsaved changes")

	h.key(tcell.KeyEscape, tcell.ModNone)
	assert.Equal(t, []bool{false}, h.quits)

	h.key(tcell.KeyCtrlQ, tcell.ModCtrl)
	assert.Equal(t, []bool{false, true}, h.quits)
}

func TestClipboardAndHistoryKeys(t *testing.T) {
	h := newHarness(t)
	h.typeText("one")
	h.key(tcell.KeyEnter, tcell.ModNone)

	h.key(tcell.KeyCtrlC, tcell.ModCtrl)
	assert.Equal(t, "Nothing selected", h.status())

	h.key(tcell.KeyHome, tcell.ModCtrl|tcell.ModShift)
	h.key(tcell.KeyCtrlX, tcell.ModCtrl)
	assert.Equal(t, "Selection cut", h.status())
	assert.Equal(t, "<p></p>", h.editor.Serialize())

	h.key(tcell.KeyCtrlZ, tcell.ModCtrl)
	assert.Equal(t, "<p>one</p><p></p>", h.editor.Serialize())
	h.key(tcell.KeyCtrlY, tcell.ModCtrl)
	assert.Equal(t, "<p></p>", h.editor.Serialize())
	h.key(tcell.KeyCtrlY, tcell.ModCtrl)
	assert.Equal(t, "Nothing to redo", h.status())
}

func TestBracketedPaste(t *testing.T) {
	h := newHarness(t)
	var keys int
	h.editor.GetEventManager().Subscribe(event.TypeKeyPressed, func(event.Event) bool {
		keys++
		return false
	})

	h.mh.HandlePasteEvent(tcell.NewEventPaste(true))
	h.typeText("a")
	h.key(tcell.KeyEnter, tcell.ModNone)
	h.key(tcell.KeyEnter, tcell.ModNone)
	h.typeText("b")
	assert.True(t, h.mh.HandlePasteEvent(tcell.NewEventPaste(false)))

	assert.Zero(t, keys)
	assert.Equal(t, "<p>a</p><p>b</p>", h.editor.Serialize())
}
