// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/prose/internal/config"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleModified  tcell.Style
	StyleMessage   tcell.Style
	StyleFindInput tcell.Style
	MessageTimeout time.Duration
}

// DefaultConfig takes the status bar styles from t.
func DefaultConfig(t *theme.Theme) Config {
	return Config{
		StyleDefault:   t.GetStyle("StatusBar"),
		StyleModified:  t.GetStyle("StatusBarModified"),
		StyleMessage:   t.GetStyle("StatusBarMessage"),
		StyleFindInput: t.GetStyle("StatusBarFind"),
		MessageTimeout: config.MessageTimeout,
	}
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	filePath   string
	isModified bool
	caret      document.Point
	blockKind  document.BlockKind
	marks      document.Marks
	editorMode string
	uploads    int

	tempMessage     string
	tempMessageTime time.Time
	now             func() time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{config: config, now: time.Now}
}

// SetConfig swaps the styles, e.g. after a theme change.
func (sb *StatusBar) SetConfig(config Config) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.config = config
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetCursorInfo updates the caret, the kind of its block and the marks
// typed text would get.
func (sb *StatusBar) SetCursorInfo(p document.Point, kind document.BlockKind, marks document.Marks) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.caret, sb.blockKind, sb.marks = p, kind, marks
}

// SetUploads updates the count of uploads in flight.
func (sb *StatusBar) SetUploads(n int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.uploads = n
}

// SetEditorMode updates the displayed editor mode.
func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editorMode = mode
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

func marksLabel(m document.Marks) string {
	var parts []string
	if m.Bold {
		parts = append(parts, "B")
	}
	if m.Italic {
		parts = append(parts, "I")
	}
	if m.Underline {
		parts = append(parts, "U")
	}
	switch m.Highlight {
	case document.HighlightSimple:
		parts = append(parts, "H")
	case document.HighlightAnimated:
		parts = append(parts, "H~")
	}
	if m.Href != "" {
		parts = append(parts, "link")
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}

// getDefaultDisplayText builds the default status line text. The caller
// holds the lock.
func (sb *StatusBar) getDefaultDisplayText() string {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	modifiedIndicator := ""
	if sb.isModified {
		modifiedIndicator = " [Modified]"
	}
	modeIndicator := ""
	if sb.editorMode != "" {
		modeIndicator = fmt.Sprintf(" -- %s", sb.editorMode)
	}
	uploads := ""
	if sb.uploads > 0 {
		uploads = fmt.Sprintf(" -- uploading %d", sb.uploads)
	}
	return fmt.Sprintf("%s%s -- Block: %d (%s), Char: %d%s%s%s",
		fPath, modifiedIndicator, sb.caret.Block+1, sb.blockKind, sb.caret.Offset+1,
		marksLabel(sb.marks), uploads, modeIndicator)
}

// Text returns what Draw would show now and the style to draw it with.
func (sb *StatusBar) Text() (string, tcell.Style) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	active := !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !active {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	switch {
	case active && strings.HasPrefix(sb.tempMessage, "/"):
		return sb.tempMessage, sb.config.StyleFindInput
	case active:
		return sb.tempMessage, sb.config.StyleMessage
	case sb.isModified:
		return sb.getDefaultDisplayText(), sb.config.StyleModified
	}
	return sb.getDefaultDisplayText(), sb.config.StyleDefault
}

// Draw renders the status bar on the last screen line.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1
	text, style := sb.Text()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		screen.SetContent(currentX, y, runes[0], runes[1:], style)
		currentX += clusterWidth
	}
}
