// internal/plugin/plugin.go
package plugin

import (
	"context"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/sanitize"
	"github.com/bethropolis/prose/internal/theme"
	"github.com/bethropolis/prose/internal/types"
	"github.com/gdamore/tcell/v2"
)

// CommandFunc defines the signature for commands registered by plugins.
// It takes arguments (e.g., from user input) and returns an error.
type CommandFunc func(args []string) error

// EditorAPI defines the methods plugins can use to interact with the editor core.
// Every method except Post must be called from the goroutine that owns
// the editor: event handlers and commands run there already, plugin
// goroutines hand their work over with Post.
type EditorAPI interface {
	// --- Document Access ---
	GetDocument() document.Document // A copy; edits to it are not seen
	GetMarkup() string              // Serialized document
	GetFilePath() string
	IsModified() bool
	SaveDocument() error
	SaveDocumentAs(path string) error

	// --- Editing ---
	InsertText(text string)
	ApplyCommand(name string) error
	PasteMarkup(ctx context.Context, payload sanitize.Payload) (bool, error)
	UploadFiles(ctx context.Context, paths ...string) error
	Undo() bool
	Redo() bool
	Find(pattern string) (bool, error)
	Replace(pattern, replacement string, global bool) (int, error)

	// --- Caret & Selection ---
	GetCursor() types.Cursor
	SetCursor(c types.Cursor)
	GetSelection() types.Selection

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler)

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Scheduling ---
	// Post queues fn to run on the goroutine that owns the editor. It is
	// safe to call from any goroutine.
	Post(fn func())
	RequestQuit(force bool)

	// --- Theme Access ---
	GetThemeStyle(styleName string) tcell.Style
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded. Plugins
	// subscribe to events and register commands here.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}
