// internal/app/editor_api.go
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/bethropolis/prose/internal/commands"
	"github.com/bethropolis/prose/internal/core/media"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/plugin"
	"github.com/bethropolis/prose/internal/sanitize"
	"github.com/bethropolis/prose/internal/theme"
	"github.com/bethropolis/prose/internal/types"
)

// Ensure appEditorAPI implements the plugin.EditorAPI interface.
var _ plugin.EditorAPI = (*appEditorAPI)(nil)

var _ commands.ThemeAPI = (*appEditorAPI)(nil)

// appEditorAPI provides the concrete implementation of the EditorAPI interface.
type appEditorAPI struct {
	app *App
}

func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

// --- Document Access ---

func (api *appEditorAPI) GetDocument() document.Document {
	return api.app.editor.GetDocument()
}

func (api *appEditorAPI) GetMarkup() string {
	return api.app.editor.Serialize()
}

func (api *appEditorAPI) GetFilePath() string {
	return api.app.editor.FilePath()
}

func (api *appEditorAPI) IsModified() bool {
	return api.app.editor.IsModified()
}

func (api *appEditorAPI) SaveDocument() error {
	return api.app.editor.Save()
}

func (api *appEditorAPI) SaveDocumentAs(path string) error {
	return api.app.editor.SaveAs(path)
}

// --- Editing ---

func (api *appEditorAPI) InsertText(text string) {
	api.app.editor.InsertText(text)
	api.app.requestRedraw()
}

func (api *appEditorAPI) ApplyCommand(name string) error {
	defer api.app.requestRedraw()
	return api.app.editor.ApplyCommand(name)
}

func (api *appEditorAPI) PasteMarkup(ctx context.Context, payload sanitize.Payload) (bool, error) {
	defer api.app.requestRedraw()
	return api.app.editor.PastePayload(ctx, payload)
}

// UploadFiles reads the files at paths and starts uploading them at the
// caret. Unreadable files are reported; the rest still upload.
func (api *appEditorAPI) UploadFiles(ctx context.Context, paths ...string) error {
	var files []media.File
	var errs error
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read %s: %w", p, err))
			continue
		}
		files = append(files, media.File{Name: filepath.Base(p), Data: data})
	}
	if len(files) > 0 {
		if _, err := api.app.editor.Drop(ctx, files...); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	api.app.statusBar.SetUploads(api.app.editor.InFlightUploads())
	api.app.requestRedraw()
	return errs
}

func (api *appEditorAPI) Undo() bool {
	defer api.app.requestRedraw()
	return api.app.editor.Undo()
}

func (api *appEditorAPI) Redo() bool {
	defer api.app.requestRedraw()
	return api.app.editor.Redo()
}

func (api *appEditorAPI) Find(pattern string) (bool, error) {
	defer api.app.requestRedraw()
	_, found, err := api.app.editor.Find(pattern)
	return found, err
}

func (api *appEditorAPI) Replace(pattern, replacement string, global bool) (int, error) {
	defer api.app.requestRedraw()
	return api.app.editor.Replace(pattern, replacement, global)
}

// --- Caret & Selection ---

func (api *appEditorAPI) GetCursor() types.Cursor {
	return api.app.editor.GetCursor()
}

func (api *appEditorAPI) SetCursor(c types.Cursor) {
	api.app.editor.SetCursor(c)
	api.app.requestRedraw()
}

func (api *appEditorAPI) GetSelection() types.Selection {
	return api.app.editor.GetSelection()
}

// --- Event Bus Interaction ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

// --- Command Registration ---

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	return api.app.modeHandler.RegisterCommand(name, cmdFunc)
}

// --- Status Bar ---

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.statusBar.SetTemporaryMessage(format, args...)
	api.app.requestRedraw()
}

// --- Scheduling ---

func (api *appEditorAPI) Post(fn func()) {
	api.app.post(fn)
}

func (api *appEditorAPI) RequestQuit(force bool) {
	api.app.requestQuit(force)
}

// --- Theme Access ---

func (api *appEditorAPI) GetThemeStyle(styleName string) tcell.Style {
	return api.app.themeManager.Current().GetStyle(styleName)
}

func (api *appEditorAPI) SetTheme(name string) error {
	return api.app.setTheme(name)
}

func (api *appEditorAPI) GetTheme() *theme.Theme {
	return api.app.themeManager.Current()
}

func (api *appEditorAPI) ListThemes() []string {
	return api.app.themeManager.ListThemes()
}
