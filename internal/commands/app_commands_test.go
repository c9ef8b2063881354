package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prose/internal/core/command"
	"github.com/bethropolis/prose/internal/plugin"
	"github.com/bethropolis/prose/internal/theme"
)

// fakeAPI implements the calls the commands make; anything else panics
// through the nil embedded interface.
type fakeAPI struct {
	plugin.EditorAPI

	commands map[string]plugin.CommandFunc
	status   string
	modified bool
	path     string
	quits    []bool
	applied  []string
	uploads  []string
	replaced []string
	themes   *theme.Manager
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{commands: map[string]plugin.CommandFunc{}, themes: theme.NewManager(t.TempDir())}
	RegisterAppCommands(api)
	return api
}

func (f *fakeAPI) run(t *testing.T, name string, args ...string) error {
	t.Helper()
	fn, ok := f.commands[name]
	require.True(t, ok, "command %q not registered", name)
	return fn(args)
}

func (f *fakeAPI) RegisterCommand(name string, fn plugin.CommandFunc) error {
	if _, ok := f.commands[name]; ok {
		return fmt.Errorf("command '%s' already registered", name)
	}
	f.commands[name] = fn
	return nil
}

func (f *fakeAPI) SetStatusMessage(format string, args ...interface{}) {
	f.status = fmt.Sprintf(format, args...)
}

func (f *fakeAPI) IsModified() bool       { return f.modified }
func (f *fakeAPI) GetFilePath() string    { return f.path }
func (f *fakeAPI) RequestQuit(force bool) { f.quits = append(f.quits, force) }
func (f *fakeAPI) Undo() bool             { return false }
func (f *fakeAPI) Redo() bool             { return true }

func (f *fakeAPI) SaveDocument() error {
	if f.path == "" {
		return errors.New("no file name")
	}
	f.modified = false
	return nil
}

func (f *fakeAPI) SaveDocumentAs(path string) error {
	f.path = path
	return f.SaveDocument()
}

func (f *fakeAPI) ApplyCommand(name string) error {
	f.applied = append(f.applied, name)
	return nil
}

func (f *fakeAPI) UploadFiles(_ context.Context, paths ...string) error {
	f.uploads = append(f.uploads, paths...)
	return nil
}

func (f *fakeAPI) Replace(pattern, replacement string, global bool) (int, error) {
	f.replaced = append(f.replaced, fmt.Sprintf("%s>%s/%v", pattern, replacement, global))
	return 2, nil
}

func (f *fakeAPI) Find(pattern string) (bool, error) {
	return pattern == "cat", nil
}

func (f *fakeAPI) SetTheme(name string) error { return f.themes.SetTheme(name) }
func (f *fakeAPI) GetTheme() *theme.Theme     { return f.themes.Current() }
func (f *fakeAPI) ListThemes() []string       { return f.themes.ListThemes() }

func TestFileCommands(t *testing.T) {
	api := newFakeAPI(t)

	assert.EqualError(t, api.run(t, "w"), "no file name")
	require.NoError(t, api.run(t, "w", "post.html"))
	assert.Equal(t, "Saved post.html", api.status)

	api.modified = true
	assert.ErrorIs(t, api.run(t, "q"), ErrUnsavedChanges)
	assert.Empty(t, api.quits)

	require.NoError(t, api.run(t, "q!"))
	require.NoError(t, api.run(t, "wq"))
	assert.Equal(t, []bool{true, false}, api.quits)
	assert.False(t, api.modified)
}

func TestEditCommands(t *testing.T) {
	api := newFakeAPI(t)

	require.NoError(t, api.run(t, "undo"))
	assert.Equal(t, "Nothing to undo", api.status)

	require.NoError(t, api.run(t, "s", "/a b/c/g"))
	assert.Equal(t, []string{"a b>c/true"}, api.replaced)
	assert.Equal(t, "Replaced 2 occurrence(s)", api.status)
	assert.Error(t, api.run(t, "s", "nope"))
	assert.Error(t, api.run(t, "s"))

	require.NoError(t, api.run(t, "find", "dog"))
	assert.Equal(t, "Pattern not found: dog", api.status)

	require.NoError(t, api.run(t, "upload", "a.png", "b.jpg"))
	assert.Equal(t, []string{"a.png", "b.jpg"}, api.uploads)
	assert.Error(t, api.run(t, "upload"))
}

func TestFormattingCommands(t *testing.T) {
	api := newFakeAPI(t)

	for _, name := range command.Names {
		require.NoError(t, api.run(t, name))
	}
	assert.Equal(t, command.Names, api.applied)
}

func TestThemeCommands(t *testing.T) {
	api := newFakeAPI(t)

	require.NoError(t, api.run(t, "theme"))
	assert.Equal(t, "Current theme: Paper Dark", api.status)

	require.NoError(t, api.run(t, "theme", "paper", "light"))
	assert.Equal(t, "Paper Light", api.GetTheme().Name)

	err := api.run(t, "theme", "neon")
	assert.EqualError(t, err, "theme 'neon' not found. Available: Paper Dark, Paper Light")

	require.NoError(t, api.run(t, "themes"))
	assert.Equal(t, "Available themes: Paper Dark, Paper Light", api.status)
}
