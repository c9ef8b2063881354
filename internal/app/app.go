// internal/app/app.go
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/prose/internal/config"
	"github.com/bethropolis/prose/internal/core"
	"github.com/bethropolis/prose/internal/core/clipboard"
	"github.com/bethropolis/prose/internal/core/media"
	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/input"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/modehandler"
	"github.com/bethropolis/prose/internal/plugin"
	"github.com/bethropolis/prose/internal/sanitize"
	"github.com/bethropolis/prose/internal/statusbar"
	"github.com/bethropolis/prose/internal/theme"
	"github.com/bethropolis/prose/internal/tui"
)

// App encapsulates the core components and main loop of the editor. The
// goroutine running Run owns the editor; everything else reaches it
// through the channels below.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	editor        *core.Editor
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	themeManager  *theme.Manager
	editorAPI     *appEditorAPI

	// rows is the last drawn layout, used to place the cursor.
	rows []tui.Row

	events        chan tcell.Event
	posted        chan func()
	redrawRequest chan struct{}
	quit          chan struct{}
	quitOnce      sync.Once
}

// NewApp creates the application on the terminal screen and loads
// filePath, which may not exist yet.
func NewApp(cfg *config.Config, filePath string) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}
	return newApp(cfg, filePath, screen, clipboardFor(cfg))
}

func clipboardFor(cfg *config.Config) clipboard.System {
	if !cfg.Editor.SystemClipboard {
		return nil
	}
	return clipboard.NewSystem()
}

func newApp(cfg *config.Config, filePath string, screen tcell.Screen, system clipboard.System) (*App, error) {
	tuiManager, err := tui.NewWithScreen(screen)
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	san, err := sanitize.New(sanitize.Options{EmbedHosts: cfg.Sanitize.EmbedHosts})
	if err != nil {
		tuiManager.Close()
		return nil, err
	}

	eventManager := event.NewManager()
	editor, err := core.NewEditor(core.Options{
		Sanitizer: san,
		Uploader: media.DirUploader{
			Dir:      cfg.Media.UploadDir,
			BaseURL:  cfg.Media.BaseURL,
			MaxBytes: cfg.Media.MaxBytes,
		},
		Clipboard: system,
		Events:    eventManager,
		ScrollOff: cfg.Editor.ScrollOff,
	})
	if err != nil {
		tuiManager.Close()
		return nil, err
	}

	themeManager := theme.NewManager(themesDir())
	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		editor:        editor,
		statusBar:     statusbar.New(statusbar.DefaultConfig(themeManager.Current())),
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		themeManager:  themeManager,
		events:        make(chan tcell.Event, 64),
		posted:        make(chan func(), 64),
		redrawRequest: make(chan struct{}, 1),
		quit:          make(chan struct{}),
	}

	a.modeHandler = modehandler.New(modehandler.Config{
		Editor:         editor,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      a.statusBar,
		Quit:           a.requestQuit,
		LeaderTimeout:  config.LeaderTimeout,
	})
	a.editorAPI = newEditorAPI(a)

	a.subscribeEvents()

	if filePath != "" {
		if err := editor.Load(filePath); err != nil {
			if !errors.Is(err, document.ErrDeserializeFallback) {
				tuiManager.Close()
				return nil, err
			}
			logger.Warnf("App: %v", err)
			a.statusBar.SetTemporaryMessage("Loaded with unrecognized markup kept as text")
		}
	}

	if err := a.registerPlugins(); err != nil {
		logger.Errorf("App: %v", err)
	}
	if err := a.pluginManager.InitializePlugins(a.editorAPI); err != nil {
		logger.Errorf("App: %v", err)
	}

	a.resize()
	return a, nil
}

func themesDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, config.ConfigDirName, "themes")
}

// Run starts the event loop and drives the editor until quit.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer func() {
		if err := a.pluginManager.ShutdownPlugins(); err != nil {
			logger.Errorf("App: %v", err)
		}
	}()

	go a.eventLoop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("%s - Ctrl+S Save | Ctrl+K format | ESC Quit", config.AppName)
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.editor.IsModified() {
				logger.Warnf("Exited with unsaved changes.")
			}
			logger.Infof("Exiting application.")
			return nil
		case ev := <-a.events:
			if a.handleEvent(ev) {
				a.requestRedraw()
			}
		case <-a.editor.UploadsReady():
			if n := a.editor.ApplyUploads(); n > 0 {
				logger.Debugf("App: inserted %d media blocks", n)
			}
			a.statusBar.SetUploads(a.editor.InFlightUploads())
			a.requestRedraw()
		case fn := <-a.posted:
			fn()
			a.requestRedraw()
		case <-a.redrawRequest:
			a.drawEditor()
		}
	}
}

// eventLoop forwards terminal events to the owner goroutine.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.events <- ev:
		case <-a.quit:
			return
		}
	}
}

// handleEvent processes one terminal event and reports whether the
// screen needs a redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch eventData := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		a.resize()
		return true
	case *tcell.EventPaste:
		return a.modeHandler.HandlePasteEvent(eventData)
	case *tcell.EventKey:
		return a.modeHandler.HandleKeyEvent(eventData)
	}
	return false
}

// resize sizes the editor viewport to the screen. Every block takes at
// least one row plus a spacer.
func (a *App) resize() {
	_, h := a.tuiManager.Size()
	a.editor.SetViewSize(max(1, (h-a.cfg.Editor.StatusBarHeight+1)/2))
}

// post runs fn on the owner goroutine. It never blocks the caller once
// the app has quit.
func (a *App) post(fn func()) {
	select {
	case a.posted <- fn:
	case <-a.quit:
	}
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}

// requestQuit stops Run. Callers decide whether unsaved changes allow it.
func (a *App) requestQuit(force bool) {
	logger.Debugf("App: quit requested (force=%v)", force)
	a.quitOnce.Do(func() { close(a.quit) })
}

// setTheme switches the active theme and restyles the status bar.
func (a *App) setTheme(name string) error {
	if err := a.themeManager.SetTheme(name); err != nil {
		return err
	}
	a.statusBar.SetConfig(statusbar.DefaultConfig(a.themeManager.Current()))
	a.requestRedraw()
	return nil
}
