// internal/modehandler/modehandler.go
package modehandler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/prose/internal/core"
	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/input"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/plugin"
	"github.com/bethropolis/prose/internal/sanitize"
	"github.com/bethropolis/prose/internal/statusbar"
	"github.com/gdamore/tcell/v2"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
	ModeFind
)

func (m InputMode) String() string {
	switch m {
	case ModeCommand:
		return "COMMAND"
	case ModeFind:
		return "FIND"
	}
	return "NORMAL"
}

// ModeHandler manages input modes, command execution, and related state.
type ModeHandler struct {
	editor         *core.Editor
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	quit           func(force bool)
	leaderTimeout  time.Duration
	now            func() time.Time

	currentMode      InputMode
	cmdBuffer        string
	findBuffer       string
	commands         map[string]plugin.CommandFunc
	forceQuitPending bool

	lastSearchTerm    string
	lastSearchForward bool

	leaderWaiting bool
	leaderStarted time.Time

	pasting   bool
	pasteText strings.Builder
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Editor         *core.Editor
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
	// Quit ends the application.
	Quit          func(force bool)
	LeaderTimeout time.Duration
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Editor == nil || cfg.InputProcessor == nil || cfg.EventManager == nil || cfg.StatusBar == nil || cfg.Quit == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	return &ModeHandler{
		editor:         cfg.Editor,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		quit:           cfg.Quit,
		leaderTimeout:  cfg.LeaderTimeout,
		now:            time.Now,
		currentMode:    ModeNormal,
		commands:       make(map[string]plugin.CommandFunc),
	}
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	if mh.pasting {
		mh.collectPaste(ev)
		return false
	}

	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	if mh.leaderWaiting {
		if handled, redraw := mh.handleLeaderKey(ev); handled {
			return redraw
		}
	}

	actionEvent := mh.inputProcessor.ProcessEvent(ev)

	var actionProcessed bool
	switch mh.currentMode {
	case ModeNormal:
		actionProcessed = mh.executeAction(actionEvent, ev)
	case ModeCommand:
		actionProcessed = mh.handleActionCommand(actionEvent)
	case ModeFind:
		actionProcessed = mh.handleActionFind(actionEvent)
	default:
		logger.Warnf("Unknown input mode: %v", mh.currentMode)
	}
	mh.statusBar.SetEditorMode(mh.modeLabel())
	return actionProcessed
}

func (mh *ModeHandler) modeLabel() string {
	if mh.currentMode == ModeNormal {
		return ""
	}
	return mh.currentMode.String()
}

// HandlePasteEvent tracks bracketed paste. Keys typed between the start
// and end markers are collected and pasted as one plain text payload.
func (mh *ModeHandler) HandlePasteEvent(ev *tcell.EventPaste) bool {
	if ev.Start() {
		mh.pasting = true
		mh.pasteText.Reset()
		return false
	}
	if !mh.pasting {
		return false
	}
	mh.pasting = false
	text := mh.pasteText.String()
	mh.pasteText.Reset()
	if text == "" || mh.currentMode != ModeNormal {
		return false
	}
	return mh.pastePayload(sanitize.Payload{Text: text})
}

func (mh *ModeHandler) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		mh.pasteText.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		mh.pasteText.WriteByte('\n')
	case tcell.KeyTab:
		mh.pasteText.WriteByte('\t')
	}
}

func (mh *ModeHandler) pastePayload(p sanitize.Payload) bool {
	pasted, err := mh.editor.PastePayload(context.Background(), p)
	if err != nil {
		mh.statusBar.SetTemporaryMessage("Paste failed: %v", err)
		logger.Debugf("Paste error: %v", err)
		return true
	}
	if !pasted {
		mh.statusBar.SetTemporaryMessage("Nothing to paste")
		return true
	}
	mh.forceQuitPending = false
	return true
}

// RegisterCommand adds a command to the registry. Called via EditorAPI.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.DebugTagf("command", "Registered command ':%s'", name)
	return nil
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCommandBuffer returns the command being typed in command mode.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return mh.cmdBuffer
	}
	return ""
}

// GetFindBuffer returns the pattern being typed in find mode.
func (mh *ModeHandler) GetFindBuffer() string {
	if mh.currentMode == ModeFind {
		return mh.findBuffer
	}
	return ""
}

// IsLeaderWaiting reports an unfinished formatting chord.
func (mh *ModeHandler) IsLeaderWaiting() bool {
	return mh.leaderWaiting
}
