package modehandler

import (
	"strings"

	"github.com/bethropolis/prose/internal/input"
	"github.com/bethropolis/prose/internal/logger"
)

// trimLastRune drops the last rune of s.
func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// handleActionCommand handles actions when in ModeCommand.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	actionProcessed := true
	needsUpdate := false

	switch actionEvent.Action {
	case input.ActionInsertRune:
		mh.cmdBuffer += string(actionEvent.Rune)
		needsUpdate = true

	case input.ActionDeleteCharBackward:
		if len(mh.cmdBuffer) > 0 {
			mh.cmdBuffer = trimLastRune(mh.cmdBuffer)
			needsUpdate = true
		} else {
			mh.currentMode = ModeNormal
			mh.statusBar.ResetTemporaryMessage()
			logger.Debugf("ModeHandler: Exiting Command Mode via Backspace")
		}

	case input.ActionInsertNewLine:
		mh.currentMode = ModeNormal
		mh.executeCommand()

	case input.ActionQuit:
		mh.currentMode = ModeNormal
		mh.cmdBuffer = ""
		mh.statusBar.ResetTemporaryMessage()
		logger.Debugf("ModeHandler: Canceled Command Mode via Escape")

	default:
		actionProcessed = false
	}

	if needsUpdate && mh.currentMode == ModeCommand {
		mh.statusBar.SetTemporaryMessage(":%s", mh.cmdBuffer)
	}

	return actionProcessed
}

// executeCommand parses and runs the command in cmdBuffer.
func (mh *ModeHandler) executeCommand() {
	cmdStr := strings.TrimSpace(mh.cmdBuffer)
	mh.cmdBuffer = ""
	if cmdStr == "" {
		mh.statusBar.ResetTemporaryMessage()
		return
	}

	cmdName, args := splitCommand(cmdStr)
	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return
	}
	logger.DebugTagf("command", "Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		mh.statusBar.SetTemporaryMessage("Error executing command '%s': %v", cmdName, err)
	}
}

// splitCommand separates the command name from its arguments. The
// substitute form ":s/a/b/g" keeps its pattern intact as one argument.
func splitCommand(cmdStr string) (string, []string) {
	if strings.HasPrefix(cmdStr, "s/") {
		return "s", []string{cmdStr[1:]}
	}
	parts := strings.Fields(cmdStr)
	return parts[0], parts[1:]
}
