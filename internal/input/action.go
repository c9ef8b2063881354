// internal/input/action.go
package input

// Action represents a command or operation to be performed by the editor.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown   Action = iota // Default/invalid action
	ActionQuit                    // Esc: clears find highlights first, asks before discarding changes
	ActionForceQuit               // Quit without checking modified status
	ActionSave

	// --- Cursor Movement ---
	ActionMoveUp // previous block
	ActionMoveDown
	ActionMoveLeft // previous character
	ActionMoveRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome // Beginning of block
	ActionMoveEnd  // End of block
	ActionMoveDocumentStart
	ActionMoveDocumentEnd

	// --- Text Manipulation ---
	ActionInsertRune         // Requires Rune argument
	ActionInsertNewLine      // Enter: splits the block
	ActionInsertLineBreak    // Alt+Enter: line break inside the block
	ActionDeleteCharForward  // Delete key
	ActionDeleteCharBackward // Backspace key

	// --- Clipboard & History ---
	ActionCopy
	ActionCut
	ActionPaste
	ActionUndo
	ActionRedo

	// --- Editor Mode ---
	ActionEnterCommandMode
	ActionEnterFindMode
	ActionFindNext
	ActionFindPrevious
	ActionLeader // Starts a formatting chord
)

var actionNames = map[Action]string{
	ActionUnknown:            "unknown",
	ActionQuit:               "quit",
	ActionForceQuit:          "force-quit",
	ActionSave:               "save",
	ActionMoveUp:             "move-up",
	ActionMoveDown:           "move-down",
	ActionMoveLeft:           "move-left",
	ActionMoveRight:          "move-right",
	ActionMovePageUp:         "page-up",
	ActionMovePageDown:       "page-down",
	ActionMoveHome:           "home",
	ActionMoveEnd:            "end",
	ActionMoveDocumentStart:  "document-start",
	ActionMoveDocumentEnd:    "document-end",
	ActionInsertRune:         "insert-rune",
	ActionInsertNewLine:      "new-line",
	ActionInsertLineBreak:    "line-break",
	ActionDeleteCharForward:  "delete-forward",
	ActionDeleteCharBackward: "delete-backward",
	ActionCopy:               "copy",
	ActionCut:                "cut",
	ActionPaste:              "paste",
	ActionUndo:               "undo",
	ActionRedo:               "redo",
	ActionEnterCommandMode:   "command-mode",
	ActionEnterFindMode:      "find-mode",
	ActionFindNext:           "find-next",
	ActionFindPrevious:       "find-previous",
	ActionLeader:             "leader",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// IsMovement reports whether the action only moves the caret.
func (a Action) IsMovement() bool {
	return a >= ActionMoveUp && a <= ActionMoveDocumentEnd
}

// ActionEvent represents a decoded input event resulting in an action.
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
}
