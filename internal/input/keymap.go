// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/prose/internal/core/command"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// LeaderMap maps the key typed after the leader to a formatting command.
type LeaderMap map[rune]string

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap    Keymap
	modKeymap ModKeymap
	leaderMap LeaderMap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:    make(Keymap),
		modKeymap: make(ModKeymap),
		leaderMap: make(LeaderMap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward // Often used for Backspace
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyF3] = ActionFindNext

	// Control keys carry their modifier in the key code itself, so they
	// live in the plain map.
	p.keymap[tcell.KeyCtrlS] = ActionSave
	p.keymap[tcell.KeyCtrlQ] = ActionForceQuit
	p.keymap[tcell.KeyCtrlC] = ActionCopy
	p.keymap[tcell.KeyCtrlX] = ActionCut
	p.keymap[tcell.KeyCtrlV] = ActionPaste
	p.keymap[tcell.KeyCtrlZ] = ActionUndo
	p.keymap[tcell.KeyCtrlY] = ActionRedo
	p.keymap[tcell.KeyCtrlF] = ActionEnterFindMode
	p.keymap[tcell.KeyCtrlN] = ActionFindNext
	p.keymap[tcell.KeyCtrlP] = ActionEnterCommandMode
	p.keymap[tcell.KeyCtrlK] = ActionLeader

	// --- Modifier Keys ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyHome] = ActionMoveDocumentStart
	ctrlMap[tcell.KeyEnd] = ActionMoveDocumentEnd
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	altMap := make(Keymap)
	altMap[tcell.KeyEnter] = ActionInsertLineBreak
	p.modKeymap[tcell.ModAlt] = altMap

	shiftMap := make(Keymap)
	shiftMap[tcell.KeyF3] = ActionFindPrevious
	p.modKeymap[tcell.ModShift] = shiftMap

	// --- Leader chords (Ctrl+K, then the key) ---
	p.leaderMap['b'] = command.Bold
	p.leaderMap['i'] = command.Italic
	p.leaderMap['u'] = command.Underline
	p.leaderMap['h'] = command.Heading3
	p.leaderMap['q'] = command.Quote
	p.leaderMap['l'] = command.ListItem
	p.leaderMap['n'] = command.InfoBox
	p.leaderMap['-'] = command.Separator
	p.leaderMap['m'] = command.HighlightSimple
	p.leaderMap['M'] = command.HighlightAnimated
	p.leaderMap['e'] = command.AlignLeft
	p.leaderMap['c'] = command.AlignCenter
	p.leaderMap['r'] = command.AlignRight
	p.leaderMap['j'] = command.AlignJustify
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
// The input mode is not handled here; the mode handler interprets the action.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	// 1. Modifier + Key combinations, with and without Shift (Shift only
	// extends the selection).
	for _, m := range []tcell.ModMask{mod, mod &^ tcell.ModShift} {
		if m == tcell.ModNone {
			continue
		}
		if modKeyMap, ok := p.modKeymap[m]; ok {
			if action, ok := modKeyMap[key]; ok {
				return ActionEvent{Action: action}
			}
		}
	}

	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}

	// 2. Simple keys.
	if mod&^tcell.ModShift == tcell.ModNone {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Typed text. Shift is part of the rune already.
	if key == tcell.KeyRune && mod&^tcell.ModShift == tcell.ModNone {
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	}

	if key == tcell.KeyEnter {
		return ActionEvent{Action: ActionInsertNewLine}
	}

	return ActionEvent{Action: ActionUnknown}
}

// LeaderCommand returns the formatting command bound to r after the leader.
func (p *InputProcessor) LeaderCommand(r rune) (string, bool) {
	name, ok := p.leaderMap[r]
	return name, ok
}

// BindLeader binds r after the leader to a command name.
func (p *InputProcessor) BindLeader(r rune, command string) {
	p.leaderMap[r] = command
}
