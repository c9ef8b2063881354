// Package command applies named formatting operations to a selection of a
// document. The set of names is closed; see Names.
package command

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
)

var (
	// ErrRequiresSelection is returned, with no mutation, when a command
	// that works on a span is invoked on a collapsed selection.
	ErrRequiresSelection = errors.New("command requires a selection")
	// ErrUnknownCommand is returned for names outside Names.
	ErrUnknownCommand = errors.New("unknown command")
)

const (
	Bold              = "bold"
	Italic            = "italic"
	Underline         = "underline"
	Heading3          = "heading3"
	Quote             = "quote"
	ListItem          = "list-item"
	AlignLeft         = "align-left"
	AlignCenter       = "align-center"
	AlignRight        = "align-right"
	AlignJustify      = "align-justify"
	HighlightSimple   = "highlight-simple"
	HighlightAnimated = "highlight-animated"
	InfoBox           = "info-box"
	Separator         = "separator"
)

// Names lists every valid command name.
var Names = []string{
	Bold, Italic, Underline, Heading3, Quote, ListItem,
	AlignLeft, AlignCenter, AlignRight, AlignJustify,
	HighlightSimple, HighlightAnimated, InfoBox, Separator,
}

// Valid reports whether name is a command.
func Valid(name string) bool {
	return slices.Contains(Names, name)
}

// Selection is a selection in flat points.
type Selection struct {
	Anchor document.Point
	Focus  document.Point
}

// Collapsed reports whether anchor and focus coincide.
func (s Selection) Collapsed() bool {
	return document.ComparePoints(s.Anchor, s.Focus) == 0
}

// Ordered returns the selection ends in document order.
func (s Selection) Ordered() (document.Point, document.Point) {
	return document.OrderPoints(s.Anchor, s.Focus)
}

// Result is the outcome of a successful command.
type Result struct {
	// Selection is where the selection should be after the command.
	Selection Selection
	// Pending holds the marks for the next typed text when a mark command
	// toggled them on a collapsed selection; nil otherwise.
	Pending *document.Marks
	// Changed reports whether the document was mutated.
	Changed bool
}

// Context is the input of a command handler.
type Context struct {
	Doc       *document.Document
	Selection Selection
	// Pending are the marks the next typed text will get, nil if inherited.
	Pending *document.Marks
}

type handler struct {
	requiresSelection bool
	apply             func(ctx Context) Result
}

var handlers = map[string]handler{}

func register(name string, requiresSelection bool, apply func(ctx Context) Result) {
	handlers[name] = handler{requiresSelection: requiresSelection, apply: apply}
}

// Apply runs the named command. Commands execute synchronously and either
// fully apply or leave doc untouched.
func Apply(doc *document.Document, sel Selection, name string, pending *document.Marks) (Result, error) {
	h, ok := handlers[name]
	if !ok {
		logger.DebugTagf("command", "unknown command %q", name)
		return Result{Selection: sel}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	sel.Anchor = doc.ClampPoint(sel.Anchor)
	sel.Focus = doc.ClampPoint(sel.Focus)
	if h.requiresSelection && sel.Collapsed() {
		logger.DebugTagf("command", "%s rejected: collapsed selection", name)
		return Result{Selection: sel}, fmt.Errorf("%s: %w", name, ErrRequiresSelection)
	}
	res := h.apply(Context{Doc: doc, Selection: sel, Pending: pending})
	logger.DebugTagf("command", "%s applied (changed=%v)", name, res.Changed)
	return res, nil
}

// span is the part of one block covered by a selection.
type span struct {
	block    int
	from, to int
}

// spans returns the covered part of every text block in [start, end).
func spans(doc *document.Document, start, end document.Point) []span {
	var out []span
	for b := start.Block; b <= end.Block; b++ {
		if !doc.Blocks[b].Kind.IsText() {
			continue
		}
		s := span{block: b, from: 0, to: doc.BlockLen(b)}
		if b == start.Block {
			s.from = start.Offset
		}
		if b == end.Block {
			s.to = end.Offset
		}
		if s.to > s.from {
			out = append(out, s)
		}
	}
	return out
}

// coveredBlocks returns the indexes of the text blocks a selection touches.
// A selection ending at the very start of a block does not touch it.
func coveredBlocks(doc *document.Document, sel Selection) []int {
	start, end := sel.Ordered()
	last := end.Block
	if end.Offset == 0 && end.Block > start.Block {
		last--
	}
	var out []int
	for b := start.Block; b <= last; b++ {
		if doc.Blocks[b].Kind.IsText() {
			out = append(out, b)
		}
	}
	return out
}
