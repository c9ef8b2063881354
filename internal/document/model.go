// Package document holds the in-memory article body: an ordered list of
// blocks whose text content is a tree of inline formatting nodes. It also
// owns the two-way mapping between that tree and the persisted markup.
package document

import (
	"fmt"

	"github.com/google/uuid"
)

// BlockKind tags the variant of a Block.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading3
	Blockquote
	ListItem
	InfoBox
	Separator
	Image
	VideoEmbed
)

var blockKindNames = [...]string{
	Paragraph:  "paragraph",
	Heading3:   "heading3",
	Blockquote: "blockquote",
	ListItem:   "list-item",
	InfoBox:    "info-box",
	Separator:  "separator",
	Image:      "image",
	VideoEmbed: "video",
}

func (k BlockKind) String() string {
	if k >= 0 && int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// IsText reports whether blocks of this kind carry inline content.
func (k BlockKind) IsText() bool {
	return k >= Paragraph && k <= InfoBox
}

// Align is the per-block horizontal alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

var alignNames = [...]string{"left", "center", "right", "justify"}

func (a Align) String() string {
	if a >= 0 && int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "left"
}

// ParseAlign maps "left|center|right|justify" to an Align.
func ParseAlign(s string) (Align, bool) {
	for i, name := range alignNames {
		if name == s {
			return Align(i), true
		}
	}
	return AlignLeft, false
}

// InlineKind tags the variant of an Inline.
type InlineKind int

const (
	Text InlineKind = iota
	Bold
	Italic
	Underline
	Highlight
	Link
)

// HighlightStyle distinguishes the two highlight renderings.
// The zero value means "no highlight" where a style is optional.
type HighlightStyle int

const (
	HighlightNone HighlightStyle = iota
	HighlightSimple
	HighlightAnimated
)

// Inline is a node of a block's inline content. Text nodes carry Value;
// every other kind carries Children.
type Inline struct {
	Kind     InlineKind
	Value    string
	Style    HighlightStyle
	Href     string
	Children []Inline
}

// Block is a top-level structural unit of the document.
// ID identifies the block across edits; it is not persisted and is ignored
// by Equal.
type Block struct {
	ID      string
	Kind    BlockKind
	Align   Align
	Inlines []Inline
	URL     string
	Alt     string
}

// Document is the article body. After Normalize it always holds at least
// one block.
type Document struct {
	Blocks []Block
}

func newID() string {
	return uuid.NewString()
}

// NewText returns a text leaf.
func NewText(s string) Inline { return Inline{Kind: Text, Value: s} }

// NewBold wraps children in a Bold node.
func NewBold(children ...Inline) Inline { return Inline{Kind: Bold, Children: children} }

// NewItalic wraps children in an Italic node.
func NewItalic(children ...Inline) Inline { return Inline{Kind: Italic, Children: children} }

// NewUnderline wraps children in an Underline node.
func NewUnderline(children ...Inline) Inline { return Inline{Kind: Underline, Children: children} }

// NewHighlight wraps children in a Highlight node of the given style.
func NewHighlight(style HighlightStyle, children ...Inline) Inline {
	return Inline{Kind: Highlight, Style: style, Children: children}
}

// NewLink wraps children in a Link node.
func NewLink(href string, children ...Inline) Inline {
	return Inline{Kind: Link, Href: href, Children: children}
}

// NewBlock returns a text-bearing block of the given kind.
func NewBlock(kind BlockKind, inlines ...Inline) Block {
	return Block{ID: newID(), Kind: kind, Inlines: inlines}
}

// NewParagraph returns a paragraph block.
func NewParagraph(inlines ...Inline) Block { return NewBlock(Paragraph, inlines...) }

// NewSeparator returns a separator block.
func NewSeparator() Block { return Block{ID: newID(), Kind: Separator} }

// NewImage returns an image block.
func NewImage(url, alt string) Block { return Block{ID: newID(), Kind: Image, URL: url, Alt: alt} }

// NewVideo returns a video embed block.
func NewVideo(embedURL string) Block { return Block{ID: newID(), Kind: VideoEmbed, URL: embedURL} }

// New builds a normalized document from blocks.
func New(blocks ...Block) Document {
	d := Document{Blocks: blocks}
	d.Normalize()
	return d
}

// Empty returns a document holding a single empty paragraph.
func Empty() Document {
	return New()
}

// Clone returns a deep copy sharing no memory with d. Block IDs are kept.
func (d Document) Clone() Document {
	out := Document{Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		out.Blocks[i] = b.Clone()
	}
	return out
}

// Clone returns a deep copy of the block, including its ID.
func (b Block) Clone() Block {
	c := b
	c.Inlines = cloneInlines(b.Inlines)
	return c
}

func cloneInlines(in []Inline) []Inline {
	if in == nil {
		return nil
	}
	out := make([]Inline, len(in))
	for i, n := range in {
		out[i] = n
		out[i].Children = cloneInlines(n.Children)
	}
	return out
}

// IndexOf returns the index of the block with the given ID, or -1.
func (d Document) IndexOf(id string) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Equal reports structural equality, ignoring block IDs.
func Equal(a, b Document) bool {
	if len(a.Blocks) != len(b.Blocks) {
		return false
	}
	for i := range a.Blocks {
		if !blockEqual(a.Blocks[i], b.Blocks[i]) {
			return false
		}
	}
	return true
}

func blockEqual(a, b Block) bool {
	return a.Kind == b.Kind && a.Align == b.Align && a.URL == b.URL && a.Alt == b.Alt &&
		inlinesEqual(a.Inlines, b.Inlines)
}

func inlinesEqual(a, b []Inline) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Kind != y.Kind || x.Value != y.Value || x.Style != y.Style || x.Href != y.Href {
			return false
		}
		if !inlinesEqual(x.Children, y.Children) {
			return false
		}
	}
	return true
}

// PlainText returns the block's text with formatting removed.
func (b Block) PlainText() string {
	var out []byte
	var walk func([]Inline)
	walk = func(nodes []Inline) {
		for _, n := range nodes {
			if n.Kind == Text {
				out = append(out, n.Value...)
				continue
			}
			walk(n.Children)
		}
	}
	walk(b.Inlines)
	return string(out)
}
