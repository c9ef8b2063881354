package media

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/prose/internal/document"
)

// Anchor is an insertion position captured before an upload starts. It
// names its block by ID so that it follows the block through edits made
// while the upload is in flight; Follow keeps the offset in step with the
// block's text.
type Anchor struct {
	BlockID string
	Offset  int

	// index and text are the block's position and text as last seen.
	index int
	text  string
}

// AnchorAt captures p in doc.
func AnchorAt(doc document.Document, p document.Point) Anchor {
	p = doc.ClampPoint(p)
	a := Anchor{Offset: p.Offset}
	return a.seen(doc, p.Block)
}

func (a Anchor) seen(doc document.Document, i int) Anchor {
	if i < 0 || i >= len(doc.Blocks) {
		return a
	}
	a.BlockID = doc.Blocks[i].ID
	a.index = i
	a.text = doc.Blocks[i].PlainText()
	return a
}

// Follow moves the anchor along with the edits that turned the document
// it last saw into doc. Text typed or deleted before the anchor shifts it;
// a split before it carries it into the new block; a join carries it into
// the block it was joined to.
func (a Anchor) Follow(doc document.Document) Anchor {
	if a.BlockID == "" {
		return a
	}
	i := doc.IndexOf(a.BlockID)
	if i < 0 {
		return a.followJoin(doc)
	}
	now := doc.Blocks[i].PlainText()
	if now == a.text {
		a.index = i
		return a
	}

	old, cur := clusters(a.text), clusters(now)
	pre := commonPrefix(old, cur)
	suf := commonSuffix(old[pre:], cur[pre:])
	switch {
	case a.Offset <= pre:
	case pre == len(cur):
		// The block lost its end. After Enter that end starts the next
		// text block.
		rest := strings.Join(old[pre:], "")
		if j := nextTextBlock(doc, i); j >= 0 && strings.HasPrefix(doc.Blocks[j].PlainText(), rest) {
			a.Offset -= pre
			return a.seen(doc, j)
		}
		a.Offset = pre
	case a.Offset >= len(old)-suf:
		a.Offset += len(cur) - len(old)
	default:
		// Inside the replaced span.
		a.Offset = len(cur) - suf
	}
	return a.seen(doc, i)
}

// followJoin handles a block that disappeared because it was joined to
// the end of the text block before it.
func (a Anchor) followJoin(doc document.Document) Anchor {
	for j := min(a.index, len(doc.Blocks)) - 1; j >= 0; j-- {
		if !doc.Blocks[j].Kind.IsText() {
			continue
		}
		text := doc.Blocks[j].PlainText()
		if a.text == "" || !strings.HasSuffix(text, a.text) {
			return a
		}
		a.Offset += document.TextLen(text) - document.TextLen(a.text)
		return a.seen(doc, j)
	}
	return a
}

// Resolve finds the anchor in the current doc. It reports false when the
// block was deleted in the meantime.
func (a Anchor) Resolve(doc document.Document) (document.Point, bool) {
	i := doc.IndexOf(a.BlockID)
	if a.BlockID == "" || i < 0 {
		return document.Point{}, false
	}
	return doc.ClampPoint(document.Point{Block: i, Offset: a.Offset}), true
}

// Insert places blk at the anchor, or appends it to the end of doc when
// the anchor block is gone. It returns the index of the inserted block.
// The points in track keep their place in the text.
func Insert(doc *document.Document, a Anchor, blk document.Block, track ...*document.Point) int {
	if p, ok := a.Resolve(*doc); ok {
		return doc.InsertAtomic(p, blk, track...)
	}
	return doc.Append(blk)
}

func nextTextBlock(doc document.Document, i int) int {
	for j := i + 1; j < len(doc.Blocks); j++ {
		if doc.Blocks[j].Kind.IsText() {
			return j
		}
	}
	return -1
}

func clusters(s string) []string {
	var out []string
	state := -1
	for s != "" {
		var c string
		c, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, c)
	}
	return out
}

func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}
