package document

import "strings"

// MarksAt returns the marks that text typed at p inherits: those of the
// character before p (or after it at the start of a block). A link is only
// continued when the character after p belongs to the same link.
func (d Document) MarksAt(p Point) Marks {
	runs := d.Runs(p.Block)
	if len(runs) == 0 {
		return Marks{}
	}
	left, right := SplitRuns(runs, p.Offset)
	var m Marks
	if len(left) > 0 {
		m = left[len(left)-1].Marks
	} else {
		m = right[0].Marks
	}
	if len(left) > 0 && (len(right) == 0 || right[0].Marks.Href != m.Href) {
		m.Href = ""
	}
	return m
}

// InsertText inserts text at p with the given marks (nil inherits MarksAt(p))
// and returns the point after it. On an atomic block the text goes into a
// new paragraph after that block.
func (d *Document) InsertText(p Point, text string, marks *Marks) Point {
	p = d.ClampPoint(p)
	if text == "" {
		return p
	}
	m := d.MarksAt(p)
	if marks != nil {
		m = *marks
	}
	if !d.Blocks[p.Block].Kind.IsText() {
		blk := NewParagraph()
		blk.Inlines = Build([]Run{{Text: text, Marks: m}})
		d.insertBlocksAt(p.Block+1, blk)
		return Point{Block: p.Block + 1, Offset: TextLen(text)}
	}
	left, right := SplitRuns(d.Runs(p.Block), p.Offset)
	runs := append(left, Run{Text: text, Marks: m})
	d.SetRuns(p.Block, append(runs, right...))
	return Point{Block: p.Block, Offset: p.Offset + TextLen(text)}
}

// DeleteRange removes the content between a and b and returns the collapsed
// point where it was. Atomic blocks inside a non-empty range are removed;
// the text blocks at both ends are joined into the first one.
func (d *Document) DeleteRange(a, b Point) Point {
	s, e := OrderPoints(d.ClampPoint(a), d.ClampPoint(b))
	if ComparePoints(s, e) == 0 {
		return s
	}
	first, last := d.Blocks[s.Block], d.Blocks[e.Block]
	var keep []Block
	at := Point{Block: s.Block}
	switch {
	case first.Kind.IsText():
		runs := SliceRuns(d.Runs(s.Block), 0, s.Offset)
		if last.Kind.IsText() {
			lr := d.Runs(e.Block)
			runs = append(runs, SliceRuns(lr, e.Offset, RunsLen(lr))...)
		}
		first.Inlines = Build(runs)
		keep = append(keep, first)
		at.Offset = s.Offset
	case last.Kind.IsText():
		lr := d.Runs(e.Block)
		last.Inlines = Build(SliceRuns(lr, e.Offset, RunsLen(lr)))
		keep = append(keep, last)
	}
	d.replaceBlocks(s.Block, e.Block+1, keep...)
	d.Normalize()
	return d.ClampPoint(at)
}

// Fragment returns copies of the content between a and b, the blocks a
// copy would put on the clipboard. Text blocks at both ends are cut at the
// points; atomic blocks in the range are copied whole.
func (d Document) Fragment(a, b Point) []Block {
	s, e := OrderPoints(d.ClampPoint(a), d.ClampPoint(b))
	if ComparePoints(s, e) == 0 {
		return nil
	}
	var out []Block
	for i := s.Block; i <= e.Block; i++ {
		blk := d.Blocks[i].Clone()
		blk.ID = ""
		if blk.Kind.IsText() {
			from, to := 0, d.BlockLen(i)
			if i == s.Block {
				from = s.Offset
			}
			if i == e.Block {
				to = e.Offset
			}
			if i > s.Block && i == e.Block && to == 0 {
				break
			}
			blk.Inlines = Build(SliceRuns(d.Runs(i), from, to))
		}
		out = append(out, blk)
	}
	return out
}

// SplitBlock breaks the block at p in two (the Enter key) and returns the
// start of the second half. The second half keeps the kind and alignment,
// except that a heading continues as a paragraph. Splitting an empty list
// item turns it into a paragraph instead.
func (d *Document) SplitBlock(p Point) Point {
	p = d.ClampPoint(p)
	blk := d.Blocks[p.Block]
	if !blk.Kind.IsText() {
		d.insertBlocksAt(p.Block+1, NewParagraph())
		return Point{Block: p.Block + 1}
	}
	if blk.Kind == ListItem && d.BlockLen(p.Block) == 0 {
		d.Blocks[p.Block].Kind = Paragraph
		return p
	}
	left, right := SplitRuns(d.Runs(p.Block), p.Offset)
	tail := NewBlock(blk.Kind)
	if tail.Kind == Heading3 {
		tail.Kind = Paragraph
	}
	tail.Align = blk.Align
	tail.Inlines = Build(right)
	d.SetRuns(p.Block, left)
	d.insertBlocksAt(p.Block+1, tail)
	return Point{Block: p.Block + 1}
}

// DeleteBackward removes the character before p (Backspace). At the start
// of a block it joins the block into the previous text block, or removes a
// previous atomic block. On an atomic block it removes that block.
func (d *Document) DeleteBackward(p Point) Point {
	p = d.ClampPoint(p)
	blk := d.Blocks[p.Block]
	switch {
	case !blk.Kind.IsText():
		d.replaceBlocks(p.Block, p.Block+1)
		d.Normalize()
		if p.Block == 0 {
			return Point{}
		}
		return Point{Block: p.Block - 1, Offset: d.BlockLen(p.Block - 1)}
	case p.Offset > 0:
		return d.DeleteRange(Point{Block: p.Block, Offset: p.Offset - 1}, p)
	case p.Block == 0:
		return p
	}
	prev := d.Blocks[p.Block-1]
	if !prev.Kind.IsText() {
		d.replaceBlocks(p.Block-1, p.Block)
		return Point{Block: p.Block - 1}
	}
	return d.DeleteRange(Point{Block: p.Block - 1, Offset: d.BlockLen(p.Block - 1)}, p)
}

// DeleteForward removes the character after p (Delete), joining the next
// block at the end of a text block.
func (d *Document) DeleteForward(p Point) Point {
	p = d.ClampPoint(p)
	blk := d.Blocks[p.Block]
	switch {
	case !blk.Kind.IsText():
		d.replaceBlocks(p.Block, p.Block+1)
		d.Normalize()
		return d.ClampPoint(Point{Block: p.Block})
	case p.Offset < d.BlockLen(p.Block):
		return d.DeleteRange(p, Point{Block: p.Block, Offset: p.Offset + 1})
	case p.Block == len(d.Blocks)-1:
		return p
	}
	next := d.Blocks[p.Block+1]
	if !next.Kind.IsText() {
		d.replaceBlocks(p.Block+1, p.Block+2)
		return p
	}
	return d.DeleteRange(p, Point{Block: p.Block + 1})
}

// InsertBlocks inserts a block sequence at p, splitting the block there when
// p is mid-text, and returns the point after the inserted content. A leading
// paragraph is joined onto the text before p and a trailing paragraph onto
// the text after p, so pasting a phrase into a sentence keeps one block.
// An empty host block is replaced.
func (d *Document) InsertBlocks(p Point, blocks []Block) Point {
	p = d.ClampPoint(p)
	if len(blocks) == 0 {
		return p
	}
	blocks = cloneBlocks(blocks)
	host := d.Blocks[p.Block]
	if !host.Kind.IsText() {
		d.insertBlocksAt(p.Block+1, blocks...)
		d.Normalize()
		last := p.Block + len(blocks)
		return Point{Block: last, Offset: d.BlockLen(last)}
	}

	left, right := SplitRuns(d.Runs(p.Block), p.Offset)
	var out []Block
	// joinable marks that the last block in out may absorb the right half.
	joinable := false
	if len(left) > 0 {
		head := host
		head.Inlines = Build(left)
		if blocks[0].Kind == Paragraph {
			head.Inlines = Build(append(left, Flatten(blocks[0].Inlines)...))
			blocks = blocks[1:]
			joinable = true
		}
		out = append(out, head)
	}
	for _, b := range blocks {
		out = append(out, b)
		joinable = b.Kind == Paragraph
	}
	last := len(out) - 1
	end := Point{Block: p.Block + last, Offset: inlinesLen(out[last].Inlines)}

	if len(right) > 0 {
		if joinable {
			// The joined block continues the host, so it keeps the host's kind.
			out[last].Kind, out[last].Align = host.Kind, host.Align
			out[last].Inlines = Build(append(Flatten(out[last].Inlines), right...))
		} else {
			tail := NewBlock(host.Kind)
			tail.Align = host.Align
			tail.Inlines = Build(right)
			out = append(out, tail)
		}
	}

	d.replaceBlocks(p.Block, p.Block+1, out...)
	d.Normalize()
	return d.ClampPoint(end)
}

// InsertAtomic places an atomic block at p: before the block when p is at
// its start, after it when p is at its end, otherwise between the two
// halves of the split block. It returns the index of the inserted block.
// The points in track are moved so that they keep their place in the text.
func (d *Document) InsertAtomic(p Point, blk Block, track ...*Point) int {
	p = d.ClampPoint(p)
	host := d.Blocks[p.Block]
	if !host.Kind.IsText() {
		d.insertBlocksAt(p.Block+1, blk)
		shiftPoints(track, p.Block+1, 1)
		return p.Block + 1
	}
	n := d.BlockLen(p.Block)
	switch {
	case p.Offset == 0 && n > 0:
		d.insertBlocksAt(p.Block, blk)
		shiftPoints(track, p.Block, 1)
		return p.Block
	case p.Offset >= n:
		d.insertBlocksAt(p.Block+1, blk)
		shiftPoints(track, p.Block+1, 1)
		return p.Block + 1
	}
	left, right := SplitRuns(d.Runs(p.Block), p.Offset)
	tail := NewBlock(host.Kind)
	tail.Align = host.Align
	tail.Inlines = Build(right)
	d.SetRuns(p.Block, left)
	d.insertBlocksAt(p.Block+1, blk, tail)
	for _, t := range track {
		if t.Block == p.Block && t.Offset > p.Offset {
			t.Block, t.Offset = p.Block+2, t.Offset-p.Offset
		} else if t.Block > p.Block {
			t.Block += 2
		}
	}
	return p.Block + 1
}

// shiftPoints moves the points at or after block from down by n blocks.
func shiftPoints(track []*Point, from, n int) {
	for _, t := range track {
		if t.Block >= from {
			t.Block += n
		}
	}
}

// InsertBlockAfter inserts blk right after block i and returns its index.
func (d *Document) InsertBlockAfter(i int, blk Block) int {
	i = min(max(i, -1), len(d.Blocks)-1)
	d.insertBlocksAt(i+1, blk)
	return i + 1
}

// Append adds blk at the end of the document and returns its index.
func (d *Document) Append(blk Block) int {
	d.Blocks = append(d.Blocks, blk)
	return len(d.Blocks) - 1
}

func (d *Document) insertBlocksAt(i int, blocks ...Block) {
	d.ReplaceBlocks(i, i, blocks...)
}

// ReplaceBlocks replaces blocks [from, to) with blocks, assigning IDs to
// the new ones that lack one.
func (d *Document) ReplaceBlocks(from, to int, blocks ...Block) {
	for k := range blocks {
		if blocks[k].ID == "" {
			blocks[k].ID = newID()
		}
	}
	d.replaceBlocks(from, to, blocks...)
}

func (d *Document) replaceBlocks(from, to int, blocks ...Block) {
	out := make([]Block, 0, len(d.Blocks)-(to-from)+len(blocks))
	out = append(out, d.Blocks[:from]...)
	out = append(out, blocks...)
	out = append(out, d.Blocks[to:]...)
	d.Blocks = out
}

func cloneBlocks(in []Block) []Block {
	out := make([]Block, len(in))
	for i, b := range in {
		out[i] = b.Clone()
		out[i].ID = ""
	}
	return out
}

// Text returns the plain text of the document, one line per block.
func (d Document) Text() string {
	lines := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		lines = append(lines, b.PlainText())
	}
	return strings.Join(lines, "\n")
}
