package command

import "github.com/bethropolis/prose/internal/document"

func init() {
	register(Heading3, false, toggleKind(document.Heading3))
	register(ListItem, false, toggleKind(document.ListItem))
	register(AlignLeft, false, align(document.AlignLeft))
	register(AlignCenter, false, align(document.AlignCenter))
	register(AlignRight, false, align(document.AlignRight))
	register(AlignJustify, false, align(document.AlignJustify))
	register(Quote, true, promote(document.Blockquote))
	register(InfoBox, true, promote(document.InfoBox))
	register(Separator, false, separator)
}

// toggleKind turns the touched text blocks into kind, or back into
// paragraphs when they all already are.
func toggleKind(kind document.BlockKind) func(Context) Result {
	return func(ctx Context) Result {
		doc := ctx.Doc
		blocks := coveredBlocks(doc, ctx.Selection)
		all := len(blocks) > 0
		for _, b := range blocks {
			all = all && doc.Blocks[b].Kind == kind
		}
		next := kind
		if all {
			next = document.Paragraph
		}
		for _, b := range blocks {
			doc.Blocks[b].Kind = next
		}
		return Result{Selection: ctx.Selection, Changed: len(blocks) > 0}
	}
}

// align sets the alignment of the touched blocks. A caret aligns the block
// it is in.
func align(a document.Align) func(Context) Result {
	return func(ctx Context) Result {
		doc := ctx.Doc
		changed := false
		for _, b := range coveredBlocks(doc, ctx.Selection) {
			if doc.Blocks[b].Align != a {
				doc.Blocks[b].Align = a
				changed = true
			}
		}
		return Result{Selection: ctx.Selection, Changed: changed}
	}
}

// promote moves the selected content into a new block of kind, splitting
// the surrounding blocks around it. Inline formatting is carried over and
// selected blocks are joined with line breaks. Media blocks inside the
// selection follow the new block. When every touched block already is of
// kind, they are demoted to paragraphs instead.
func promote(kind document.BlockKind) func(Context) Result {
	return func(ctx Context) Result {
		doc, sel := ctx.Doc, ctx.Selection
		start, end := sel.Ordered()
		covered := spans(doc, start, end)
		if len(covered) == 0 {
			return Result{Selection: sel}
		}

		already := true
		for _, s := range covered {
			already = already && doc.Blocks[s.block].Kind == kind
		}
		if already {
			for _, s := range covered {
				doc.Blocks[s.block].Kind = document.Paragraph
			}
			return Result{Selection: sel, Changed: true}
		}

		firstSpan, lastSpan := covered[0], covered[len(covered)-1]
		first, last := firstSpan.block, lastSpan.block
		firstBlk, lastBlk := doc.Blocks[first], doc.Blocks[last]

		var runs []document.Run
		for i, s := range covered {
			if i > 0 {
				runs = append(runs, document.Run{Text: "\n"})
			}
			runs = append(runs, document.SliceRuns(doc.Runs(s.block), s.from, s.to)...)
		}

		var out []document.Block
		if head := document.SliceRuns(doc.Runs(first), 0, firstSpan.from); len(head) > 0 {
			b := firstBlk
			b.Inlines = document.Build(head)
			out = append(out, b)
		}
		promoted := document.NewBlock(kind)
		if len(out) == 0 {
			// The promoted block takes the place of the first block.
			promoted.ID = firstBlk.ID
		}
		promoted.Align = firstBlk.Align
		promoted.Inlines = document.Build(runs)
		at := first + len(out)
		out = append(out, promoted)
		for b := first + 1; b < last; b++ {
			if !doc.Blocks[b].Kind.IsText() {
				out = append(out, doc.Blocks[b])
			}
		}
		if tail := document.SliceRuns(doc.Runs(last), lastSpan.to, doc.BlockLen(last)); len(tail) > 0 {
			b := document.NewBlock(lastBlk.Kind)
			if last != first {
				b.ID = lastBlk.ID
			}
			b.Align = lastBlk.Align
			b.Inlines = document.Build(tail)
			out = append(out, b)
		}
		doc.ReplaceBlocks(first, last+1, out...)
		doc.Normalize()

		from := document.Point{Block: at}
		to := document.Point{Block: at, Offset: document.RunsLen(runs)}
		next := Selection{Anchor: from, Focus: to}
		if document.ComparePoints(sel.Anchor, sel.Focus) > 0 {
			next = Selection{Anchor: to, Focus: from}
		}
		return Result{Selection: next, Changed: true}
	}
}

// separator inserts a separator right after the focus block.
func separator(ctx Context) Result {
	doc, sel := ctx.Doc, ctx.Selection
	at := doc.InsertBlockAfter(sel.Focus.Block, document.NewSeparator())
	shift := func(p document.Point) document.Point {
		if p.Block >= at {
			p.Block++
		}
		return p
	}
	return Result{Selection: Selection{Anchor: shift(sel.Anchor), Focus: shift(sel.Focus)}, Changed: true}
}
