package command

import "github.com/bethropolis/prose/internal/document"

func init() {
	register(Bold, false, toggleMark(
		func(m document.Marks) bool { return m.Bold },
		func(m document.Marks, on bool) document.Marks { m.Bold = on; return m }))
	register(Italic, false, toggleMark(
		func(m document.Marks) bool { return m.Italic },
		func(m document.Marks, on bool) document.Marks { m.Italic = on; return m }))
	register(Underline, false, toggleMark(
		func(m document.Marks) bool { return m.Underline },
		func(m document.Marks, on bool) document.Marks { m.Underline = on; return m }))
	register(HighlightSimple, true, highlight(document.HighlightSimple))
	register(HighlightAnimated, true, highlight(document.HighlightAnimated))
}

// toggleMark removes the mark when every selected character has it and
// adds it otherwise. On a collapsed selection it toggles the pending marks
// instead.
func toggleMark(has func(document.Marks) bool, set func(document.Marks, bool) document.Marks) func(Context) Result {
	return func(ctx Context) Result {
		doc, sel := ctx.Doc, ctx.Selection
		if sel.Collapsed() {
			marks := doc.MarksAt(sel.Focus)
			if ctx.Pending != nil {
				marks = *ctx.Pending
			}
			marks = set(marks, !has(marks))
			return Result{Selection: sel, Pending: &marks}
		}

		start, end := sel.Ordered()
		covered := spans(doc, start, end)
		on := !everyMark(doc, covered, has)
		for _, s := range covered {
			doc.SetRuns(s.block, document.MapMarks(doc.Runs(s.block), s.from, s.to, func(m document.Marks) document.Marks {
				return set(m, on)
			}))
		}
		return Result{Selection: sel, Changed: len(covered) > 0}
	}
}

// highlight applies style to the selected text, or removes the highlight
// when the whole selection already has that style.
func highlight(style document.HighlightStyle) func(Context) Result {
	has := func(m document.Marks) bool { return m.Highlight == style }
	return func(ctx Context) Result {
		doc, sel := ctx.Doc, ctx.Selection
		start, end := sel.Ordered()
		covered := spans(doc, start, end)
		next := style
		if everyMark(doc, covered, has) {
			next = document.HighlightNone
		}
		for _, s := range covered {
			doc.SetRuns(s.block, document.MapMarks(doc.Runs(s.block), s.from, s.to, func(m document.Marks) document.Marks {
				m.Highlight = next
				return m
			}))
		}
		return Result{Selection: sel, Changed: len(covered) > 0}
	}
}

// everyMark reports whether every covered character satisfies pred. It is
// false when nothing is covered.
func everyMark(doc *document.Document, covered []span, pred func(document.Marks) bool) bool {
	if len(covered) == 0 {
		return false
	}
	for _, s := range covered {
		if !document.EveryMark(doc.Runs(s.block), s.from, s.to, pred) {
			return false
		}
	}
	return true
}
