package document

// Marks is the set of inline formats applied to a character.
type Marks struct {
	Bold      bool
	Italic    bool
	Underline bool
	Highlight HighlightStyle
	Href      string
}

// IsZero reports whether no format is applied.
func (m Marks) IsZero() bool {
	return m == Marks{}
}

// Run is a maximal stretch of text sharing the same marks. Runs are the
// working form for range edits; the inline tree is rebuilt from them.
type Run struct {
	Text  string
	Marks Marks
}

// Flatten linearizes an inline tree into runs. Empty text is skipped and
// adjacent runs with equal marks are merged.
func Flatten(nodes []Inline) []Run {
	var out []Run
	var walk func([]Inline, Marks)
	walk = func(nodes []Inline, m Marks) {
		for _, n := range nodes {
			switch n.Kind {
			case Text:
				out = appendRun(out, Run{Text: n.Value, Marks: m})
				continue
			case Bold:
				mm := m
				mm.Bold = true
				walk(n.Children, mm)
			case Italic:
				mm := m
				mm.Italic = true
				walk(n.Children, mm)
			case Underline:
				mm := m
				mm.Underline = true
				walk(n.Children, mm)
			case Highlight:
				mm := m
				mm.Highlight = n.Style
				if mm.Highlight == HighlightNone {
					mm.Highlight = HighlightSimple
				}
				walk(n.Children, mm)
			case Link:
				mm := m
				mm.Href = n.Href
				walk(n.Children, mm)
			}
		}
	}
	walk(nodes, Marks{})
	return out
}

func appendRun(runs []Run, r Run) []Run {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].Marks == r.Marks {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

// MergeRuns drops empty runs and merges neighbours with equal marks.
func MergeRuns(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		out = appendRun(out, r)
	}
	return out
}

// RunsLen counts the characters across runs.
func RunsLen(runs []Run) int {
	n := 0
	for _, r := range runs {
		n += TextLen(r.Text)
	}
	return n
}

// SplitRuns cuts runs before character offset off.
func SplitRuns(runs []Run, off int) (left, right []Run) {
	for i, r := range runs {
		l := TextLen(r.Text)
		if off >= l {
			left = append(left, r)
			off -= l
			continue
		}
		if off > 0 {
			a, b := SplitText(r.Text, off)
			left = append(left, Run{Text: a, Marks: r.Marks})
			right = append(right, Run{Text: b, Marks: r.Marks})
		} else {
			right = append(right, r)
		}
		right = append(right, runs[i+1:]...)
		return left, right
	}
	return left, nil
}

// SliceRuns returns the runs covering characters [from, to).
func SliceRuns(runs []Run, from, to int) []Run {
	if to <= from {
		return nil
	}
	_, tail := SplitRuns(runs, from)
	mid, _ := SplitRuns(tail, to-from)
	return mid
}

// MapMarks rewrites the marks of characters in [from, to).
func MapMarks(runs []Run, from, to int, fn func(Marks) Marks) []Run {
	head, tail := SplitRuns(runs, from)
	mid, rest := SplitRuns(tail, to-from)
	out := append([]Run(nil), head...)
	for _, r := range mid {
		out = append(out, Run{Text: r.Text, Marks: fn(r.Marks)})
	}
	out = append(out, rest...)
	return MergeRuns(out)
}

// EveryMark reports whether every character in [from, to) satisfies pred.
// It is false for an empty span.
func EveryMark(runs []Run, from, to int, pred func(Marks) bool) bool {
	mid := SliceRuns(runs, from, to)
	if len(mid) == 0 {
		return false
	}
	for _, r := range mid {
		if !pred(r.Marks) {
			return false
		}
	}
	return true
}

type markKind int

const (
	markLink markKind = iota
	markBold
	markItalic
	markUnderline
	markHighlight
)

// markOrder fixes the nesting of the canonical tree: outermost first.
var markOrder = [...]markKind{markLink, markBold, markItalic, markUnderline, markHighlight}

func (k markKind) in(m Marks) bool {
	switch k {
	case markLink:
		return m.Href != ""
	case markBold:
		return m.Bold
	case markItalic:
		return m.Italic
	case markUnderline:
		return m.Underline
	case markHighlight:
		return m.Highlight != HighlightNone
	}
	return false
}

// same reports whether a and b agree on this mark, value included.
func (k markKind) same(a, b Marks) bool {
	switch k {
	case markLink:
		return a.Href == b.Href
	case markHighlight:
		return a.Highlight == b.Highlight
	}
	return k.in(a) == k.in(b)
}

func (k markKind) strip(m Marks) Marks {
	switch k {
	case markLink:
		m.Href = ""
	case markBold:
		m.Bold = false
	case markItalic:
		m.Italic = false
	case markUnderline:
		m.Underline = false
	case markHighlight:
		m.Highlight = HighlightNone
	}
	return m
}

func (k markKind) wrap(m Marks, children []Inline) Inline {
	switch k {
	case markLink:
		return NewLink(m.Href, children...)
	case markBold:
		return NewBold(children...)
	case markItalic:
		return NewItalic(children...)
	case markUnderline:
		return NewUnderline(children...)
	default:
		return NewHighlight(m.Highlight, children...)
	}
}

// Build turns runs into the canonical inline tree: marks nest in a fixed
// order and each wrapper spans the longest stretch of runs sharing it.
// Equal runs always build equal trees.
func Build(runs []Run) []Inline {
	runs = MergeRuns(runs)
	var out []Inline
	for i := 0; i < len(runs); {
		r := runs[i]
		kind, ok := outermost(r.Marks)
		if !ok {
			if n := len(out); n > 0 && out[n-1].Kind == Text {
				out[n-1].Value += r.Text
			} else {
				out = append(out, NewText(r.Text))
			}
			i++
			continue
		}
		j := i
		for j < len(runs) && kind.in(runs[j].Marks) && kind.same(runs[j].Marks, r.Marks) {
			j++
		}
		inner := make([]Run, 0, j-i)
		for _, rr := range runs[i:j] {
			inner = append(inner, Run{Text: rr.Text, Marks: kind.strip(rr.Marks)})
		}
		out = append(out, kind.wrap(r.Marks, Build(inner)))
		i = j
	}
	return out
}

func outermost(m Marks) (markKind, bool) {
	for _, k := range markOrder {
		if k.in(m) {
			return k, true
		}
	}
	return 0, false
}
