// internal/tui/layout.go
package tui

import (
	"strings"

	"github.com/bethropolis/prose/internal/document"
	"github.com/rivo/uniseg"
)

// Cell is one grapheme cluster placed on a row.
type Cell struct {
	X       int
	Cluster string
	Width   int
	// Offset is the character offset within the block, -1 for decoration
	// such as list bullets or media captions.
	Offset int
	Marks  document.Marks
	// Style names the theme style the cell is drawn with before marks.
	Style string
}

// Row is one screen line of laid out text.
type Row struct {
	// Block is the block index the row belongs to, -1 for spacing rows.
	Block int
	Cells []Cell
	// End is the offset a caret at the end of the row sits on, EndX its
	// column.
	End  int
	EndX int
}

// blockStyles maps a block kind to its theme style and line prefix.
var blockStyles = map[document.BlockKind]struct {
	style, prefix string
}{
	document.Paragraph:  {"Default", ""},
	document.Heading3:   {"Heading", "### "},
	document.Blockquote: {"Quote", "> "},
	document.ListItem:   {"ListBullet", "• "},
	document.InfoBox:    {"InfoBox", "│ "},
	document.Separator:  {"Separator", ""},
	document.Image:      {"Media", ""},
	document.VideoEmbed: {"Media", ""},
}

// Layout wraps the blocks of doc starting at block top into at most
// maxRows rows of the given width. Blocks are separated by an empty row.
func Layout(doc document.Document, top, width, maxRows int) []Row {
	if width <= 0 || maxRows <= 0 {
		return nil
	}
	var rows []Row
	for b := max(top, 0); b < len(doc.Blocks) && len(rows) < maxRows; b++ {
		if b > top {
			rows = append(rows, Row{Block: -1})
		}
		rows = append(rows, layoutBlock(doc, b, width)...)
	}
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	return rows
}

func layoutBlock(doc document.Document, b, width int) []Row {
	blk := doc.Blocks[b]
	look := blockStyles[blk.Kind]

	switch blk.Kind {
	case document.Separator:
		n := min(width, 24)
		return []Row{decorationRow(b, strings.Repeat("─", n), look.style, (width-n)/2)}
	case document.Image:
		caption := "[image"
		if blk.Alt != "" {
			caption += ": " + blk.Alt
		}
		return []Row{decorationRow(b, caption+"] "+blk.URL, look.style, 0)}
	case document.VideoEmbed:
		return []Row{decorationRow(b, "[video] "+blk.URL, look.style, 0)}
	}

	var prefix []Cell
	indent := 0
	if look.prefix != "" {
		prefix = clusters(look.prefix, -1, document.Marks{}, "Marker")
		for _, c := range prefix {
			indent += c.Width
		}
	}
	avail := width - indent
	if avail < 1 {
		avail, indent, prefix = width, 0, nil
	}

	var text []Cell
	off := 0
	for _, r := range doc.Runs(b) {
		cs := clusters(r.Text, off, r.Marks, look.style)
		off += len(cs)
		text = append(text, cs...)
	}

	lines := wrap(text, avail)
	rows := make([]Row, 0, len(lines))
	for i, line := range lines {
		row := Row{Block: b, End: line.end}
		if i == 0 {
			row.Cells = append(row.Cells, placed(prefix, 0)...)
		}
		x := indent + alignShift(blk.Align, avail, line.width)
		row.Cells = append(row.Cells, placed(line.cells, x)...)
		row.EndX = x + line.width
		rows = append(rows, row)
	}
	return rows
}

func decorationRow(b int, s, style string, x int) Row {
	cells := placed(clusters(s, -1, document.Marks{}, style), x)
	end := x
	if n := len(cells); n > 0 {
		end = cells[n-1].X + cells[n-1].Width
	}
	return Row{Block: b, Cells: cells, EndX: end}
}

// clusters splits s into cells numbered from off; off < 0 marks decoration.
func clusters(s string, off int, marks document.Marks, style string) []Cell {
	var out []Cell
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		c := Cell{Cluster: gr.Str(), Width: gr.Width(), Offset: -1, Marks: marks, Style: style}
		if off >= 0 {
			c.Offset = off + len(out)
		}
		out = append(out, c)
	}
	return out
}

func placed(cells []Cell, x int) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		c.X = x
		x += c.Width
		out[i] = c
	}
	return out
}

func alignShift(a document.Align, avail, used int) int {
	switch a {
	case document.AlignCenter:
		return max((avail-used)/2, 0)
	case document.AlignRight:
		return max(avail-used, 0)
	}
	return 0
}

type line struct {
	cells []Cell
	width int
	end   int
}

// wrap breaks cells into lines of at most avail columns, preferring the
// last space. A line break cell ends its line and is not drawn.
func wrap(cells []Cell, avail int) []line {
	var out []line
	cur := line{}
	flush := func(end int) {
		cur.end = end
		out = append(out, cur)
		cur = line{end: end}
	}

	for i := 0; i < len(cells); i++ {
		c := cells[i]
		if c.Cluster == "\n" || c.Cluster == "\r\n" {
			flush(c.Offset)
			cur.end = c.Offset + 1
			continue
		}
		if cur.width+c.Width > avail && len(cur.cells) > 0 {
			if sp := lastSpace(cur.cells); sp > 0 && sp < len(cur.cells)-1 {
				tail := cur.cells[sp+1:]
				cur.cells = cur.cells[:sp+1]
				cur.width = width(cur.cells)
				flush(tail[0].Offset)
				cur.cells = append(cur.cells, tail...)
				cur.width = width(tail)
			} else {
				flush(c.Offset)
			}
		}
		cur.cells = append(cur.cells, c)
		cur.width += c.Width
		cur.end = c.Offset + 1
	}
	out = append(out, cur)
	return out
}

func lastSpace(cells []Cell) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].Cluster == " " {
			return i
		}
	}
	return -1
}

func width(cells []Cell) int {
	w := 0
	for _, c := range cells {
		w += c.Width
	}
	return w
}

// CaretCell finds the screen row and column of p in rows.
func CaretCell(rows []Row, p document.Point) (row, col int, ok bool) {
	for i, r := range rows {
		if r.Block != p.Block {
			continue
		}
		for _, c := range r.Cells {
			if c.Offset == p.Offset {
				return i, c.X, true
			}
		}
	}
	for i, r := range rows {
		if r.Block == p.Block && r.End == p.Offset {
			return i, r.EndX, true
		}
	}
	return 0, 0, false
}

// inRange reports whether the character at (b, off) lies in [start, end).
// Decoration of atomic blocks counts as the block's only character.
func inRange(b, off int, start, end document.Point) bool {
	p := document.Point{Block: b, Offset: max(off, 0)}
	return document.ComparePoints(start, p) <= 0 && document.ComparePoints(p, end) < 0
}
