package tui

import (
	"strings"
	"testing"

	"github.com/bethropolis/prose/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowText(r Row) string {
	var sb strings.Builder
	x := 0
	for _, c := range r.Cells {
		for ; x < c.X; x++ {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.Cluster)
		x += c.Width
	}
	return sb.String()
}

func texts(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = rowText(r)
	}
	return out
}

func TestLayout_BlockDecoration(t *testing.T) {
	doc := document.New(
		document.NewBlock(document.Heading3, document.NewText("Title")),
		document.NewBlock(document.ListItem, document.NewText("item")),
		document.NewImage("https://x/a.png", "cat"),
		document.NewVideo("https://www.youtube.com/embed/abc"),
	)

	rows := Layout(doc, 0, 40, 20)
	assert.Equal(t, []string{
		"### Title",
		"",
		"• item",
		"",
		"[image: cat] https://x/a.png",
		"",
		"[video] https://www.youtube.com/embed/abc",
	}, texts(rows))
	assert.Equal(t, "Marker", rows[0].Cells[0].Style)
	assert.Equal(t, "Heading", rows[0].Cells[4].Style)
	assert.Equal(t, 0, rows[0].Cells[4].Offset)
	assert.Equal(t, -1, rows[4].Cells[0].Offset)
}

func TestLayout_WrapsAtSpaces(t *testing.T) {
	doc := document.New(document.NewParagraph(document.NewText("one two three")))

	rows := Layout(doc, 0, 8, 10)
	require.Equal(t, []string{"one two ", "three"}, texts(rows))
	assert.Equal(t, 8, rows[0].End)
	assert.Equal(t, 13, rows[1].End)

	row, col, ok := CaretCell(rows, document.Point{Block: 0, Offset: 8})
	require.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)

	row, col, ok = CaretCell(rows, document.Point{Block: 0, Offset: 13})
	require.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, 5, col)
}

func TestLayout_LineBreakAndMarks(t *testing.T) {
	doc := document.New(document.NewParagraph(
		document.NewText("a"),
		document.NewBold(document.NewText("b\nc")),
	))

	rows := Layout(doc, 0, 20, 10)
	require.Equal(t, []string{"ab", "c"}, texts(rows))
	assert.True(t, rows[0].Cells[1].Marks.Bold)
	assert.Equal(t, 3, rows[1].Cells[0].Offset)

	// The caret before the break sits at the end of the first row.
	row, col, ok := CaretCell(rows, document.Point{Block: 0, Offset: 2})
	require.True(t, ok)
	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)
}

func TestLayout_AlignmentAndWideClusters(t *testing.T) {
	centered := document.NewParagraph(document.NewText("日本"))
	centered.Align = document.AlignCenter
	right := document.NewParagraph(document.NewText("ab"))
	right.Align = document.AlignRight
	doc := document.New(centered, right)

	rows := Layout(doc, 0, 10, 10)
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[0].Cells[0].X)
	assert.Equal(t, 5, rows[0].Cells[1].X)
	assert.Equal(t, 2, rows[0].Cells[1].Width)
	assert.Equal(t, 8, rows[2].Cells[0].X)
}

func TestLayout_ViewportAndLimits(t *testing.T) {
	doc := document.New(
		document.NewParagraph(document.NewText("first")),
		document.NewSeparator(),
		document.NewParagraph(document.NewText("last")),
	)

	rows := Layout(doc, 1, 30, 10)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Block)
	assert.Equal(t, strings.Repeat("─", 24), strings.TrimSpace(rowText(rows[0])))
	assert.Equal(t, -1, rows[1].Block)

	assert.Len(t, Layout(doc, 0, 30, 2), 2)
	assert.Nil(t, Layout(doc, 0, 0, 5))

	_, _, ok := CaretCell(rows, document.Point{Block: 0, Offset: 0})
	assert.False(t, ok)
}

func TestInRange(t *testing.T) {
	start := document.Point{Block: 0, Offset: 2}
	end := document.Point{Block: 2, Offset: 0}

	assert.False(t, inRange(0, 1, start, end))
	assert.True(t, inRange(0, 2, start, end))
	assert.True(t, inRange(1, -1, start, end))
	assert.False(t, inRange(2, 0, start, end))
}
