package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/prose/internal/types"
)

func TestCursorAt(t *testing.T) {
	doc := New(NewParagraph(NewText("ab"), NewBold(NewText("cd")), NewText("e")), NewSeparator(), NewParagraph())

	tests := []struct {
		name  string
		point Point
		want  types.Cursor
	}{
		{"start", Point{0, 0}, types.Cursor{Path: []int{0, 0}, Offset: 0}},
		{"boundary prefers left leaf", Point{0, 2}, types.Cursor{Path: []int{0, 0}, Offset: 2}},
		{"inside bold", Point{0, 3}, types.Cursor{Path: []int{0, 1, 0}, Offset: 1}},
		{"end", Point{0, 5}, types.Cursor{Path: []int{0, 2}, Offset: 1}},
		{"offset clamped", Point{0, 99}, types.Cursor{Path: []int{0, 2}, Offset: 1}},
		{"atomic block", Point{1, 0}, types.Cursor{Path: []int{1}}},
		{"empty paragraph", Point{2, 0}, types.Cursor{Path: []int{2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.CursorAt(tt.point))
		})
	}
}

func TestPointOf(t *testing.T) {
	doc := New(NewParagraph(NewText("ab"), NewBold(NewText("cd")), NewText("e")), NewParagraph(NewText("xyz")))

	tests := []struct {
		name   string
		cursor types.Cursor
		want   Point
	}{
		{"leaf", types.Cursor{Path: []int{0, 1, 0}, Offset: 2}, Point{0, 4}},
		{"block level", types.Cursor{Path: []int{1}, Offset: 2}, Point{1, 2}},
		{"container offset is flat", types.Cursor{Path: []int{0, 1}, Offset: 1}, Point{0, 3}},
		{"stale child index", types.Cursor{Path: []int{0, 9}, Offset: 0}, Point{0, 5}},
		{"negative child index", types.Cursor{Path: []int{0, -1}}, Point{0, 0}},
		{"stale block index", types.Cursor{Path: []int{7, 0}, Offset: 3}, Point{1, 3}},
		{"offset past leaf", types.Cursor{Path: []int{0, 0}, Offset: 10}, Point{0, 2}},
		{"empty path", types.Cursor{}, Point{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.PointOf(tt.cursor))
		})
	}
}

func TestResolve_AfterStructuralChange(t *testing.T) {
	doc := New(NewParagraph(NewText("ab"), NewBold(NewText("cd"))))
	c := doc.CursorAt(Point{0, 3})

	// The bold node disappears; the cursor falls back into what remains.
	doc.SetRuns(0, []Run{{Text: "ab"}})
	assert.Equal(t, types.Cursor{Path: []int{0, 0}, Offset: 2}, doc.Resolve(c))
}

func TestComparePoints(t *testing.T) {
	assert.Equal(t, -1, ComparePoints(Point{0, 5}, Point{1, 0}))
	assert.Equal(t, 1, ComparePoints(Point{1, 2}, Point{1, 1}))
	assert.Equal(t, 0, ComparePoints(Point{2, 2}, Point{2, 2}))

	a, b := OrderPoints(Point{3, 0}, Point{1, 4})
	assert.Equal(t, Point{1, 4}, a)
	assert.Equal(t, Point{3, 0}, b)
}

func TestTextLen_Graphemes(t *testing.T) {
	assert.Equal(t, 3, TextLen("naï"))
	assert.Equal(t, 2, TextLen("éa"))
	assert.Equal(t, 1, TextLen("👍🏽"))

	left, right := SplitText("éab", 1)
	assert.Equal(t, "é", left)
	assert.Equal(t, "ab", right)
	assert.Equal(t, "b", SliceText("éab", 2, 3))
}
