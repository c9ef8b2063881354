package document

import (
	"slices"

	"github.com/bethropolis/prose/internal/types"
)

// Point is a flat address: a block index and a character offset counted
// across all text leaves of that block. Atomic blocks only have offset 0.
type Point struct {
	Block  int
	Offset int
}

// ComparePoints orders points in document order.
func ComparePoints(a, b Point) int {
	switch {
	case a.Block < b.Block:
		return -1
	case a.Block > b.Block:
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// OrderPoints returns a and b sorted.
func OrderPoints(a, b Point) (Point, Point) {
	if ComparePoints(a, b) > 0 {
		return b, a
	}
	return a, b
}

// BlockLen counts the characters of block i.
func (d Document) BlockLen(i int) int {
	if i < 0 || i >= len(d.Blocks) {
		return 0
	}
	return inlinesLen(d.Blocks[i].Inlines)
}

func inlinesLen(nodes []Inline) int {
	n := 0
	for _, node := range nodes {
		if node.Kind == Text {
			n += TextLen(node.Value)
			continue
		}
		n += inlinesLen(node.Children)
	}
	return n
}

// ClampPoint moves p to the nearest valid point of d.
func (d Document) ClampPoint(p Point) Point {
	if len(d.Blocks) == 0 {
		return Point{}
	}
	if p.Block < 0 {
		return Point{}
	}
	if p.Block >= len(d.Blocks) {
		last := len(d.Blocks) - 1
		return Point{Block: last, Offset: d.BlockLen(last)}
	}
	p.Offset = min(max(p.Offset, 0), d.BlockLen(p.Block))
	return p
}

// PointOf maps a cursor to a point. It never fails: indices past the end of
// a child list mean "end of that container", negative indices mean its
// start, and offsets are clamped, so cursors left stale by a structural
// change degrade to the nearest valid position.
func (d Document) PointOf(c types.Cursor) Point {
	if len(c.Path) == 0 || len(d.Blocks) == 0 {
		return Point{}
	}
	b := c.Path[0]
	if b < 0 || b >= len(d.Blocks) {
		return d.ClampPoint(Point{Block: b})
	}
	blk := d.Blocks[b]
	if !blk.Kind.IsText() {
		return Point{Block: b}
	}
	offset := 0
	nodes := blk.Inlines
	for depth := 1; depth < len(c.Path); depth++ {
		idx := c.Path[depth]
		if idx < 0 {
			return Point{Block: b, Offset: offset}
		}
		for k := 0; k < idx && k < len(nodes); k++ {
			offset += inlinesLen(nodes[k : k+1])
		}
		if idx >= len(nodes) {
			return Point{Block: b, Offset: offset}
		}
		node := nodes[idx]
		if node.Kind == Text {
			return Point{Block: b, Offset: offset + min(max(c.Offset, 0), TextLen(node.Value))}
		}
		nodes = node.Children
	}
	// Path ends on a container: Offset is flat within it.
	return Point{Block: b, Offset: offset + min(max(c.Offset, 0), inlinesLen(nodes))}
}

// CursorAt maps a point to its canonical cursor. At a boundary between two
// text leaves the cursor sits at the end of the earlier one.
func (d Document) CursorAt(p Point) types.Cursor {
	p = d.ClampPoint(p)
	if len(d.Blocks) == 0 {
		return types.Cursor{Path: []int{0}}
	}
	blk := d.Blocks[p.Block]
	if !blk.Kind.IsText() || len(blk.Inlines) == 0 {
		return types.Cursor{Path: []int{p.Block}}
	}
	if path, off, ok := locate(blk.Inlines, p.Offset, []int{p.Block}); ok {
		return types.Cursor{Path: path, Offset: off}
	}
	return types.Cursor{Path: []int{p.Block}}
}

func locate(nodes []Inline, off int, path []int) ([]int, int, bool) {
	for i, n := range nodes {
		if n.Kind == Text {
			l := TextLen(n.Value)
			if off <= l {
				return append(slices.Clone(path), i), off, true
			}
			off -= l
			continue
		}
		l := inlinesLen(n.Children)
		if off <= l && l > 0 {
			return locate(n.Children, off, append(slices.Clone(path), i))
		}
		off -= l
	}
	return nil, 0, false
}

// Resolve returns the canonical form of c in d.
func (d Document) Resolve(c types.Cursor) types.Cursor {
	return d.CursorAt(d.PointOf(c))
}
