// internal/types/cursor.go
package types

import "slices"

// Cursor addresses a position in a document.
// Path is the sequence of child indices from the document root: Path[0] is
// the block index, the rest descend through inline nodes to a text leaf.
// Offset counts characters (grapheme clusters) within that leaf.
// A one-element path addresses a block with no text leaf (an empty text
// block, a separator or a media block); its Offset is always 0.
type Cursor struct {
	Path   []int
	Offset int
}

// Equal reports whether two cursors name the identical (path, offset) pair.
func (c Cursor) Equal(o Cursor) bool {
	return c.Offset == o.Offset && slices.Equal(c.Path, o.Path)
}

// Block returns the block index of the cursor, or -1 for an empty path.
func (c Cursor) Block() int {
	if len(c.Path) == 0 {
		return -1
	}
	return c.Path[0]
}

// Clone returns a cursor that shares no memory with c.
func (c Cursor) Clone() Cursor {
	return Cursor{Path: slices.Clone(c.Path), Offset: c.Offset}
}

// Selection is an ordered (anchor, focus) pair. The anchor is where the
// selection started; the focus follows the caret.
type Selection struct {
	Anchor Cursor
	Focus  Cursor
}

// Collapsed returns a selection whose anchor and focus are both c.
func Collapsed(c Cursor) Selection {
	return Selection{Anchor: c.Clone(), Focus: c.Clone()}
}

// IsCollapsed reports whether anchor and focus are the identical pair.
// Callers comparing positions in a live document should resolve both ends
// first (see core/cursor), since two paths can name the same point.
func (s Selection) IsCollapsed() bool {
	return s.Anchor.Equal(s.Focus)
}
