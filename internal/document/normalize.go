package document

// Normalize restores the document invariants in place:
//   - text blocks hold the canonical inline tree of their runs, so empty
//     inline nodes are pruned and adjacent text leaves are merged;
//   - atomic blocks carry no inline content, and media blocks without a URL
//     are removed;
//   - every block has an ID;
//   - the document holds at least one block (an empty paragraph).
func (d *Document) Normalize() {
	blocks := make([]Block, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		switch {
		case b.Kind.IsText():
			b.Inlines = Build(Flatten(b.Inlines))
			b.URL, b.Alt = "", ""
		case b.Kind == Separator:
			b.Inlines, b.URL, b.Alt = nil, "", ""
		case b.Kind == Image || b.Kind == VideoEmbed:
			if b.URL == "" {
				continue
			}
			b.Inlines = nil
			if b.Kind == VideoEmbed {
				b.Alt = ""
			}
		default:
			continue
		}
		if b.ID == "" {
			b.ID = newID()
		}
		blocks = append(blocks, b)
	}
	d.Blocks = blocks
	if len(d.Blocks) == 0 {
		d.Blocks = append(d.Blocks, NewParagraph())
	}
}

// Runs returns the runs of block i (nil for atomic blocks).
func (d Document) Runs(i int) []Run {
	if i < 0 || i >= len(d.Blocks) || !d.Blocks[i].Kind.IsText() {
		return nil
	}
	return Flatten(d.Blocks[i].Inlines)
}

// SetRuns replaces the inline content of block i with the canonical tree of runs.
func (d *Document) SetRuns(i int, runs []Run) {
	d.Blocks[i].Inlines = Build(runs)
}
