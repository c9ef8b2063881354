package document

import (
	"strings"

	"golang.org/x/net/html"
)

var blockTags = map[BlockKind]string{
	Paragraph:  "p",
	Heading3:   "h3",
	Blockquote: "blockquote",
	ListItem:   "li",
	InfoBox:    "aside",
}

// Serialize renders d as persisted markup. The output depends only on the
// structure of d (never on block IDs), so equal documents serialize to equal
// strings. Runs of list items are wrapped in a single <ul>.
func Serialize(d Document) string {
	var sb strings.Builder
	inList := false
	for _, b := range d.Blocks {
		if b.Kind == ListItem && !inList {
			sb.WriteString("<ul>")
			inList = true
		} else if b.Kind != ListItem && inList {
			sb.WriteString("</ul>")
			inList = false
		}
		writeBlock(&sb, b)
	}
	if inList {
		sb.WriteString("</ul>")
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, b Block) {
	switch b.Kind {
	case Separator:
		sb.WriteString("<hr>")
		return
	case Image:
		sb.WriteString(`<img src="`)
		sb.WriteString(html.EscapeString(b.URL))
		sb.WriteString(`" alt="`)
		sb.WriteString(html.EscapeString(b.Alt))
		sb.WriteString(`">`)
		return
	case VideoEmbed:
		sb.WriteString(`<iframe src="`)
		sb.WriteString(html.EscapeString(b.URL))
		sb.WriteString(`"></iframe>`)
		return
	}
	tag, ok := blockTags[b.Kind]
	if !ok {
		return
	}
	sb.WriteByte('<')
	sb.WriteString(tag)
	if b.Align != AlignLeft {
		sb.WriteString(` data-align="`)
		sb.WriteString(b.Align.String())
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	writeInlines(sb, b.Inlines)
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
}

func writeInlines(sb *strings.Builder, nodes []Inline) {
	for _, n := range nodes {
		switch n.Kind {
		case Text:
			writeText(sb, n.Value)
		case Bold:
			wrapInline(sb, "strong", "", n.Children)
		case Italic:
			wrapInline(sb, "em", "", n.Children)
		case Underline:
			wrapInline(sb, "u", "", n.Children)
		case Highlight:
			attrs := ""
			if n.Style == HighlightAnimated {
				attrs = ` data-style="animated"`
			}
			wrapInline(sb, "mark", attrs, n.Children)
		case Link:
			wrapInline(sb, "a", ` href="`+html.EscapeString(n.Href)+`"`, n.Children)
		}
	}
}

func wrapInline(sb *strings.Builder, tag, attrs string, children []Inline) {
	sb.WriteByte('<')
	sb.WriteString(tag)
	sb.WriteString(attrs)
	sb.WriteByte('>')
	writeInlines(sb, children)
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
}

// writeText escapes s and turns line breaks into <br>.
func writeText(sb *strings.Builder, s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			sb.WriteString("<br>")
		}
		sb.WriteString(html.EscapeString(line))
	}
}
