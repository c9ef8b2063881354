package document

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bethropolis/prose/internal/logger"
)

// ErrDeserializeFallback reports that persisted markup held structure
// outside the vocabulary. The accompanying document is still usable.
var ErrDeserializeFallback = errors.New("deserialize fallback")

// ParseOptions tunes how a markup tree is read into blocks.
type ParseOptions struct {
	// CollapseWhitespace folds whitespace runs to one space and trims every
	// block, the way a browser renders pasted markup.
	CollapseWhitespace bool
	// DropEmptyBlocks discards blocks that end up with no text.
	DropEmptyBlocks bool
	// AllowEmbed filters <iframe> sources. Nil keeps every embed.
	AllowEmbed func(src string) bool
	// AllowHref filters link targets; rejected links keep their text.
	// Nil keeps every link.
	AllowHref func(href string) bool
	// OnDrop is told about every element that was unwrapped or skipped.
	OnDrop func(tag string)
}

// Deserialize reads persisted markup. It never fails to produce a document:
// unrecognized elements are unwrapped with their text lifted into the
// surrounding block, and the returned error (wrapping
// ErrDeserializeFallback) names them. Input that cannot be walked at all
// becomes a single paragraph of its plain text.
func Deserialize(src string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WarnTagf("serializer", "deserialize panicked, falling back to plain text: %v", r)
			doc = fallbackDocument(src)
			err = fmt.Errorf("%w: %v", ErrDeserializeFallback, r)
		}
	}()

	var dropped []string
	blocks, perr := ParseFragment(src, ParseOptions{
		OnDrop: func(tag string) {
			if !slices.Contains(dropped, tag) {
				dropped = append(dropped, tag)
			}
		},
	})
	if perr != nil {
		logger.WarnTagf("serializer", "parse failed, falling back to plain text: %v", perr)
		return fallbackDocument(src), fmt.Errorf("%w: %v", ErrDeserializeFallback, perr)
	}
	doc = New(blocks...)
	if len(dropped) > 0 {
		logger.WarnTagf("serializer", "lifted unrecognized elements: %s", strings.Join(dropped, ", "))
		return doc, fmt.Errorf("%w: unrecognized elements %s", ErrDeserializeFallback, strings.Join(dropped, ", "))
	}
	return doc, nil
}

func fallbackDocument(src string) Document {
	return New(NewParagraph(NewText(StripText(src))))
}

// ParseFragment parses src as the content of a <body> and reads it into blocks.
func ParseFragment(src string, opts ParseOptions) ([]Block, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, err
	}
	return ParseNodes(nodes, opts), nil
}

// ParseNodes reads a list of sibling markup nodes into blocks.
func ParseNodes(nodes []*html.Node, opts ParseOptions) []Block {
	p := &walker{opts: opts}
	ctx := scope{kind: Paragraph}
	for _, n := range nodes {
		p.walk(n, ctx)
	}
	p.flush()
	return p.blocks
}

// StripText extracts the text content of markup, skipping scripts and
// styles and folding whitespace.
func StripText(src string) string {
	return strings.Join(strings.Fields(textContent(src, " ")), " ")
}

// TextContent extracts the text content of markup with its line breaks,
// skipping comments, scripts and styles. Character references are
// decoded.
func TextContent(src string) string {
	return textContent(src, "")
}

// textContent writes sep for every tag.
func textContent(src, sep string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var sb strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				logger.DebugTagf("serializer", "tokenizer stopped: %v", z.Err())
			}
			return sb.String()
		case html.StartTagToken, html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skip++
				} else if skip > 0 {
					skip--
				}
			}
			sb.WriteString(sep)
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

// scope is the formatting inherited from enclosing elements.
type scope struct {
	kind  BlockKind
	align Align
	marks Marks
	pre   bool
}

type pendingBlock struct {
	kind     BlockKind
	align    Align
	runs     []Run
	explicit bool
}

type walker struct {
	opts    ParseOptions
	blocks  []Block
	pending *pendingBlock
}

var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Head: true, atom.Title: true,
	atom.Meta: true, atom.Link: true, atom.Template: true, atom.Noscript: true,
	atom.Svg: true, atom.Math: true, atom.Object: true, atom.Embed: true,
	atom.Button: true, atom.Input: true, atom.Select: true, atom.Textarea: true,
}

// boundaries are containers that are not blocks themselves but end the
// current block.
var boundaries = map[atom.Atom]bool{
	atom.Div: true, atom.Section: true, atom.Article: true, atom.Header: true,
	atom.Footer: true, atom.Main: true, atom.Nav: true, atom.Figure: true,
	atom.Figcaption: true, atom.Pre: true, atom.Table: true, atom.Thead: true,
	atom.Tbody: true, atom.Tfoot: true, atom.Tr: true, atom.Td: true,
	atom.Th: true, atom.Caption: true, atom.Dl: true, atom.Dt: true,
	atom.Dd: true, atom.Form: true, atom.Fieldset: true, atom.Address: true,
	atom.Details: true, atom.Summary: true, atom.Center: true, atom.Body: true,
	atom.Html: true, atom.Ul: true, atom.Ol: true,
}

// vocabulary are boundaries that belong to the accepted markup and are not
// reported as dropped.
var vocabulary = map[atom.Atom]bool{atom.Ul: true, atom.Ol: true, atom.Body: true, atom.Html: true}

func (p *walker) walk(n *html.Node, ctx scope) {
	switch n.Type {
	case html.TextNode:
		p.text(n.Data, ctx)
		return
	case html.ElementNode:
	case html.DocumentNode:
		p.children(n, ctx)
		return
	default:
		return
	}

	if skipped[n.DataAtom] {
		p.drop(n.Data)
		return
	}

	align, hasAlign := elementAlign(n)
	if hasAlign {
		ctx.align = align
	}
	ctx.marks = styleMarks(n, ctx.marks)

	switch n.DataAtom {
	case atom.P:
		p.block(n, ctx, ctx.kind)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		p.block(n, ctx, Heading3)
	case atom.Blockquote:
		p.block(n, ctx, Blockquote)
	case atom.Li:
		p.block(n, ctx, ListItem)
	case atom.Aside:
		p.block(n, ctx, InfoBox)
	case atom.Hr:
		p.flush()
		p.emit(NewSeparator())
	case atom.Img:
		p.image(n)
	case atom.Iframe:
		p.embed(n)
	case atom.Br:
		p.appendRun(Run{Text: "\n", Marks: ctx.marks}, ctx)
	case atom.Strong, atom.B:
		// A declared weight wins: Google Docs wraps whole pastes in
		// <b style="font-weight:normal">.
		ctx.marks.Bold = true
		ctx.marks = styleMarks(n, ctx.marks)
		p.children(n, ctx)
	case atom.Em, atom.I:
		ctx.marks.Italic = true
		ctx.marks = styleMarks(n, ctx.marks)
		p.children(n, ctx)
	case atom.U:
		ctx.marks.Underline = true
		p.children(n, ctx)
	case atom.Mark:
		ctx.marks.Highlight = HighlightSimple
		if attr(n, "data-style") == "animated" {
			ctx.marks.Highlight = HighlightAnimated
		}
		p.children(n, ctx)
	case atom.A:
		href := strings.TrimSpace(attr(n, "href"))
		if href != "" && (p.opts.AllowHref == nil || p.opts.AllowHref(href)) {
			ctx.marks.Href = href
		}
		p.children(n, ctx)
	default:
		if !vocabulary[n.DataAtom] {
			p.drop(n.Data)
		}
		if boundaries[n.DataAtom] {
			if n.DataAtom == atom.Pre {
				ctx.pre = true
			}
			p.flush()
			p.children(n, ctx)
			p.flush()
			return
		}
		p.children(n, ctx)
	}
}

func (p *walker) children(n *html.Node, ctx scope) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, ctx)
	}
}

func (p *walker) drop(tag string) {
	if p.opts.OnDrop != nil {
		p.opts.OnDrop(tag)
	}
}

// block opens an explicit block of kind for n's content. A paragraph nested
// in another block takes the kind of that block.
func (p *walker) block(n *html.Node, ctx scope, kind BlockKind) {
	p.flush()
	p.pending = &pendingBlock{kind: kind, align: ctx.align, explicit: true}
	ctx.kind = kind
	p.children(n, ctx)
	p.closeBlock()
}

func (p *walker) image(n *html.Node) {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" {
		p.drop(n.Data)
		return
	}
	p.flush()
	p.emit(NewImage(src, attr(n, "alt")))
}

func (p *walker) embed(n *html.Node) {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" || (p.opts.AllowEmbed != nil && !p.opts.AllowEmbed(src)) {
		p.drop(n.Data)
		return
	}
	p.flush()
	p.emit(NewVideo(src))
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func (p *walker) text(s string, ctx scope) {
	if ctx.pre {
		s = strings.ReplaceAll(s, "\r\n", "\n")
	} else {
		s = newlines.Replace(s)
		if p.opts.CollapseWhitespace {
			s = collapseSpaces(s)
		}
	}
	if s == "" {
		return
	}
	if p.pending == nil && strings.TrimSpace(s) == "" {
		return
	}
	p.appendRun(Run{Text: s, Marks: ctx.marks}, ctx)
}

func (p *walker) appendRun(r Run, ctx scope) {
	if p.pending == nil {
		p.pending = &pendingBlock{kind: ctx.kind, align: ctx.align}
	}
	p.pending.runs = append(p.pending.runs, r)
}

// flush ends the pending block because something split it. An empty
// pending block is discarded.
func (p *walker) flush() {
	p.finish(false)
}

// closeBlock ends the pending block at the close of its own element, so an
// explicit empty block survives.
func (p *walker) closeBlock() {
	p.finish(true)
}

func (p *walker) finish(closing bool) {
	pb := p.pending
	if pb == nil {
		return
	}
	p.pending = nil
	runs := pb.runs
	if !pb.explicit || p.opts.CollapseWhitespace {
		runs = trimRuns(runs)
	}
	if p.opts.CollapseWhitespace {
		runs = foldRunSpaces(runs)
	}
	runs = MergeRuns(runs)
	if len(runs) == 0 && (!closing || !pb.explicit || p.opts.DropEmptyBlocks) {
		return
	}
	blk := NewBlock(pb.kind)
	blk.Align = pb.align
	blk.Inlines = Build(runs)
	p.emit(blk)
}

func (p *walker) emit(b Block) {
	p.blocks = append(p.blocks, b)
}

func collapseSpaces(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\f' {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// trimRuns removes leading and trailing whitespace of the whole run list.
func trimRuns(runs []Run) []Run {
	out := slices.Clone(runs)
	for len(out) > 0 {
		out[0].Text = strings.TrimLeftFunc(out[0].Text, unicode.IsSpace)
		if out[0].Text != "" {
			break
		}
		out = out[1:]
	}
	for len(out) > 0 {
		last := len(out) - 1
		out[last].Text = strings.TrimRightFunc(out[last].Text, unicode.IsSpace)
		if out[last].Text != "" {
			break
		}
		out = out[:last]
	}
	return out
}

// foldRunSpaces drops a space that follows a space or line break across run
// boundaries, and a space right before a line break.
func foldRunSpaces(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	prev := '\n'
	for _, r := range runs {
		var text []rune
		for _, c := range r.Text {
			switch {
			case c == ' ' && (prev == ' ' || prev == '\n'):
				continue
			case c == '\n' && prev == ' ':
				if len(text) > 0 {
					text = text[:len(text)-1]
				} else {
					trimLastSpace(out)
				}
			}
			text = append(text, c)
			prev = c
		}
		out = append(out, Run{Text: string(text), Marks: r.Marks})
	}
	return out
}

func trimLastSpace(runs []Run) {
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].Text != "" {
			runs[i].Text = strings.TrimSuffix(runs[i].Text, " ")
			return
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// elementAlign reads data-align, the legacy align attribute, or an inline
// text-align declaration.
func elementAlign(n *html.Node) (Align, bool) {
	for _, key := range []string{"data-align", "align"} {
		if a, ok := ParseAlign(strings.ToLower(strings.TrimSpace(attr(n, key)))); ok {
			return a, true
		}
	}
	for _, d := range declarations(n) {
		if d.Property == "text-align" {
			if a, ok := ParseAlign(strings.ToLower(d.Value)); ok {
				return a, true
			}
		}
	}
	return AlignLeft, false
}

// styleMarks applies the inline declarations that carry meaning in pasted
// documents (word processors express bold and italic this way).
func styleMarks(n *html.Node, m Marks) Marks {
	for _, d := range declarations(n) {
		v := strings.ToLower(strings.TrimSpace(d.Value))
		switch d.Property {
		case "font-weight":
			switch v {
			case "bold", "bolder":
				m.Bold = true
			case "normal", "lighter":
				m.Bold = false
			default:
				if w, err := strconv.Atoi(v); err == nil {
					m.Bold = w >= 600
				}
			}
		case "font-style":
			m.Italic = v == "italic" || v == "oblique"
		case "text-decoration", "text-decoration-line":
			if strings.Contains(v, "underline") {
				m.Underline = true
			}
		}
	}
	return m
}

func declarations(n *html.Node) []*css.Declaration {
	style := attr(n, "style")
	if style == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return nil
	}
	for _, d := range decls {
		d.Property = strings.ToLower(strings.TrimSpace(d.Property))
	}
	return decls
}
