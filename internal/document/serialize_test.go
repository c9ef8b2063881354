package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	quote := NewBlock(Blockquote, NewText("q"))
	quote.Align = AlignCenter
	return New(
		NewParagraph(NewText("Isto é "), NewBold(NewText("importante")), NewText(".")),
		NewBlock(Heading3, NewText("Título")),
		NewBlock(ListItem, NewText("a")),
		NewBlock(ListItem, NewText("b")),
		NewSeparator(),
		NewImage("https://cdn.example.com/a.png", "A"),
		NewVideo("https://www.youtube.com/embed/x"),
		quote,
	)
}

func TestSerialize(t *testing.T) {
	want := `<p>Isto é <strong>importante</strong>.</p>` +
		`<h3>Título</h3>` +
		`<ul><li>a</li><li>b</li></ul>` +
		`<hr>` +
		`<img src="https://cdn.example.com/a.png" alt="A">` +
		`<iframe src="https://www.youtube.com/embed/x"></iframe>` +
		`<blockquote data-align="center">q</blockquote>`
	assert.Equal(t, want, Serialize(sampleDocument()))
}

func TestSerialize_InlineMarks(t *testing.T) {
	doc := New(NewParagraph(
		NewHighlight(HighlightAnimated, NewText("hot")),
		NewText(" "),
		NewHighlight(HighlightSimple, NewText("warm")),
		NewText("\n"),
		NewLink("https://example.com/?a=1&b=2", NewText("go")),
		NewText(" <tag> & more"),
	))
	want := `<p><mark data-style="animated">hot</mark> <mark>warm</mark><br>` +
		`<a href="https://example.com/?a=1&amp;b=2">go</a> &lt;tag&gt; &amp; more</p>`
	assert.Equal(t, want, Serialize(doc))
}

func TestSerialize_Deterministic(t *testing.T) {
	a := sampleDocument()
	b := sampleDocument()
	// Fresh IDs never leak into the output.
	assert.NotEqual(t, a.Blocks[0].ID, b.Blocks[0].ID)
	assert.Equal(t, Serialize(a), Serialize(b))
}

func TestRoundTrip(t *testing.T) {
	list := NewBlock(ListItem, NewItalic(NewText("only")))
	list.Align = AlignJustify
	docs := map[string]Document{
		"sample": sampleDocument(),
		"empty":  Empty(),
		"nested marks": New(NewParagraph(
			NewLink("https://e.com", NewBold(NewText("x"), NewItalic(NewText("y")))),
			NewUnderline(NewHighlight(HighlightAnimated, NewText("z"))),
			NewBold(NewUnderline(NewText("w"))),
		)),
		"whitespace": New(
			NewParagraph(NewText("  leading and  double  ")),
			NewParagraph(),
			NewParagraph(NewText("tab\there")),
		),
		"line breaks": New(NewBlock(InfoBox, NewText("one\ntwo\n"), NewBold(NewText("three")))),
		"escaping": New(
			NewParagraph(NewText(`5 < 6 & "quotes" 'single'`)),
			NewImage("https://e.com/a.png?x=1&y=2", `alt "with" quotes`),
		),
		"lists": New(list, NewParagraph(NewText("between")), NewBlock(ListItem)),
		"separators": New(NewSeparator(), NewSeparator(), NewParagraph(NewText("after"))),
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			got, err := Deserialize(Serialize(doc))
			require.NoError(t, err)
			assert.True(t, Equal(doc, got), "want %s\ngot  %s", Serialize(doc), Serialize(got))
		})
	}
}

func TestDeserialize_LiftsUnknownElements(t *testing.T) {
	doc, err := Deserialize(`<p>a <span class="x">b</span></p><div>c</div><div>d</div>`)
	require.ErrorIs(t, err, ErrDeserializeFallback)
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "a b", doc.Blocks[0].PlainText())
	assert.Equal(t, "c", doc.Blocks[1].PlainText())
	assert.Equal(t, "d", doc.Blocks[2].PlainText())
	for _, b := range doc.Blocks {
		assert.Equal(t, Paragraph, b.Kind)
	}
}

func TestDeserialize_AcceptedAliases(t *testing.T) {
	doc, err := Deserialize(`<h1>T</h1><ol><li><b>x</b></li></ol><p style="text-align: right">r</p><p><i>i</i></p>`)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 4)

	assert.Equal(t, Heading3, doc.Blocks[0].Kind)
	assert.Equal(t, ListItem, doc.Blocks[1].Kind)
	assert.Equal(t, []Inline{NewBold(NewText("x"))}, doc.Blocks[1].Inlines)
	assert.Equal(t, AlignRight, doc.Blocks[2].Align)
	assert.Equal(t, []Inline{NewItalic(NewText("i"))}, doc.Blocks[3].Inlines)
}

func TestDeserialize_IgnoresWhitespaceBetweenBlocks(t *testing.T) {
	doc, err := Deserialize("<p>a</p>\n  <p>b</p>\n")
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "a", doc.Blocks[0].PlainText())
	assert.Equal(t, "b", doc.Blocks[1].PlainText())
}

func TestDeserialize_Empty(t *testing.T) {
	doc, err := Deserialize("")
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, Paragraph, doc.Blocks[0].Kind)
	assert.Empty(t, doc.Blocks[0].Inlines)
}

func TestDeserialize_HoistsImages(t *testing.T) {
	doc, err := Deserialize(`<p><strong>before <img src="https://e.com/i.png" alt="">after</strong></p>`)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, []Inline{NewBold(NewText("before "))}, doc.Blocks[0].Inlines)
	assert.Equal(t, Image, doc.Blocks[1].Kind)
	assert.Equal(t, []Inline{NewBold(NewText("after"))}, doc.Blocks[2].Inlines)
}

func TestDeserialize_SkipsScripts(t *testing.T) {
	doc, err := Deserialize(`<p>safe</p><script>alert(1)</script>`)
	require.ErrorIs(t, err, ErrDeserializeFallback)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "safe", doc.Blocks[0].PlainText())
}

func TestParseFragment_CollapseWhitespace(t *testing.T) {
	blocks, err := ParseFragment("<p>  a   <b> b</b>  </p><p>   </p>", ParseOptions{
		CollapseWhitespace: true,
		DropEmptyBlocks:    true,
	})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []Inline{NewText("a "), NewBold(NewText("b"))}, blocks[0].Inlines)
}

func TestParseFragment_StyledSpans(t *testing.T) {
	src := `<b style="font-weight:normal" id="docs-internal-guid-1">` +
		`<p><span style="font-weight:700">bold</span> <span style="font-style:italic">it</span> plain</p></b>`
	blocks, err := ParseFragment(src, ParseOptions{CollapseWhitespace: true})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []Inline{
		NewBold(NewText("bold")),
		NewText(" "),
		NewItalic(NewText("it")),
		NewText(" plain"),
	}, blocks[0].Inlines)
}

func TestParseFragment_Filters(t *testing.T) {
	var dropped []string
	blocks, err := ParseFragment(
		`<p><a href="javascript:x()">link</a></p><iframe src="https://evil.example/x"></iframe>`,
		ParseOptions{
			AllowHref:  func(string) bool { return false },
			AllowEmbed: func(string) bool { return false },
			OnDrop:     func(tag string) { dropped = append(dropped, tag) },
		})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []Inline{NewText("link")}, blocks[0].Inlines)
	assert.Equal(t, []string{"iframe"}, dropped)
}

func TestStripText(t *testing.T) {
	assert.Equal(t, "a b", StripText(`<p>a<script>x()</script> <b>b</b></p>`))
	assert.Equal(t, "broken text", StripText(`<p>broken <b>text`))
}

func TestTextContent(t *testing.T) {
	assert.Equal(t, "", TextContent("<!--StartFragment-->"))
	assert.Equal(t, "a\n\nb & c", TextContent("<!-- x -->a\n\n<script>y()</script>b &amp; c"))
}
