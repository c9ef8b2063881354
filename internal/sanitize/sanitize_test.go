package sanitize

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/bethropolis/prose/internal/document"
)

func newSanitizer(t *testing.T) *Sanitizer {
	t.Helper()
	s, err := New(Options{EmbedHosts: []string{" WWW.YouTube.com "}})
	require.NoError(t, err)
	return s
}

func serialize(blocks []document.Block) string {
	return document.Serialize(document.New(blocks...))
}

func TestPlainText(t *testing.T) {
	blocks := PlainText("Linha 1\n\nLinha 2")
	require.Len(t, blocks, 2)
	assert.Equal(t, document.Paragraph, blocks[0].Kind)
	assert.Equal(t, "Linha 1", blocks[0].PlainText())
	assert.Equal(t, "Linha 2", blocks[1].PlainText())

	blocks = PlainText("a\r\n \r\n\t\r\nb\rc\n\n\n")
	assert.Equal(t, "<p>a</p><p>b</p><p>c</p>", serialize(blocks))

	assert.Empty(t, PlainText("\n \n"))
}

func TestSanitize_PlainPayload(t *testing.T) {
	s := newSanitizer(t)
	blocks, err := s.Sanitize(context.Background(), Payload{Text: "Linha 1\n\nLinha 2"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Linha 1</p><p>Linha 2</p>", serialize(blocks))
}

func TestSanitize_DegradesWithoutElements(t *testing.T) {
	s := newSanitizer(t)
	blocks, err := s.Sanitize(context.Background(), Payload{HTML: "Linha 1\n\nLinha 2 &amp; 3"})
	require.ErrorIs(t, err, ErrSanitizeDegraded)
	assert.Equal(t, "<p>Linha 1</p><p>Linha 2 &amp; 3</p>", serialize(blocks))

	// The text flavor wins over the markup when falling back.
	blocks, err = s.Sanitize(context.Background(), Payload{HTML: "just words", Text: "just\nwords"})
	require.ErrorIs(t, err, ErrSanitizeDegraded)
	assert.Equal(t, "<p>just</p><p>words</p>", serialize(blocks))
}

func TestSanitize_DegradedMarkupKeepsOnlyText(t *testing.T) {
	s := newSanitizer(t)

	blocks, err := s.Sanitize(context.Background(), Payload{HTML: "<!--StartFragment-->"})
	require.ErrorIs(t, err, ErrSanitizeDegraded)
	assert.Empty(t, blocks)

	blocks, err = s.Sanitize(context.Background(), Payload{HTML: "<!--StartFragment-->one\n\ntwo &lt;3<!--EndFragment-->"})
	require.ErrorIs(t, err, ErrSanitizeDegraded)
	assert.Equal(t, "<p>one</p><p>two &lt;3</p>", serialize(blocks))
}

func TestSanitize_Corpus(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "word processor",
			html: `<html><head><style>p.MsoNormal{color:red}</style></head><body>` +
				`<p class="MsoNormal" style="margin:0cm"><b><span style="font-family:Arial;color:#FF0000">Title</span></b><o:p></o:p></p>` +
				`<p class="MsoNormal"><o:p>&nbsp;</o:p></p>` +
				`<p class="MsoNormal"><span style="font-size:11pt">plain <i>it</i></span></p></body></html>`,
			want: `<p><strong>Title</strong></p><p>plain <em>it</em></p>`,
		},
		{
			name: "google docs",
			html: `<meta charset="utf-8"><b style="font-weight:normal;" id="docs-internal-guid-1">` +
				`<p dir="ltr" style="line-height:1.38;text-align:center">` +
				`<span style="font-weight:700;color:#000000">Bold</span><span style="font-style:italic"> and italic</span></p></b>`,
			want: `<p data-align="center"><strong>Bold</strong><em> and italic</em></p>`,
		},
		{
			name: "web page",
			html: `<div class="post"><h1 onclick="x()">Headline</h1>` +
				`<p>Read <a href="javascript:alert(1)">this</a> and <a href="https://example.com/a" target="_blank">that</a>.</p>` +
				`<script>alert(1)</script>` +
				`<img src="data:image/png;base64,AAAA"><img src="https://cdn.example.com/x.png" alt="X" width="10"></div>`,
			want: `<h3>Headline</h3><p>Read this and <a href="https://example.com/a">that</a>.</p>` +
				`<img src="https://cdn.example.com/x.png" alt="X">`,
		},
		{
			name: "embeds",
			html: `<p>watch</p><iframe src="https://www.youtube.com/embed/abc" width="560"></iframe>` +
				`<iframe src="https://evil.example/x"></iframe>`,
			want: `<p>watch</p><iframe src="https://www.youtube.com/embed/abc"></iframe>`,
		},
		{
			name: "presentational wrappers",
			html: `<p style="color:red" class="x"><font color="red" face="Arial">t</font><span>u</span></p>`,
			want: `<p>tu</p>`,
		},
		{
			name: "table cells become blocks",
			html: `<table><tr><td>c1</td><td>c2</td></tr></table>`,
			want: `<p>c1</p><p>c2</p>`,
		},
		{
			name: "highlights",
			html: `<mark data-style="animated" style="color:red">x</mark><mark data-style="evil">y</mark>`,
			want: `<p><mark data-style="animated">x</mark><mark>y</mark></p>`,
		},
		{
			name: "lists",
			html: `<ol><li>one</li><li><b>two</b></li></ol>`,
			want: `<ul><li>one</li><li><strong>two</strong></li></ul>`,
		},
	}
	s := newSanitizer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := s.Sanitize(context.Background(), Payload{HTML: tt.html})
			require.NoError(t, err)
			assert.Equal(t, tt.want, serialize(blocks))
		})
	}
}

func TestSanitize_MalformedMarkup(t *testing.T) {
	s := newSanitizer(t)
	blocks, err := s.Sanitize(context.Background(), Payload{HTML: `<p>unclosed <b>bold<p>next</i>`})
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "unclosed bold", blocks[0].PlainText())
	assert.Equal(t, "next", blocks[1].PlainText())
}

func TestSanitize_NormalizesToNFC(t *testing.T) {
	s := newSanitizer(t)
	blocks, err := s.Sanitize(context.Background(), Payload{HTML: "<p>cafe\u0301</p>"})
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", blocks[0].PlainText())

	blocks, err = s.Sanitize(context.Background(), Payload{Text: "Isto e\u0301"})
	require.NoError(t, err)
	assert.Equal(t, "Isto \u00e9", blocks[0].PlainText())
}

// allowedAttrs is the whole persisted vocabulary: tag -> attributes.
var allowedAttrs = map[string][]string{
	"p": {"data-align"}, "h3": {"data-align"}, "blockquote": {"data-align"},
	"li": {"data-align"}, "aside": {"data-align"}, "ul": nil, "hr": nil,
	"img": {"src", "alt"}, "iframe": {"src"},
	"strong": nil, "em": nil, "u": nil, "br": nil,
	"mark": {"data-style"}, "a": {"href"},
}

func TestSanitize_Containment(t *testing.T) {
	corpus := []string{
		`<p style="color:red;font-family:Comic Sans" class="big" id="x" onclick="evil()">styled</p>`,
		`<div><span style="font-weight:bold;background:yellow">w</span><font size="7">big</font></div>`,
		`<h2 align="right" style="text-align:left">h</h2><h6>small</h6>`,
		`<ul><li style="list-style:none">a<ul><li>nested</li></ul></li></ul>`,
		`<a href="vbscript:x">v</a><a href="mailto:a@b.c" title="t">m</a><a href="/relative">r</a>`,
		`<svg><circle r="1"/></svg><math><mi>x</mi></math><object data="x"></object>`,
		`<form><input value="v"><button>b</button><textarea>t</textarea></form>`,
		`<blockquote cite="x"><p>q</p><aside>note</aside></blockquote>`,
		`<iframe src="https://www.youtube.com/embed/a" allowfullscreen style="border:0"></iframe>`,
		`<img src="https://x.test/i.png" onerror="alert(1)" style="width:1px">`,
		`<pre>  code
  block</pre><code>inline</code><sub>1</sub><sup>2</sup>`,
		`<<p>>broken</p <b>`,
	}
	s := newSanitizer(t)
	for _, src := range corpus {
		blocks, _ := s.Sanitize(context.Background(), Payload{HTML: src, Text: "fallback"})
		out := serialize(blocks)
		assert.NotContains(t, out, "style=", src)
		assert.NotContains(t, out, "class=", src)
		assert.NotContains(t, out, "color", src)

		z := html.NewTokenizer(strings.NewReader(out))
		for {
			tt := z.Next()
			if tt == html.ErrorToken {
				require.ErrorIs(t, z.Err(), io.EOF)
				break
			}
			if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
				continue
			}
			tok := z.Token()
			attrs, ok := allowedAttrs[tok.Data]
			if !assert.True(t, ok, "tag %q from %q", tok.Data, src) {
				continue
			}
			for _, a := range tok.Attr {
				assert.Contains(t, attrs, a.Key, "attribute %q on %q from %q", a.Key, tok.Data, src)
			}
		}
	}
}
