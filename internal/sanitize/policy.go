package sanitize

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// structural elements survive the policy so the block reader can still see
// their boundaries; it unwraps the ones outside the document vocabulary.
var structural = []string{
	"p", "div", "section", "article", "header", "footer", "main", "nav",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"blockquote", "aside", "pre", "address", "figure", "figcaption",
	"ul", "ol", "li", "dl", "dt", "dd",
	"table", "thead", "tbody", "tfoot", "tr", "td", "th", "caption",
	"hr", "br",
}

var inline = []string{
	"strong", "b", "em", "i", "u", "mark", "a", "span", "font", "sub", "sup",
	"code", "small", "cite", "q", "abbr",
}

var (
	alignValue = regexp.MustCompile(`^(?i)(left|center|right|justify)$`)
	markStyle  = regexp.MustCompile(`^animated$`)
)

// NewPolicy returns the first-pass policy for pasted markup. It strips
// classes, ids, event handlers, colors, fonts and sizes, every URL outside
// http, https and mailto, and every element it does not know together with
// its tags (text is kept, except inside script and style). The only styles
// that survive are those the block reader turns into marks or alignment.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(structural...)
	p.AllowElements(inline...)
	p.AllowNoAttrs().OnElements(structural...)
	p.AllowNoAttrs().OnElements("strong", "b", "em", "i", "u", "mark", "span", "sub", "sup", "code", "small", "cite", "q", "abbr")

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("src").OnElements("iframe")
	p.AllowAttrs("data-style").Matching(markStyle).OnElements("mark")
	p.AllowAttrs("align", "data-align").Matching(alignValue).Globally()

	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)

	p.AllowStyles("font-weight", "font-style", "text-decoration", "text-decoration-line", "text-align").Globally()

	return p
}
