// Package markup inspects clipboard payloads with the tree-sitter HTML
// grammar. It answers one question before sanitizing: is this structured
// markup at all, or text that happens to contain angle brackets?
package markup

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	htmlsrc "github.com/smacker/go-tree-sitter/html"

	"github.com/bethropolis/prose/internal/logger"
)

//go:embed queries/tags.scm
var tagsQuery []byte

// Report summarizes a probed payload.
type Report struct {
	// Elements counts element tags, void elements included.
	Elements int
	// Tags counts elements by lowercased tag name.
	Tags map[string]int
	// RawText counts script and style elements.
	RawText int
	// HasError is set when the grammar had to recover from broken markup.
	HasError bool
}

// Structured reports whether the payload should go through the markup
// sanitizer rather than plain-text splitting.
func (r Report) Structured() bool {
	return r.Elements > 0
}

// Prober parses payloads with a reusable parser. It is safe for concurrent
// use; parses are serialized.
type Prober struct {
	mu     sync.Mutex
	lang   *sitter.Language
	parser *sitter.Parser
	query  *sitter.Query
}

// NewProber builds a prober for the HTML grammar.
func NewProber() (*Prober, error) {
	lang := htmlsrc.GetLanguage()
	query, err := sitter.NewQuery(tagsQuery, lang)
	if err != nil {
		return nil, fmt.Errorf("markup: tag query: %w", err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return &Prober{lang: lang, parser: parser, query: query}, nil
}

// Probe parses src and counts its elements.
func (p *Prober) Probe(ctx context.Context, src []byte) (Report, error) {
	report := Report{Tags: make(map[string]int)}
	if len(strings.TrimSpace(string(src))) == 0 {
		return report, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return report, fmt.Errorf("markup: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	report.HasError = root.HasError()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(p.query, root)
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			switch p.query.CaptureNameForId(capture.Index) {
			case "tag":
				name := strings.ToLower(capture.Node.Content(src))
				report.Elements++
				report.Tags[name]++
			case "raw":
				report.RawText++
			}
		}
	}

	logger.DebugTagf("paste", "probe: %d elements, %d raw, error=%v", report.Elements, report.RawText, report.HasError)
	return report, nil
}
