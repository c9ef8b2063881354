// Package sanitize turns clipboard payloads from untrusted sources (word
// processors, other web pages, plain text editors) into blocks of the
// document vocabulary.
package sanitize

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/markup"
)

// ErrSanitizeDegraded reports that a markup payload could not be read as
// structured markup and was split as plain text instead. The blocks
// returned with it are usable.
var ErrSanitizeDegraded = errors.New("sanitize degraded to plain text")

// Payload is what the hosting surface hands over on paste. Either part may
// be empty; HTML wins when it holds structured markup.
type Payload struct {
	HTML string
	Text string
}

// Options configures a Sanitizer.
type Options struct {
	// EmbedHosts lists the hosts whose <iframe> embeds are kept.
	EmbedHosts []string
}

// Sanitizer is safe for concurrent use.
type Sanitizer struct {
	policy     *bluemonday.Policy
	prober     *markup.Prober
	embedHosts []string
}

// New builds a Sanitizer.
func New(opts Options) (*Sanitizer, error) {
	prober, err := markup.NewProber()
	if err != nil {
		return nil, fmt.Errorf("sanitize: %w", err)
	}
	hosts := make([]string, 0, len(opts.EmbedHosts))
	for _, h := range opts.EmbedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	return &Sanitizer{policy: NewPolicy(), prober: prober, embedHosts: hosts}, nil
}

// Sanitize converts p into blocks. A degraded result comes with an error
// wrapping ErrSanitizeDegraded; the blocks are valid either way.
func (s *Sanitizer) Sanitize(ctx context.Context, p Payload) ([]document.Block, error) {
	if strings.TrimSpace(p.HTML) == "" {
		return PlainText(p.Text), nil
	}

	src := norm.NFC.String(p.HTML)
	report, err := s.prober.Probe(ctx, []byte(src))
	if err != nil {
		return s.degrade(p, fmt.Sprintf("probe failed: %v", err))
	}
	if !report.Structured() {
		return s.degrade(p, "no elements")
	}

	var dropped []string
	blocks, err := document.ParseFragment(s.policy.Sanitize(src), document.ParseOptions{
		CollapseWhitespace: true,
		DropEmptyBlocks:    true,
		AllowEmbed:         s.allowEmbed,
		AllowHref:          allowHref,
		OnDrop: func(tag string) {
			if !slices.Contains(dropped, tag) {
				dropped = append(dropped, tag)
			}
		},
	})
	if err != nil {
		return s.degrade(p, fmt.Sprintf("parse failed: %v", err))
	}
	if len(blocks) == 0 && strings.TrimSpace(p.Text) != "" {
		return s.degrade(p, "markup held no content")
	}
	if len(dropped) > 0 {
		logger.DebugTagf("paste", "unwrapped %s", strings.Join(dropped, ", "))
	}
	logger.DebugTagf("paste", "sanitized %d elements into %d blocks", report.Elements, len(blocks))
	return blocks, nil
}

func (s *Sanitizer) degrade(p Payload, reason string) ([]document.Block, error) {
	text := p.Text
	if strings.TrimSpace(text) == "" {
		text = document.TextContent(p.HTML)
	}
	logger.WarnTagf("paste", "falling back to plain text: %s", reason)
	return PlainText(text), fmt.Errorf("%w: %s", ErrSanitizeDegraded, reason)
}

// PlainText splits text into one paragraph per non-blank line. Runs of
// blank lines collapse into one block boundary.
func PlainText(text string) []document.Block {
	text = norm.NFC.String(text)
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)
	var blocks []document.Block
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		blocks = append(blocks, document.NewParagraph(document.NewText(line)))
	}
	return blocks
}

func (s *Sanitizer) allowEmbed(src string) bool {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	return slices.Contains(s.embedHosts, strings.ToLower(u.Hostname()))
}

func allowHref(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return true
	}
	return false
}
