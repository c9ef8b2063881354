// plugins/wordcount/wordcount.go
package wordcount

import (
	"fmt"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/plugin"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// WordCount reports the blocks, words and characters of the document.
type WordCount struct {
	api plugin.EditorAPI
}

// New creates a new instance of the WordCount plugin.
func New() *WordCount {
	return &WordCount{}
}

// Name returns the unique name of the plugin.
func (p *WordCount) Name() string {
	return "WordCount"
}

// Initialize registers the :wc command.
func (p *WordCount) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("wc", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *WordCount) Shutdown() error {
	return nil
}

func (p *WordCount) executeWordCount([]string) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}
	s := Count(p.api.GetDocument())
	p.api.SetStatusMessage("Blocks: %d, Words: %d, Characters: %d, Media: %d", s.Blocks, s.Words, s.Characters, s.Media)
	return nil
}

// Stats summarizes a document.
type Stats struct {
	Blocks     int
	Words      int
	Characters int
	Media      int
}

// Count walks the text blocks of doc. Words follow Unicode word
// boundaries; a segment counts when it holds a letter or digit.
func Count(doc document.Document) Stats {
	var s Stats
	s.Blocks = len(doc.Blocks)
	for _, b := range doc.Blocks {
		switch {
		case b.Kind == document.Image || b.Kind == document.VideoEmbed:
			s.Media++
			continue
		case !b.Kind.IsText():
			continue
		}
		text := b.PlainText()
		s.Characters += document.TextLen(text)
		s.Words += countWords(text)
	}
	return s
}

func countWords(text string) int {
	count := 0
	state := -1
	var word string
	for text != "" {
		word, text, state = uniseg.FirstWordInString(text, state)
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				count++
				break
			}
		}
	}
	return count
}
