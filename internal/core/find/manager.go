// Package find searches the text of the document's blocks.
package find

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
)

// EditorInterface defines methods the find manager needs from the editor.
type EditorInterface interface {
	LiveDocument() *document.Document
	CaretPoint() document.Point
	SetCaretPoint(p document.Point)
	MarkModified(source string)
	CommitHistory()
}

// Match is one occurrence, in characters of its block.
type Match struct {
	Block    int
	From, To int
}

// Start returns the point where the match begins.
func (m Match) Start() document.Point {
	return document.Point{Block: m.Block, Offset: m.From}
}

// Manager handles find, replace, and search highlighting logic.
type Manager struct {
	editor EditorInterface
	mutex  sync.RWMutex

	term    string
	re      *regexp.Regexp
	matches []Match
	stale   bool
}

// NewManager creates a find manager.
func NewManager(editor EditorInterface) *Manager {
	return &Manager{editor: editor}
}

// HighlightMatches compiles term and collects its occurrences.
func (m *Manager) HighlightMatches(term string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.term, m.re, m.matches, m.stale = term, nil, nil, false
	if term == "" {
		return nil
	}
	re, err := regexp.Compile(term)
	if err != nil {
		logger.Warnf("HighlightMatches: invalid pattern %q: %v", term, err)
		return fmt.Errorf("invalid search pattern: %w", err)
	}
	m.re = re
	m.matches = collect(m.editor.LiveDocument(), re)
	logger.DebugTagf("find", "%d matches for %q", len(m.matches), term)
	return nil
}

func collect(doc *document.Document, re *regexp.Regexp) []Match {
	var out []Match
	for b, blk := range doc.Blocks {
		if !blk.Kind.IsText() {
			continue
		}
		s := blk.PlainText()
		for _, loc := range re.FindAllStringIndex(s, -1) {
			if loc[0] == loc[1] {
				continue
			}
			out = append(out, Match{Block: b, From: document.TextLen(s[:loc[0]]), To: document.TextLen(s[:loc[1]])})
		}
	}
	return out
}

// Invalidate marks the matches stale after the document changed.
func (m *Manager) Invalidate() {
	m.mutex.Lock()
	m.stale = true
	m.mutex.Unlock()
}

// Matches returns the current occurrences.
func (m *Manager) Matches() []Match {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.refreshLocked()
	return append([]Match(nil), m.matches...)
}

func (m *Manager) refreshLocked() {
	if m.stale && m.re != nil {
		m.matches = collect(m.editor.LiveDocument(), m.re)
	}
	m.stale = false
}

// FindNext moves the caret to the next occurrence after (or before) it,
// wrapping around the document. It reports whether the search wrapped.
func (m *Manager) FindNext(forward bool) (match Match, found, wrapped bool) {
	m.mutex.Lock()
	m.refreshLocked()
	matches := m.matches
	m.mutex.Unlock()
	if len(matches) == 0 {
		return Match{}, false, false
	}

	caret := m.editor.CaretPoint()
	if forward {
		for _, mt := range matches {
			if document.ComparePoints(mt.Start(), caret) > 0 {
				match, found = mt, true
				break
			}
		}
		if !found {
			match, found, wrapped = matches[0], true, true
		}
	} else {
		for i := len(matches) - 1; i >= 0; i-- {
			if document.ComparePoints(matches[i].Start(), caret) < 0 {
				match, found = matches[i], true
				break
			}
		}
		if !found {
			match, found, wrapped = matches[len(matches)-1], true, true
		}
	}
	m.editor.SetCaretPoint(match.Start())
	return match, found, wrapped
}

// ClearHighlights forgets the current search.
func (m *Manager) ClearHighlights() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.term, m.re, m.matches, m.stale = "", nil, nil, false
}

// HasHighlights checks if there are any search highlights.
func (m *Manager) HasHighlights() bool {
	return len(m.Matches()) > 0
}

// --- Replace Logic ---

// ParseSubstituteCommand parses the /pattern/replacement/[g] part of :s.
func ParseSubstituteCommand(cmdStr string) (pattern, replacement string, global bool, err error) {
	parts := strings.SplitN(cmdStr, "/", 4)
	if len(parts) < 3 || parts[0] != "" {
		err = fmt.Errorf("invalid format: use /pattern/replacement/[g]")
		return
	}
	pattern, replacement = parts[1], parts[2]
	if pattern == "" {
		err = fmt.Errorf("search pattern cannot be empty")
		return
	}
	global = len(parts) > 3 && strings.Contains(parts[3], "g")
	return
}

// Replace substitutes occurrences of pattern in the caret's block, or in
// every block when global is set. Replacement text takes the formatting
// of the first replaced character. The whole replacement is one history
// step.
func (m *Manager) Replace(pattern, replacement string, global bool) (int, error) {
	if pattern == "" {
		return 0, fmt.Errorf("search pattern cannot be empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid search pattern: %w", err)
	}

	doc := m.editor.LiveDocument()
	caret := m.editor.CaretPoint()
	matches := collect(doc, re)
	count := 0
	// Back to front so earlier offsets stay valid.
	for i := len(matches) - 1; i >= 0; i-- {
		mt := matches[i]
		if !global && mt.Block != caret.Block {
			continue
		}
		marks := doc.MarksAt(document.Point{Block: mt.Block, Offset: mt.From + 1})
		at := doc.DeleteRange(mt.Start(), document.Point{Block: mt.Block, Offset: mt.To})
		doc.InsertText(at, replacement, &marks)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	m.editor.SetCaretPoint(caret)
	m.editor.MarkModified("replace")
	m.editor.CommitHistory()
	logger.DebugTagf("find", "replaced %d occurrences of %q", count, pattern)
	return count, nil
}
