// Package clipboard keeps the last copied fragment and bridges it to the
// system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/sanitize"
)

// System is the platform clipboard. It only carries plain text.
type System interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type atottoSystem struct{}

func (atottoSystem) ReadAll() (string, error)    { return clipboard.ReadAll() }
func (atottoSystem) WriteAll(text string) error { return clipboard.WriteAll(text) }

// NewSystem returns the platform clipboard, or nil when the platform has
// no clipboard utility.
func NewSystem() System {
	if clipboard.Unsupported {
		logger.WarnTagf("clipboard", "system clipboard unsupported on this platform")
		return nil
	}
	return atottoSystem{}
}

// Manager handles clipboard operations
type Manager struct {
	mu     sync.Mutex
	system System
	// copied is the markup of the last copy; text is what went to the
	// system clipboard with it.
	copied string
	text   string
}

// NewManager creates a new clipboard manager. A nil system keeps copies
// inside the editor.
func NewManager(system System) *Manager {
	return &Manager{system: system}
}

// Copy stores the content between a and b. It reports false when the range
// is empty.
func (m *Manager) Copy(doc document.Document, a, b document.Point) (bool, error) {
	frag := doc.Fragment(a, b)
	if len(frag) == 0 {
		return false, nil
	}
	fragDoc := document.New(frag...)
	html, text := document.Serialize(fragDoc), fragDoc.Text()

	m.mu.Lock()
	m.copied, m.text = html, text
	system := m.system
	m.mu.Unlock()

	logger.DebugTagf("clipboard", "copied %d blocks", len(frag))
	if system != nil {
		if err := system.WriteAll(text); err != nil {
			return true, fmt.Errorf("system clipboard write: %w", err)
		}
	}
	return true, nil
}

// Payload returns what a paste should insert. Text on the system clipboard
// that did not come from the last copy wins over it; the markup of the
// last copy is used otherwise so formatting survives copy and paste
// inside the editor.
func (m *Manager) Payload() sanitize.Payload {
	m.mu.Lock()
	copied, text, system := m.copied, m.text, m.system
	m.mu.Unlock()

	if system != nil {
		external, err := system.ReadAll()
		if err != nil {
			logger.WarnTagf("clipboard", "system clipboard read failed: %v", err)
		} else if external != "" && external != text {
			return sanitize.Payload{Text: external}
		}
	}
	return sanitize.Payload{HTML: copied, Text: text}
}

// Empty reports whether a paste would insert nothing.
func (m *Manager) Empty() bool {
	p := m.Payload()
	return p.HTML == "" && p.Text == ""
}
