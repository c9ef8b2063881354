// Package autosave saves a modified document after editing pauses and on
// a fixed interval while editing continues.
package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/plugin"
	"github.com/bethropolis/prose/internal/utils"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

// quietPeriod is how long editing must pause before a save.
const quietPeriod = 2 * time.Second

// AutoSave plugin automatically saves the modified document.
type AutoSave struct {
	api plugin.EditorAPI

	mutex    sync.RWMutex
	interval time.Duration
	quiet    time.Duration

	debouncer utils.Debouncer
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New creates the plugin. A non-positive interval disables it.
func New(interval time.Duration) *AutoSave {
	return &AutoSave{interval: interval, quiet: min(quietPeriod, interval)}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

func (p *AutoSave) enabled() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.interval > 0
}

// Initialize subscribes to document changes and starts the interval loop.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if !p.enabled() {
		logger.Infof("%s disabled", p.Name())
		return nil
	}

	api.SubscribeEvent(event.TypeDocumentModified, func(event.Event) bool {
		p.debouncer.Debounce(p.quiet, p.requestSave)
		return false
	})

	p.stopChan = make(chan struct{})
	p.wg.Add(1)
	go p.saverLoop(p.interval)
	logger.Infof("%s initialized. Interval: %v, quiet period: %v", p.Name(), p.interval, p.quiet)
	return nil
}

// Shutdown stops pending saves and the interval loop.
func (p *AutoSave) Shutdown() error {
	p.debouncer.Stop()
	if p.stopChan != nil {
		close(p.stopChan)
		p.wg.Wait()
		p.stopChan = nil
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

func (p *AutoSave) saverLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.requestSave()
		case <-p.stopChan:
			return
		}
	}
}

// requestSave hands the save to the goroutine that owns the editor.
func (p *AutoSave) requestSave() {
	p.api.Post(p.saveIfModified)
}

// saveIfModified saves a modified document that has a file.
func (p *AutoSave) saveIfModified() {
	if !p.api.IsModified() {
		return
	}
	filePath := p.api.GetFilePath()
	if filePath == "" {
		logger.Debugf("%s: Document has no file name, skipping auto-save.", p.Name())
		return
	}

	if err := p.api.SaveDocument(); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), filePath, err)
		p.api.SetStatusMessage("Auto-save failed: %v", err)
		return
	}
	logger.Debugf("%s: Auto-saved '%s'", p.Name(), filePath)
}
