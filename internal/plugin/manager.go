// internal/plugin/manager.go
package plugin

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/bethropolis/prose/internal/logger"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
type Manager struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string // registration order; plugins start and stop in it
	api     EditorAPI
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin instance to the manager.
// This should be called before InitializePlugins.
func (m *Manager) Register(plugin Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := plugin.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}

	m.plugins[name] = plugin
	m.order = append(m.order, name)
	logger.DebugTagf("plugin", "Registered plugin '%s'", name)
	return nil
}

func (m *Manager) snapshot() []Plugin {
	out := make([]Plugin, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.plugins[name])
	}
	return out
}

// InitializePlugins calls Initialize on every registered plugin. A failing
// plugin does not stop the others; the failures are returned together.
func (m *Manager) InitializePlugins(api EditorAPI) error {
	m.mu.Lock()
	m.api = api
	pluginsToInit := m.snapshot()
	m.mu.Unlock()

	logger.Infof("Initializing %d plugins", len(pluginsToInit))
	var errs error
	for _, p := range pluginsToInit {
		if err := p.Initialize(api); err != nil {
			logger.ErrorTagf("plugin", "initializing plugin '%s': %v", p.Name(), err)
			errs = multierr.Append(errs, fmt.Errorf("plugin %s: %w", p.Name(), err))
			continue
		}
		logger.DebugTagf("plugin", "Initialized plugin '%s'", p.Name())
	}
	return errs
}

// ShutdownPlugins calls Shutdown on all registered plugins, last registered
// first.
func (m *Manager) ShutdownPlugins() error {
	m.mu.RLock()
	plugins := m.snapshot()
	m.mu.RUnlock()

	logger.Infof("Shutting down %d plugins", len(plugins))
	var errs error
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(); err != nil {
			logger.ErrorTagf("plugin", "shutting down plugin '%s': %v", p.Name(), err)
			errs = multierr.Append(errs, fmt.Errorf("plugin %s: %w", p.Name(), err))
		}
	}
	return errs
}

// GetPlugin returns a registered plugin by name.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.plugins[name]
	return p, exists
}

// Names lists the registered plugins in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}
