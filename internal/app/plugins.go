package app

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/bethropolis/prose/internal/commands"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/plugin"
	"github.com/bethropolis/prose/plugins/autosave"
	"github.com/bethropolis/prose/plugins/wordcount"
)

// registerPlugins registers the built-in commands and plugins. Plugins
// that fail to register are skipped.
func (a *App) registerPlugins() error {
	commands.RegisterAppCommands(a.editorAPI)

	plugins := []plugin.Plugin{
		wordcount.New(),
		autosave.New(a.cfg.Editor.AutosaveInterval),
	}

	var errs error
	for _, p := range plugins {
		logger.Debugf("Registering plugin: %s", p.Name())
		if err := a.pluginManager.Register(p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err))
		}
	}
	return errs
}
