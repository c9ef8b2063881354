// Package commands registers the built-in ":" commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bethropolis/prose/internal/core/command"
	"github.com/bethropolis/prose/internal/core/find"
	"github.com/bethropolis/prose/internal/logger"
	"github.com/bethropolis/prose/internal/plugin"
)

// ErrUnsavedChanges refuses :q on a modified document.
var ErrUnsavedChanges = errors.New("unsaved changes (add ! to override)")

type registrar interface {
	RegisterCommand(name string, cmdFunc plugin.CommandFunc) error
}

func register(api registrar, name string, fn plugin.CommandFunc) {
	if err := api.RegisterCommand(name, fn); err != nil {
		logger.Warnf("Failed to register ':%s' command: %v", name, err)
	}
}

// RegisterAppCommands registers the built-in commands: file and quit
// handling, history, find and replace, uploads, every formatting command
// and the theme commands.
func RegisterAppCommands(api plugin.EditorAPI) {
	registerFileCommands(api)
	registerEditCommands(api)
	registerFormattingCommands(api)
	RegisterThemeCommands(api, api)
}

func registerFileCommands(api plugin.EditorAPI) {
	write := func(args []string) error {
		if len(args) > 0 {
			return api.SaveDocumentAs(strings.Join(args, " "))
		}
		return api.SaveDocument()
	}

	register(api, "w", func(args []string) error {
		if err := write(args); err != nil {
			return err
		}
		api.SetStatusMessage("Saved %s", api.GetFilePath())
		return nil
	})
	register(api, "q", func([]string) error {
		if api.IsModified() {
			return ErrUnsavedChanges
		}
		api.RequestQuit(false)
		return nil
	})
	register(api, "q!", func([]string) error {
		api.RequestQuit(true)
		return nil
	})
	register(api, "wq", func(args []string) error {
		if err := write(args); err != nil {
			return err
		}
		api.RequestQuit(false)
		return nil
	})
}

func registerEditCommands(api plugin.EditorAPI) {
	register(api, "undo", func([]string) error {
		if !api.Undo() {
			api.SetStatusMessage("Nothing to undo")
		}
		return nil
	})
	register(api, "redo", func([]string) error {
		if !api.Redo() {
			api.SetStatusMessage("Nothing to redo")
		}
		return nil
	})

	// :s/pattern/replacement/[g]
	register(api, "s", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: s/pattern/replacement/[g]")
		}
		pattern, replacement, global, err := find.ParseSubstituteCommand(strings.Join(args, " "))
		if err != nil {
			return err
		}
		n, err := api.Replace(pattern, replacement, global)
		if err != nil {
			return err
		}
		api.SetStatusMessage("Replaced %d occurrence(s)", n)
		return nil
	})

	register(api, "find", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: find PATTERN")
		}
		pattern := strings.Join(args, " ")
		found, err := api.Find(pattern)
		if err != nil {
			return err
		}
		if !found {
			api.SetStatusMessage("Pattern not found: %s", pattern)
		}
		return nil
	})

	register(api, "upload", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: upload FILE...")
		}
		if err := api.UploadFiles(context.Background(), args...); err != nil {
			return err
		}
		api.SetStatusMessage("Uploading %d file(s)", len(args))
		return nil
	})
}

// registerFormattingCommands exposes every formatting command as ":name".
func registerFormattingCommands(api plugin.EditorAPI) {
	for _, name := range command.Names {
		register(api, name, func([]string) error {
			return api.ApplyCommand(name)
		})
	}
}

// RegisterThemeCommands registers only theme-related commands
func RegisterThemeCommands(api registrar, themeAPI ThemeAPI) {
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			themeAPI.SetStatusMessage("Current theme: %s", themeAPI.GetTheme().Name)
			return nil
		}

		themeName := strings.Join(args, " ")
		if err := themeAPI.SetTheme(themeName); err != nil {
			themeList := strings.Join(themeAPI.ListThemes(), ", ")
			return fmt.Errorf("theme '%s' not found. Available: %s", themeName, themeList)
		}
		themeAPI.SetStatusMessage("Theme set to: %s", themeName)
		return nil
	}

	themeListCmdFunc := func([]string) error {
		themeAPI.SetStatusMessage("Available themes: %s", strings.Join(themeAPI.ListThemes(), ", "))
		return nil
	}

	register(api, "theme", themeCmdFunc)
	register(api, "themes", themeListCmdFunc)
}
