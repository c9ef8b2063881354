// internal/theme/loader.go
package theme

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/prose/internal/logger"
)

// StyleDef is one style in a theme file. Unset fields inherit.
type StyleDef struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
	Blink     *bool   `toml:"blink"`
	Dim       *bool   `toml:"dim"`
}

// File is the layout of a theme file:
//
//	name = "Sepia"
//	extends = "Paper Light"
//
//	[ui.Default]
//	fg = "#5b4636"
//
//	[blocks.Heading]
//	bold = true
//
//	[marks."Highlight.animated"]
//	bg = "olive"
//
// The three tables only group names; they share one namespace.
type File struct {
	Name    string              `toml:"name"`
	IsDark  *bool               `toml:"is_dark"`
	Extends string              `toml:"extends"`
	UI      map[string]StyleDef `toml:"ui"`
	Blocks  map[string]StyleDef `toml:"blocks"`
	Marks   map[string]StyleDef `toml:"marks"`
}

func (f *File) styles() map[string]StyleDef {
	all := make(map[string]StyleDef, len(f.UI)+len(f.Blocks)+len(f.Marks))
	for _, group := range []map[string]StyleDef{f.UI, f.Blocks, f.Marks} {
		maps.Copy(all, group)
	}
	return all
}

// LoadThemeFromFile reads a theme file. lookup resolves the theme named by
// "extends"; it may be nil when no file extends another.
func LoadThemeFromFile(filePath string, lookup func(name string) (*Theme, bool)) (*Theme, error) {
	var file File
	metadata, err := toml.DecodeFile(filePath, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse theme file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme file '%s': unrecognized keys: %v", filePath, undecoded)
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	theme := &Theme{Name: file.Name, Styles: make(map[string]tcell.Style)}
	if file.Extends != "" {
		var parent *Theme
		var ok bool
		if lookup != nil {
			parent, ok = lookup(file.Extends)
		}
		if !ok {
			return nil, fmt.Errorf("theme '%s' extends unknown theme '%s'", file.Name, file.Extends)
		}
		theme.IsDark = parent.IsDark
		maps.Copy(theme.Styles, parent.Styles)
	}
	if file.IsDark != nil {
		theme.IsDark = *file.IsDark
	}

	defs := file.styles()
	base := tcell.StyleDefault
	if inherited, ok := theme.Styles["Default"]; ok {
		base = inherited
	}
	if def, ok := defs["Default"]; ok {
		if base, err = def.apply(base); err != nil {
			return nil, fmt.Errorf("theme '%s': style 'Default': %w", file.Name, err)
		}
	}
	theme.Styles["Default"] = base

	for name, def := range defs {
		if name == "Default" {
			continue
		}
		style, err := def.apply(base)
		if err != nil {
			logger.Warnf("Theme '%s': skipping style '%s': %v", file.Name, name, err)
			continue
		}
		theme.Styles[name] = style
	}

	logger.Debugf("Loaded theme '%s' from '%s' (%d styles)", theme.Name, filePath, len(theme.Styles))
	return theme, nil
}

// apply layers d over base.
func (d StyleDef) apply(base tcell.Style) (tcell.Style, error) {
	style := base
	if d.Fg != nil {
		color, err := parseColor(*d.Fg)
		if err != nil {
			return base, fmt.Errorf("fg: %w", err)
		}
		style = style.Foreground(color)
	}
	if d.Bg != nil {
		color, err := parseColor(*d.Bg)
		if err != nil {
			return base, fmt.Errorf("bg: %w", err)
		}
		style = style.Background(color)
	}

	attrs := []struct {
		set *bool
		fn  func(tcell.Style, bool) tcell.Style
	}{
		{d.Bold, tcell.Style.Bold},
		{d.Italic, tcell.Style.Italic},
		{d.Underline, func(s tcell.Style, on bool) tcell.Style { return s.Underline(on) }},
		{d.Reverse, tcell.Style.Reverse},
		{d.Blink, tcell.Style.Blink},
		{d.Dim, tcell.Style.Dim},
	}
	for _, a := range attrs {
		if a.set != nil {
			style = a.fn(style, *a.set)
		}
	}
	return style, nil
}

// parseColor accepts "#rrggbb", a W3C color name, "default" and "reset".
func parseColor(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if strings.HasPrefix(s, "#") && len(s) != 7 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s', must be #rrggbb", s)
	}
	if color := tcell.GetColor(s); color != tcell.ColorDefault {
		return color, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color '%s'", s)
}
