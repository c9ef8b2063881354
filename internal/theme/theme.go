// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/prose/internal/logger"
)

// Theme maps style names to terminal styles. Names are either UI elements
// ("Selection", "StatusBar") or document elements ("Heading", "Link",
// "Highlight.animated"); a dotted name falls back to its base.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part before the
// first dot and then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// --- Built-in themes ---

var (
	PaperDark  Theme
	PaperLight Theme
)

func init() {
	// Paper Dark
	pdBackground := tcell.NewHexColor(0x2a2f38)
	pdForeground := tcell.NewHexColor(0xc5cdd9)
	pdMuted := tcell.NewHexColor(0x5c6370)
	pdYellow := tcell.NewHexColor(0xe5c07b)
	pdGreen := tcell.NewHexColor(0x98c379)
	pdCyan := tcell.NewHexColor(0x56b6c2)
	pdBlue := tcell.NewHexColor(0x61afef)
	pdMagenta := tcell.NewHexColor(0xc678dd)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(pdForeground)

	PaperDark = Theme{
		Name:   "Paper Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":         base,
			"Selection":       base.Reverse(true),
			"SearchHighlight": tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack),

			"StatusBar":         tcell.StyleDefault.Background(pdBackground).Foreground(pdForeground),
			"StatusBarModified": tcell.StyleDefault.Background(pdBackground).Foreground(pdYellow),
			"StatusBarMessage":  tcell.StyleDefault.Background(pdBackground).Foreground(pdForeground).Bold(true),
			"StatusBarFind":     tcell.StyleDefault.Background(pdBackground).Foreground(pdGreen).Bold(true),

			// Blocks
			"Heading":    base.Foreground(pdBlue).Bold(true),
			"Quote":      base.Foreground(pdMuted).Italic(true),
			"InfoBox":    base.Foreground(pdCyan),
			"ListBullet": base.Foreground(pdYellow),
			"Separator":  base.Foreground(pdMuted),
			"Media":      base.Foreground(pdMagenta),
			"Marker":     base.Foreground(pdMuted),

			// Inline marks; applied on top of the block style
			"Link":               base.Foreground(pdBlue).Underline(true),
			"Highlight":          tcell.StyleDefault.Background(pdYellow).Foreground(tcell.ColorBlack),
			"Highlight.animated": tcell.StyleDefault.Background(pdGreen).Foreground(tcell.ColorBlack),
		},
	}

	// Paper Light
	plForeground := tcell.NewHexColor(0x383a42)
	plMuted := tcell.NewHexColor(0xa0a1a7)
	plBlue := tcell.NewHexColor(0x4078f2)
	plCyan := tcell.NewHexColor(0x0184bc)
	plMagenta := tcell.NewHexColor(0xa626a4)
	plBar := tcell.NewHexColor(0xe5e5e6)

	lbase := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(plForeground)

	PaperLight = Theme{
		Name:   "Paper Light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			"Default":         lbase,
			"Selection":       lbase.Reverse(true),
			"SearchHighlight": tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),

			"StatusBar":         tcell.StyleDefault.Background(plBar).Foreground(plForeground),
			"StatusBarModified": tcell.StyleDefault.Background(plBar).Foreground(plMagenta),
			"StatusBarMessage":  tcell.StyleDefault.Background(plBar).Foreground(plForeground).Bold(true),
			"StatusBarFind":     tcell.StyleDefault.Background(plBar).Foreground(plBlue).Bold(true),

			"Heading":    lbase.Foreground(plBlue).Bold(true),
			"Quote":      lbase.Foreground(plMuted).Italic(true),
			"InfoBox":    lbase.Foreground(plCyan),
			"ListBullet": lbase.Foreground(plMagenta),
			"Separator":  lbase.Foreground(plMuted),
			"Media":      lbase.Foreground(plMagenta),
			"Marker":     lbase.Foreground(plMuted),

			"Link":               lbase.Foreground(plBlue).Underline(true),
			"Highlight":          tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),
			"Highlight.animated": tcell.StyleDefault.Background(tcell.ColorLightGreen).Foreground(tcell.ColorBlack),
		},
	}
}
