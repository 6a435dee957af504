package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ComposerTheme provides a custom theme for the application.
type ComposerTheme struct{}

var _ fyne.Theme = (*ComposerTheme)(nil)

func (t *ComposerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x1E, G: 0x5A, B: 0x96, A: 0xFF} // Print-preview blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xC8, B: 0x00, A: 0x80} // Matches canvas handles
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ComposerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ComposerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ComposerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for easier grabbing
	default:
		return theme.DefaultTheme().Size(name)
	}
}
