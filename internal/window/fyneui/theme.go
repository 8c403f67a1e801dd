package fyneui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// appTheme forces a theme variant and overrides the default text size
type appTheme struct {
	variant  fyne.ThemeVariant
	forced   bool
	textSize float32
}

func newAppTheme(name string, textSize float32) *appTheme {
	t := &appTheme{textSize: textSize}
	switch name {
	case "dark":
		t.variant, t.forced = theme.VariantDark, true
	case "light":
		t.variant, t.forced = theme.VariantLight, true
	}
	return t
}

func (t *appTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *appTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *appTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *appTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText && t.textSize > 0 {
		return t.textSize
	}
	return theme.DefaultTheme().Size(name)
}
