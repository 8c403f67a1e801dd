package fyneui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestAppTheme(t *testing.T) {
	tests := []struct {
		name     string
		theme    string
		textSize float32
	}{
		{name: "dark forced", theme: "dark", textSize: 16},
		{name: "light forced", theme: "light", textSize: 12},
		{name: "system follows variant", theme: "system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newAppTheme(tt.theme, tt.textSize)
			def := theme.DefaultTheme()

			if tt.textSize > 0 {
				assert.Equal(t, tt.textSize, th.Size(theme.SizeNameText))
			} else {
				assert.Equal(t, def.Size(theme.SizeNameText), th.Size(theme.SizeNameText))
			}
			assert.Equal(t, def.Size(theme.SizeNamePadding), th.Size(theme.SizeNamePadding))

			got := th.Color(theme.ColorNameBackground, theme.VariantLight)
			switch tt.theme {
			case "dark":
				assert.Equal(t, def.Color(theme.ColorNameBackground, theme.VariantDark), got)
			default:
				assert.Equal(t, def.Color(theme.ColorNameBackground, theme.VariantLight), got)
			}
		})
	}
}
