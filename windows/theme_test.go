package windows

import (
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestGridTheme(t *testing.T) {
	var th GridTheme
	assert.Equal(t, lightPalette[theme.ColorNameSelection], th.Color(theme.ColorNameSelection, theme.VariantLight))
	assert.Equal(t, darkPalette[theme.ColorNameSelection], th.Color(theme.ColorNameSelection, theme.VariantDark))
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameError, theme.VariantLight),
		th.Color(theme.ColorNameError, theme.VariantLight))

	assert.Equal(t, float32(12), th.Size(theme.SizeNameScrollBar))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameText), th.Size(theme.SizeNameText))
}
