// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// GridTheme is the dgb look: material blue accents, a light gray canvas and
// tighter scroll bars.
type GridTheme struct{}

var _ fyne.Theme = GridTheme{}

type palette map[fyne.ThemeColorName]color.Color

var lightPalette = palette{
	theme.ColorNameBackground:          color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff},
	theme.ColorNameButton:              color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff},
	theme.ColorNamePrimary:             color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff},
	theme.ColorNameHover:               color.NRGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0xff},
	theme.ColorNameFocus:               color.NRGBA{R: 0x19, G: 0x76, B: 0xd2, A: 0xff},
	theme.ColorNameForeground:          color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff},
	theme.ColorNameInputBackground:     color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	theme.ColorNameSelection:           color.NRGBA{R: 0xbb, G: 0xde, B: 0xfb, A: 0xff},
	theme.ColorNameHeaderBackground:    color.NRGBA{R: 0xe3, G: 0xf2, B: 0xfd, A: 0xff},
	theme.ColorNameForegroundOnPrimary: color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
}

var darkPalette = palette{
	theme.ColorNameBackground:          color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
	theme.ColorNameButton:              color.NRGBA{R: 0x42, G: 0xa5, B: 0xf5, A: 0xff},
	theme.ColorNamePrimary:             color.NRGBA{R: 0x42, G: 0xa5, B: 0xf5, A: 0xff},
	theme.ColorNameHover:               color.NRGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0xff},
	theme.ColorNameFocus:               color.NRGBA{R: 0x90, G: 0xca, B: 0xf9, A: 0xff},
	theme.ColorNameForeground:          color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff},
	theme.ColorNameInputBackground:     color.NRGBA{R: 0x2d, G: 0x2d, B: 0x2d, A: 0xff},
	theme.ColorNameSelection:           color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
	theme.ColorNameHeaderBackground:    color.NRGBA{R: 0x26, G: 0x32, B: 0x38, A: 0xff},
	theme.ColorNameForegroundOnPrimary: color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
}

var sizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:            8,
	theme.SizeNameInlineIcon:         24,
	theme.SizeNameScrollBar:          12,
	theme.SizeNameSeparatorThickness: 1,
}

func (GridTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	p := darkPalette
	if variant == theme.VariantLight {
		p = lightPalette
	}
	if c, ok := p[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (GridTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (GridTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (GridTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := sizes[name]; ok {
		return s
	}
	return theme.DefaultTheme().Size(name)
}
