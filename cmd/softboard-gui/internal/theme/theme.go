package theme

import (
	"image/color"
	"runtime"

	"gioui.org/unit"
	"gioui.org/widget/material"
)

// Palette defines the keyboard colors.
type Palette struct {
	Background color.NRGBA
	Surface    color.NRGBA
	Key        color.NRGBA
	KeySpecial color.NRGBA
	KeyPressed color.NRGBA
	Accent     color.NRGBA
	Text       color.NRGBA
	TextMuted  color.NRGBA
	Border     color.NRGBA
}

// Config defines the keyboard metrics.
type Config struct {
	CornerRadius unit.Dp
	Spacing      unit.Dp
	Padding      unit.Dp
	FontKey      unit.Sp
	FontPreedit  unit.Sp
	FontCaption  unit.Sp
}

// Theme wraps the material theme with system-specific styling.
type Theme struct {
	*material.Theme
	Palette Palette
	Config  Config
}

// NewTheme creates a new theme based on the current OS.
func NewTheme(mtheme *material.Theme) *Theme {
	t := &Theme{
		Theme: mtheme,
	}

	if runtime.GOOS == "darwin" {
		setupMacOSTheme(t)
	} else {
		setupDefaultTheme(t)
	}

	return t
}

func setupDefaultTheme(t *Theme) {
	// Dark keyboard palette, close to the stock GNOME on-screen keyboard
	t.Palette = Palette{
		Background: color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF},
		Surface:    color.NRGBA{R: 0x2C, G: 0x2C, B: 0x2C, A: 0xFF},
		Key:        color.NRGBA{R: 0x48, G: 0x48, B: 0x4A, A: 0xFF},
		KeySpecial: color.NRGBA{R: 0x34, G: 0x34, B: 0x36, A: 0xFF},
		KeyPressed: color.NRGBA{R: 0x6E, G: 0x6E, B: 0x72, A: 0xFF},
		Accent:     color.NRGBA{R: 0x00, G: 0x78, B: 0xD4, A: 0xFF},
		Text:       color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		TextMuted:  color.NRGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF},
		Border:     color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF},
	}

	t.Config = Config{
		CornerRadius: unit.Dp(5),
		Spacing:      unit.Dp(8),
		Padding:      unit.Dp(12),
		FontKey:      unit.Sp(18),
		FontPreedit:  unit.Sp(16),
		FontCaption:  unit.Sp(12),
	}
}

func setupMacOSTheme(t *Theme) {
	// macOS dark keyboard palette
	t.Palette = Palette{
		Background: color.NRGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xFF},
		Surface:    color.NRGBA{R: 0x32, G: 0x32, B: 0x32, A: 0xFF},
		Key:        color.NRGBA{R: 0x5A, G: 0x5A, B: 0x5E, A: 0xFF},
		KeySpecial: color.NRGBA{R: 0x3A, G: 0x3A, B: 0x3C, A: 0xFF},
		KeyPressed: color.NRGBA{R: 0x7E, G: 0x7E, B: 0x84, A: 0xFF},
		Accent:     color.NRGBA{R: 0x0A, G: 0x84, B: 0xFF, A: 0xFF},
		Text:       color.NRGBA{R: 0xF5, G: 0xF5, B: 0xF7, A: 0xFF},
		TextMuted:  color.NRGBA{R: 0x86, G: 0x86, B: 0x8B, A: 0xFF},
		Border:     color.NRGBA{R: 0x3A, G: 0x3A, B: 0x3C, A: 0xFF},
	}

	t.Config = Config{
		CornerRadius: unit.Dp(8),
		Spacing:      unit.Dp(10),
		Padding:      unit.Dp(14),
		FontKey:      unit.Sp(17),
		FontPreedit:  unit.Sp(15),
		FontCaption:  unit.Sp(11),
	}
}
