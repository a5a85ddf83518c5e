// Copyright © 2024 The spreadlint authors

package diagnostic

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode maps a --color flag value to a ColorMode. Unknown values
// select ColorAuto.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// palette holds the styles for diagnostic output.
type palette struct {
	bold     *color.Color
	errSev   *color.Color
	warnSev  *color.Color
	noteSev  *color.Color
	gutter   *color.Color
	location *color.Color
	caret    *color.Color
}

func newPalette(enabled bool) palette {
	style := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		bold:     style(color.Bold),
		errSev:   style(color.FgRed, color.Bold),
		warnSev:  style(color.FgHiYellow, color.Bold),
		noteSev:  style(color.FgCyan, color.Bold),
		gutter:   style(color.FgHiBlue, color.Bold),
		location: style(color.FgCyan),
		caret:    style(color.FgRed, color.Bold),
	}
}

// choosePalette selects the palette for mode and the output file.
// Writers that are not files never get colors in ColorAuto mode.
func choosePalette(mode ColorMode, w *os.File) palette {
	switch mode {
	case ColorAlways:
		return newPalette(true)
	case ColorNever:
		return newPalette(false)
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return newPalette(false)
		}
		return newPalette(isTerminal(w))
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
