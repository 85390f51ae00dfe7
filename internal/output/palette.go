package output

import "github.com/fatih/color"

// Theme names accepted by Config.Theme. Unknown names fall back to dark.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeNone  = "none"
)

// palette holds the colours for one theme.
type palette struct {
	heading *color.Color
	label   *color.Color
	value   *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
	dim     *color.Color
}

// newPalette builds the colours for theme. Colour is only used on a
// terminal and never for the "none" theme.
func newPalette(theme string, tty bool) palette {
	var p palette
	switch theme {
	case ThemeLight:
		p = palette{
			heading: color.New(color.FgBlue, color.Bold),
			label:   color.New(color.FgBlue),
			value:   color.New(color.FgBlack),
			success: color.New(color.FgGreen, color.Bold),
			warning: color.New(color.FgMagenta),
			failure: color.New(color.FgRed, color.Bold),
			dim:     color.New(color.FgHiBlack),
		}
	default:
		p = palette{
			heading: color.New(color.FgCyan, color.Bold),
			label:   color.New(color.FgCyan),
			value:   color.New(color.FgGreen),
			success: color.New(color.FgGreen, color.Bold),
			warning: color.New(color.FgYellow),
			failure: color.New(color.FgRed),
			dim:     color.New(color.Faint),
		}
	}

	enable := tty && theme != ThemeNone
	for _, c := range []*color.Color{p.heading, p.label, p.value, p.success, p.warning, p.failure, p.dim} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
