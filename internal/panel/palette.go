// ABOUTME: Color palette swatches for the edit modal
// ABOUTME: Exactly one swatch is selected at a time, matched by exact color value

package panel

// Swatch is one palette entry.
type Swatch struct {
	Color    string
	Selected bool
	// Outlined marks colors that need a border to be visible on the dark background.
	Outlined bool
}

// Palette returns the swatches in palette order with the current selection.
func (e *Engine) Palette() []Swatch {
	swatches := make([]Swatch, 0, len(e.palette))
	for _, c := range e.palette {
		swatches = append(swatches, Swatch{
			Color:    c,
			Selected: c == e.selected,
			Outlined: c == "#000000",
		})
	}
	return swatches
}

func (e *Engine) markSwatch(color string) {
	e.selected = color
	e.publishPalette()
}

func (e *Engine) publishPalette() {
	if e.surface == nil {
		return
	}
	e.surface.SetPalette(e.Palette())
}
