// ABOUTME: Screen state written by the login machine and the panel engine
// ABOUTME: Implements login.Keypad and panel.Surface; View reads it back

package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/2389/xlr-panel/internal/login"
	"github.com/2389/xlr-panel/internal/panel"
)

var (
	_ login.Keypad  = (*surface)(nil)
	_ panel.Surface = (*surface)(nil)
)

type surface struct {
	// PIN pad
	filled   int
	pinError bool

	// dashboard
	cards    []panel.Card
	wires    map[int]panel.Wire
	online   bool
	demo     bool
	editing  bool
	swatches []panel.Swatch

	modalOpen bool
	nameInput textinput.Model
}

func newSurface() *surface {
	ti := textinput.New()
	ti.Placeholder = "Channel name"
	ti.CharLimit = 32
	ti.Width = 24

	return &surface{
		wires:     make(map[int]panel.Wire),
		online:    true,
		nameInput: ti,
	}
}

func (s *surface) ShowProgress(filled int) { s.filled = filled }

func (s *surface) ShowError(on bool) { s.pinError = on }

func (s *surface) RenderCards(cards []panel.Card) { s.cards = cards }

func (s *surface) SetWire(id int, w panel.Wire) { s.wires[id] = w }

func (s *surface) SetConnection(online bool) { s.online = online }

func (s *surface) ShowDemoNotice() { s.demo = true }

func (s *surface) SetEditMarker(editing bool) { s.editing = editing }

func (s *surface) SetPalette(swatches []panel.Swatch) { s.swatches = swatches }

func (s *surface) OpenModal(name string) {
	s.modalOpen = true
	s.nameInput.SetValue(name)
	s.nameInput.CursorEnd()
	s.nameInput.Focus()
}

func (s *surface) CloseModal() {
	s.modalOpen = false
	s.nameInput.Blur()
}

func (s *surface) ModalName() string { return s.nameInput.Value() }

// selectedSwatch returns the index of the selected swatch, or -1.
func (s *surface) selectedSwatch() int {
	for i, sw := range s.swatches {
		if sw.Selected {
			return i
		}
	}
	return -1
}
