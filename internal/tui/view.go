// ABOUTME: Rendering for the PIN pad, channel cards, patch-bay wires, and edit modal
// ABOUTME: Reads only surface state so the same frame is drawn for the same state

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389/xlr-panel/internal/login"
	"github.com/2389/xlr-panel/internal/panel"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.screen == screenLogin {
		return m.loginView()
	}
	return m.dashboardView()
}

func (m *Model) loginView() string {
	dot := lipgloss.NewStyle().Foreground(colorPrimary)
	if m.view.pinError {
		dot = dot.Foreground(colorError)
	}

	dots := make([]string, login.PINLength)
	for i := range dots {
		switch {
		case m.view.pinError:
			dots[i] = dot.Render("●")
		case i < m.view.filled:
			dots[i] = dot.Render("●")
		default:
			dots[i] = styleSubtle.Render("○")
		}
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("XLR PANEL"))
	b.WriteString("\n\n")
	b.WriteString(styleSubtle.Render("Enter PIN"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(dots, " "))
	b.WriteString("\n\n")
	b.WriteString(renderHelp([]key.Binding{keys.Clear, keys.Quit}))
	return b.String()
}

func (m *Model) dashboardView() string {
	var b strings.Builder

	header := []string{styleTitle.Render("XLR PANEL")}
	if m.view.online {
		header = append(header, lipgloss.NewStyle().Foreground(colorOnline).Render("● online"))
	} else {
		header = append(header, lipgloss.NewStyle().Foreground(colorError).Render("● offline"))
	}
	if m.view.editing {
		header = append(header, styleEditMarker.Render("EDIT"))
	}
	b.WriteString(strings.Join(header, "  "))
	b.WriteString("\n")
	if m.view.demo {
		b.WriteString(styleDemo.Render("Demo mode: no mixer hardware detected"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.view.cards) == 0 {
		b.WriteString(styleSubtle.Render("No channels"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.cardsView())
		b.WriteString("\n")
		b.WriteString(m.wiresView())
		b.WriteString("\n")
	}

	if m.view.modalOpen {
		b.WriteString("\n")
		b.WriteString(m.modalView())
		b.WriteString("\n")
		b.WriteString(renderHelp(keys.modalHelp()))
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(renderHelp(keys.dashboardHelp()))
	return b.String()
}

func (m *Model) cardsView() string {
	boxes := make([]string, 0, len(m.view.cards))
	for i, c := range m.view.cards {
		style := styleCard.BorderForeground(lipgloss.Color(c.Border))
		if i == m.cursor {
			style = style.BorderStyle(lipgloss.ThickBorder())
		}
		name := lipgloss.NewStyle().Bold(c.Glow).Foreground(lipgloss.Color(c.Color)).Render(c.Name)
		label := lipgloss.NewStyle().Foreground(lipgloss.Color(c.LabelColor)).Render(c.Label)
		boxes = append(boxes, style.Render(name+"\n"+label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m *Model) wiresView() string {
	segs := make([]string, 0, len(m.view.cards))
	for _, c := range m.view.cards {
		w, ok := m.view.wires[c.ID]
		if !ok {
			w = panel.Wire{Color: panel.IdleColor}
		}
		glyph := "┄┄┄┄┄┄┄┄┄┄┄┄┄┄┄┄┄┄"
		if w.Active {
			glyph = "━━━━━━━━━━━━━━━━━━"
		}
		segs = append(segs, lipgloss.NewStyle().Foreground(lipgloss.Color(w.Color)).Render(glyph))
	}
	return strings.Join(segs, "")
}

func (m *Model) modalView() string {
	swatches := make([]string, 0, len(m.view.swatches))
	for _, sw := range m.view.swatches {
		glyph := "■"
		if sw.Outlined {
			glyph = "▣"
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(sw.Color))
		if sw.Outlined {
			style = style.Background(colorDim)
		}
		cell := style.Render(glyph)
		if sw.Selected {
			cell = "[" + cell + "]"
		} else {
			cell = " " + cell + " "
		}
		swatches = append(swatches, cell)
	}

	body := styleSubtle.Render("Name") + "\n" +
		m.view.nameInput.View() + "\n\n" +
		styleSubtle.Render("Color") + "\n" +
		strings.Join(swatches, "")
	return styleModal.Render(body)
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, styleHelpKey.Render(h.Key)+" "+styleHelp.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
