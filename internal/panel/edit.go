// ABOUTME: Edit coordinator: rename/recolor modal for a single channel
// ABOUTME: Holds the transient edit session and issues the update on save

package panel

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389/xlr-panel/internal/api"
)

// editSession exists only while the modal is open.
type editSession struct {
	id    int
	color string
}

// OpenModal starts editing channel id, pre-filling name and selecting color.
func (e *Engine) OpenModal(id int, name, color string) {
	e.session = &editSession{id: id, color: color}
	e.markSwatch(color)
	if e.surface != nil {
		e.surface.OpenModal(name)
	}
}

// CloseModal discards the edit session without saving.
func (e *Engine) CloseModal() {
	e.session = nil
	if e.surface != nil {
		e.surface.CloseModal()
	}
}

// EditTarget returns the channel id and color of the open edit session.
func (e *Engine) EditTarget() (id int, color string, ok bool) {
	if e.session == nil {
		return 0, "", false
	}
	return e.session.id, e.session.color, true
}

// SelectSwatch records color as the edit color and marks its swatch.
func (e *Engine) SelectSwatch(color string) {
	if e.session != nil {
		e.session.color = color
	}
	e.markSwatch(color)
}

// Save sends the new name and color. It does nothing while the name field is
// empty; the modal stays open. The modal closes once the appliance accepted
// the update, and a poll picks up the result.
func (e *Engine) Save() tea.Cmd {
	if e.session == nil || e.surface == nil {
		return nil
	}
	name := e.surface.ModalName()
	if name == "" {
		return nil
	}

	id, color := e.session.id, e.session.color
	client := e.client
	timeout := e.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return savedMsg{err: client.Update(ctx, id, name, color), engine: e}
	}
}

func (e *Engine) handleSaved(msg savedMsg) tea.Cmd {
	if errors.Is(msg.err, api.ErrUnauthenticated) {
		return unauthenticated
	}
	if msg.err != nil {
		e.logger.Warn("channel update failed", "error", msg.err)
		return nil
	}

	poll := e.Poll()
	e.CloseModal()
	return poll
}
