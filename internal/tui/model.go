// ABOUTME: bubbletea model switching between the PIN pad and the channel dashboard
// ABOUTME: Routes keys to the login machine, the panel engine, or the edit modal

package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389/xlr-panel/internal/channel"
	"github.com/2389/xlr-panel/internal/login"
	"github.com/2389/xlr-panel/internal/panel"
)

// Client is the appliance API used by both screens.
type Client interface {
	panel.API
	login.Authenticator
}

// Options configures the model.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Flash    time.Duration
	Palette  []string
	Recorder panel.Recorder
	Logger   *slog.Logger
	// OnLogin runs after the appliance accepted a PIN, before the dashboard boots.
	OnLogin func() error
}

type screen int

const (
	screenDashboard screen = iota
	screenLogin
)

// Model is the root bubbletea model.
type Model struct {
	client Client
	opts   Options
	logger *slog.Logger

	screen  screen
	view    *surface
	machine *login.Machine
	engine  *panel.Engine
	cursor  int

	width  int
	height int
}

// New creates a model that starts on the dashboard. A 401 during bootstrap
// moves it to the PIN pad.
func New(client Client, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := &Model{
		client: client,
		opts:   opts,
		logger: opts.Logger.With("component", "tui"),
	}
	m.newDashboard()
	return m
}

// Init boots the dashboard.
func (m *Model) Init() tea.Cmd {
	return m.engine.Bootstrap()
}

func (m *Model) newDashboard() {
	m.screen = screenDashboard
	m.view = newSurface()
	m.machine = nil
	m.cursor = 0
	m.engine = panel.NewEngine(m.client, m.view, panel.Options{
		Interval: m.opts.Interval,
		Timeout:  m.opts.Timeout,
		Palette:  m.opts.Palette,
		Recorder: m.opts.Recorder,
		Logger:   m.opts.Logger,
	})
}

func (m *Model) newLogin() {
	m.screen = screenLogin
	m.view = newSurface()
	m.engine = nil
	m.machine = login.NewMachine(m.view, m.client, m.opts.Flash, m.opts.Timeout, m.opts.Logger)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenLogin {
			return m, m.loginKey(msg)
		}
		return m, m.dashboardKey(msg)

	case login.AuthenticatedMsg:
		if m.screen != screenLogin {
			return m, nil
		}
		if m.opts.OnLogin != nil {
			if err := m.opts.OnLogin(); err != nil {
				m.logger.Warn("post-login hook failed", "error", err)
			}
		}
		m.newDashboard()
		return m, m.engine.Bootstrap()

	case panel.UnauthenticatedMsg:
		if m.screen == screenLogin {
			return m, nil
		}
		m.logger.Info("showing login")
		m.newLogin()
		return m, nil
	}

	var cmds []tea.Cmd
	if m.machine != nil {
		cmds = append(cmds, m.machine.Update(msg))
	}
	if m.engine != nil {
		cmds = append(cmds, m.engine.Update(msg))
		if m.view.modalOpen {
			var cmd tea.Cmd
			m.view.nameInput, cmd = m.view.nameInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	m.clampCursor()
	return m, tea.Batch(cmds...)
}

func (m *Model) loginKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9':
		return m.machine.EnterDigit(msg.Runes[0])
	case key.Matches(msg, keys.Clear):
		m.machine.Clear()
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Close):
		return tea.Quit
	}
	return nil
}

func (m *Model) dashboardKey(msg tea.KeyMsg) tea.Cmd {
	if m.view.modalOpen {
		return m.modalKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, keys.Activate):
		if m.cursor < len(m.view.cards) {
			return m.engine.Activate(m.view.cards[m.cursor])
		}
	case key.Matches(msg, keys.MuteAll):
		return m.engine.AllChannels(channel.Mute)
	case key.Matches(msg, keys.Unmute):
		return m.engine.AllChannels(channel.Unmute)
	case key.Matches(msg, keys.Edit):
		m.engine.ToggleEditMode()
	case key.Matches(msg, keys.Refresh):
		return m.engine.Poll()
	}
	return nil
}

func (m *Model) modalKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Close):
		m.engine.CloseModal()
		return nil
	case key.Matches(msg, keys.Save):
		return m.engine.Save()
	case key.Matches(msg, keys.NextSwatch):
		m.cycleSwatch(1)
		return nil
	case key.Matches(msg, keys.PrevSwatch):
		m.cycleSwatch(-1)
		return nil
	}

	var cmd tea.Cmd
	m.view.nameInput, cmd = m.view.nameInput.Update(msg)
	return cmd
}

func (m *Model) cycleSwatch(step int) {
	n := len(m.view.swatches)
	if n == 0 {
		return
	}
	i := m.view.selectedSwatch()
	if i < 0 {
		i = 0
	} else {
		i = ((i+step)%n + n) % n
	}
	m.engine.SelectSwatch(m.view.swatches[i].Color)
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.view.cards) {
		m.cursor = len(m.view.cards) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
