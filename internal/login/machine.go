// ABOUTME: PIN pad state machine accumulating four digits and auto-submitting
// ABOUTME: Drives the progress dots and reacts to accept, reject, and transport failure

package login

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// PINLength is the number of digits in a PIN.
const PINLength = 4

// DefaultFlash is how long the dots stay in the error state after a rejection.
const DefaultFlash = 400 * time.Millisecond

// Keypad is the login surface: four progress dots.
type Keypad interface {
	// ShowProgress fills the first filled dots and empties the rest.
	ShowProgress(filled int)
	// ShowError switches every dot into or out of the error state.
	ShowError(on bool)
}

// Authenticator submits a PIN to the appliance.
type Authenticator interface {
	Login(ctx context.Context, pin string) (bool, error)
}

// ResultMsg carries the outcome of a PIN submission.
type ResultMsg struct {
	Success bool
	Err     error

	machine *Machine
}

// AuthenticatedMsg is emitted after a successful login.
type AuthenticatedMsg struct{}

type flashDoneMsg struct {
	machine *Machine
}

// Machine is the PIN buffer plus its submission lifecycle.
type Machine struct {
	keypad  Keypad
	auth    Authenticator
	flash   time.Duration
	timeout time.Duration
	logger  *slog.Logger

	pin string
}

// NewMachine creates a machine. A nil keypad disables it.
func NewMachine(keypad Keypad, auth Authenticator, flash, timeout time.Duration, logger *slog.Logger) *Machine {
	if flash <= 0 {
		flash = DefaultFlash
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		keypad:  keypad,
		auth:    auth,
		flash:   flash,
		timeout: timeout,
		logger:  logger.With("component", "login"),
	}
}

// PIN returns the digits entered so far.
func (m *Machine) PIN() string {
	return m.pin
}

// EnterDigit appends d. It returns the submit command when the buffer
// reaches PINLength, nil otherwise.
func (m *Machine) EnterDigit(d rune) tea.Cmd {
	if m.keypad == nil || d < '0' || d > '9' {
		return nil
	}
	if len(m.pin) >= PINLength {
		return nil
	}

	m.pin += string(d)
	m.keypad.ShowProgress(len(m.pin))

	if len(m.pin) == PINLength {
		return m.Submit()
	}
	return nil
}

// Clear empties the buffer.
func (m *Machine) Clear() {
	if m.keypad == nil {
		return
	}
	m.pin = ""
	m.keypad.ShowProgress(0)
}

// Submit sends the buffered PIN. It returns nil unless the buffer is full.
func (m *Machine) Submit() tea.Cmd {
	if m.keypad == nil || len(m.pin) != PINLength {
		return nil
	}

	pin := m.pin
	auth := m.auth
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ok, err := auth.Login(ctx, pin)
		return ResultMsg{Success: ok, Err: err, machine: m}
	}
}

// Update handles messages produced by this machine's commands. Messages from
// other machines are ignored.
func (m *Machine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ResultMsg:
		if msg.machine != m {
			return nil
		}
		return m.handleResult(msg)

	case flashDoneMsg:
		if msg.machine != m || m.keypad == nil {
			return nil
		}
		m.keypad.ShowError(false)
		m.Clear()
	}
	return nil
}

func (m *Machine) handleResult(msg ResultMsg) tea.Cmd {
	switch {
	case msg.Err != nil:
		m.logger.Warn("login request failed", "error", msg.Err)
		m.Clear()
		return nil

	case msg.Success:
		m.logger.Info("login accepted")
		return func() tea.Msg { return AuthenticatedMsg{} }

	default:
		m.logger.Info("login rejected")
		if m.keypad == nil {
			return nil
		}
		m.keypad.ShowError(true)
		return tea.Tick(m.flash, func(time.Time) tea.Msg {
			return flashDoneMsg{machine: m}
		})
	}
}
