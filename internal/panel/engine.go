// ABOUTME: Channel sync engine: polling, optimistic mutations, and gated rendering
// ABOUTME: Reconciles the local cache with /api/status under the bubbletea Update loop

package panel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389/xlr-panel/internal/api"
	"github.com/2389/xlr-panel/internal/channel"
)

// DefaultInterval is the poll period.
const DefaultInterval = 2 * time.Second

// API is the subset of the appliance client the engine needs.
type API interface {
	Status(ctx context.Context) (*api.Status, error)
	Toggle(ctx context.Context, id int) error
	SetAll(ctx context.Context, action channel.Action) error
	Update(ctx context.Context, id int, name, color string) error
}

// Surface is the dashboard the engine draws into.
type Surface interface {
	RenderCards(cards []Card)
	SetWire(id int, w Wire)
	SetConnection(online bool)
	ShowDemoNotice()
	SetEditMarker(editing bool)
	SetPalette(swatches []Swatch)
	OpenModal(name string)
	CloseModal()
	// ModalName returns the current contents of the modal's name field.
	ModalName() string
}

// Recorder receives authoritative channel changes.
type Recorder interface {
	Record(ctx context.Context, prev, next channel.List) error
}

// Options configures an Engine. Zero values take defaults.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Palette  []string
	Recorder Recorder
	Logger   *slog.Logger
}

// StatusMsg carries the result of one status fetch.
type StatusMsg struct {
	Status *api.Status
	Err    error

	seq    uint64
	engine *Engine
}

// UnauthenticatedMsg is emitted when the appliance answers 401. The caller
// discards the engine and returns to the login screen.
type UnauthenticatedMsg struct{}

type tickMsg struct {
	engine *Engine
}

type mutationMsg struct {
	op     string
	err    error
	engine *Engine
}

type savedMsg struct {
	err    error
	engine *Engine
}

// Engine is the client-side channel state and its sync logic.
type Engine struct {
	client   API
	surface  Surface
	recorder Recorder
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
	palette  []string

	channels channel.List
	editing  bool
	gate     renderGate
	online   bool
	booted   bool
	polling  bool

	// seq is the last sequence number issued, applied the newest one handled.
	seq     uint64
	applied uint64

	confirmed    channel.List
	hasConfirmed bool

	session  *editSession
	selected string
}

// NewEngine creates an engine. A nil surface keeps state without drawing.
func NewEngine(client API, surface Surface, opts Options) *Engine {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if len(opts.Palette) == 0 {
		opts.Palette = channel.Palette
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Engine{
		client:   client,
		surface:  surface,
		recorder: opts.Recorder,
		logger:   opts.Logger.With("component", "panel"),
		interval: opts.Interval,
		timeout:  opts.Timeout,
		palette:  append([]string(nil), opts.Palette...),
	}
}

// Channels returns a copy of the cached channel list.
func (e *Engine) Channels() channel.List { return e.channels.Clone() }

// Editing reports whether edit mode is on.
func (e *Engine) Editing() bool { return e.editing }

// Online reports the last known connection state.
func (e *Engine) Online() bool { return e.online }

// Bootstrap performs the first status fetch. The first successful response
// shows the demo notice when no hardware is attached, builds the palette and
// starts the poll ticker. A failed bootstrap still starts the ticker.
func (e *Engine) Bootstrap() tea.Cmd {
	e.logger.Debug("bootstrapping dashboard")
	return e.fetchStatus()
}

// Poll performs one status fetch.
func (e *Engine) Poll() tea.Cmd {
	return e.fetchStatus()
}

func (e *Engine) fetchStatus() tea.Cmd {
	e.seq++
	seq := e.seq
	client := e.client
	timeout := e.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		st, err := client.Status(ctx)
		return StatusMsg{Status: st, Err: err, seq: seq, engine: e}
	}
}

// Update handles messages produced by this engine's commands.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case StatusMsg:
		if msg.engine != e {
			return nil
		}
		return e.handleStatus(msg)

	case tickMsg:
		if msg.engine != e {
			return nil
		}
		return tea.Batch(e.Poll(), e.scheduleTick())

	case mutationMsg:
		if msg.engine != e {
			return nil
		}
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			return unauthenticated
		}
		if msg.err != nil {
			e.logger.Warn("channel request failed", "op", msg.op, "error", msg.err)
		}
		return e.Poll()

	case savedMsg:
		if msg.engine != e {
			return nil
		}
		return e.handleSaved(msg)
	}
	return nil
}

func (e *Engine) handleStatus(msg StatusMsg) tea.Cmd {
	if msg.seq < e.applied {
		e.logger.Debug("dropping stale status response", "seq", msg.seq, "applied", e.applied)
		return nil
	}
	e.applied = msg.seq

	if errors.Is(msg.Err, api.ErrUnauthenticated) {
		e.logger.Info("session expired, returning to login")
		return unauthenticated
	}

	var cmds []tea.Cmd
	if msg.Err != nil {
		e.logger.Warn("status poll failed", "error", msg.Err)
		e.setConnection(false)
		if !e.polling {
			cmds = append(cmds, e.scheduleTick())
		}
		return tea.Batch(cmds...)
	}

	first := !e.booted
	if first {
		e.booted = true
		if !msg.Status.Hardware && e.surface != nil {
			e.surface.ShowDemoNotice()
		}
	}

	e.Render(msg.Status.Channels)
	e.setConnection(true)

	if first {
		e.publishPalette()
	}
	if !e.polling {
		cmds = append(cmds, e.scheduleTick())
	}
	if cmd := e.record(msg.Status.Channels); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (e *Engine) scheduleTick() tea.Cmd {
	e.polling = true
	return tea.Tick(e.interval, func(time.Time) tea.Msg {
		return tickMsg{engine: e}
	})
}

func (e *Engine) setConnection(online bool) {
	e.online = online
	if e.surface != nil {
		e.surface.SetConnection(online)
	}
}

// record hands an authoritative change to the recorder. The first snapshot
// only sets the baseline.
func (e *Engine) record(next channel.List) tea.Cmd {
	if e.recorder == nil {
		return nil
	}
	if !e.hasConfirmed {
		e.confirmed = next.Clone()
		e.hasConfirmed = true
		return nil
	}
	if e.confirmed.Equal(next) {
		return nil
	}

	prev := e.confirmed
	e.confirmed = next.Clone()
	cur := e.confirmed
	rec := e.recorder
	timeout := e.timeout
	logger := e.logger

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := rec.Record(ctx, prev, cur); err != nil {
			logger.Warn("recording channel changes failed", "error", err)
		}
		return nil
	}
}

// Render draws chs unless both the list and the edit mode match the last
// render. The cache and the render baseline are replaced together.
func (e *Engine) Render(chs channel.List) {
	if !e.gate.changed(chs, e.editing) {
		return
	}

	e.channels = chs.Clone()
	e.gate.store(e.channels, e.editing)

	if e.surface == nil {
		return
	}
	for _, c := range e.channels {
		e.surface.SetWire(c.ID, WireFor(c))
	}
	e.surface.RenderCards(BuildCards(e.channels, e.editing))
}

// Activate runs the intent bound to card when it was rendered.
func (e *Engine) Activate(card Card) tea.Cmd {
	if card.Intent == IntentEdit {
		e.OpenModal(card.ID, card.Name, card.Color)
		return nil
	}
	return e.Toggle(card.ID)
}

// Toggle flips channel id locally, then asks the appliance to do the same
// and polls. The local flip is skipped when id is unknown; the request is not.
func (e *Engine) Toggle(id int) tea.Cmd {
	if e.editing {
		return nil
	}

	next := e.channels.Clone()
	if i := next.Index(id); i >= 0 {
		next[i].Active = !next[i].Active
		e.Render(next)
	}

	client := e.client
	return e.mutate("toggle", func(ctx context.Context) error {
		return client.Toggle(ctx, id)
	})
}

// AllChannels mutes or unmutes every channel, optimistically first.
func (e *Engine) AllChannels(action channel.Action) tea.Cmd {
	if e.editing {
		return nil
	}

	next := e.channels.Clone()
	for i := range next {
		next[i].Active = action.Active()
	}
	e.Render(next)

	client := e.client
	return e.mutate(string(action), func(ctx context.Context) error {
		return client.SetAll(ctx, action)
	})
}

func (e *Engine) mutate(op string, fn func(ctx context.Context) error) tea.Cmd {
	timeout := e.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return mutationMsg{op: op, err: fn(ctx), engine: e}
	}
}

// ToggleEditMode flips edit mode and redraws.
func (e *Engine) ToggleEditMode() {
	e.editing = !e.editing
	if e.surface != nil {
		e.surface.SetEditMarker(e.editing)
	}
	e.Render(e.channels)
}

func unauthenticated() tea.Msg {
	return UnauthenticatedMsg{}
}
