// ABOUTME: Tests for the channel sync engine
// ABOUTME: Covers the render gate, optimistic toggles, polling failures, and poll ordering

package panel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/xlr-panel/internal/api"
	"github.com/2389/xlr-panel/internal/channel"
)

type fakeAPI struct {
	mu        sync.Mutex
	status    *api.Status
	statusErr error
	mutErr    error
	calls     []string
	updates   []updateCall
}

type updateCall struct {
	id          int
	name, color string
}

func (f *fakeAPI) Status(context.Context) (*api.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "status")
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	st := *f.status
	st.Channels = f.status.Channels.Clone()
	return &st, nil
}

func (f *fakeAPI) Toggle(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "toggle")
	if i := f.status.Channels.Index(id); i >= 0 {
		f.status.Channels[i].Active = !f.status.Channels[i].Active
	}
	return f.mutErr
}

func (f *fakeAPI) SetAll(_ context.Context, action channel.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "all/"+string(action))
	return f.mutErr
}

func (f *fakeAPI) Update(_ context.Context, id int, name, color string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update")
	f.updates = append(f.updates, updateCall{id: id, name: name, color: color})
	return f.mutErr
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type fakeSurface struct {
	renders    int
	wireWrites int
	cards      []Card
	wires      map[int]Wire
	online     []bool
	demo       bool
	editMarker bool
	palette    []Swatch
	modalOpen  bool
	modalName  string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{wires: make(map[int]Wire)}
}

func (s *fakeSurface) RenderCards(cards []Card) { s.renders++; s.cards = cards }
func (s *fakeSurface) SetWire(id int, w Wire)   { s.wireWrites++; s.wires[id] = w }
func (s *fakeSurface) SetConnection(online bool) {
	s.online = append(s.online, online)
}
func (s *fakeSurface) ShowDemoNotice()              { s.demo = true }
func (s *fakeSurface) SetEditMarker(editing bool)   { s.editMarker = editing }
func (s *fakeSurface) SetPalette(swatches []Swatch) { s.palette = swatches }
func (s *fakeSurface) OpenModal(name string)        { s.modalOpen = true; s.modalName = name }
func (s *fakeSurface) CloseModal()                  { s.modalOpen = false }
func (s *fakeSurface) ModalName() string            { return s.modalName }

func (s *fakeSurface) mutations() int { return s.renders + s.wireWrites }

func (s *fakeSurface) lastOnline() bool {
	return len(s.online) > 0 && s.online[len(s.online)-1]
}

func threeChannels() channel.List {
	return channel.List{
		{ID: 0, Name: "Speaker", Color: "#3b82f6", Active: true},
		{ID: 1, Name: "Reader", Color: "#10b981", Active: false},
		{ID: 2, Name: "Left", Active: true},
	}
}

func newTestEngine(t *testing.T, chs channel.List) (*Engine, *fakeAPI, *fakeSurface) {
	t.Helper()
	fa := &fakeAPI{status: &api.Status{Hardware: true, Channels: chs}}
	surf := newFakeSurface()
	e := NewEngine(fa, surf, Options{Interval: time.Millisecond, Timeout: time.Second})
	return e, fa, surf
}

// drain runs cmd and feeds every resulting message back into the engine,
// skipping ticks so the poll loop does not run forever.
func drain(t *testing.T, e *Engine, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	var run func(c tea.Cmd, depth int)
	run = func(c tea.Cmd, depth int) {
		if c == nil || depth > 10 {
			return
		}
		msg := c()
		switch m := msg.(type) {
		case nil:
			return
		case tea.BatchMsg:
			for _, sub := range m {
				run(sub, depth+1)
			}
			return
		case tickMsg:
			out = append(out, m)
			return
		}
		out = append(out, msg)
		run(e.Update(msg), depth+1)
	}
	run(cmd, 0)
	return out
}

func TestRender_SkipsWhenUnchanged(t *testing.T) {
	e, _, surf := newTestEngine(t, nil)

	e.Render(threeChannels())
	require.Equal(t, 1, surf.renders)
	before := surf.mutations()

	e.Render(threeChannels())
	assert.Equal(t, before, surf.mutations(), "second identical render must not touch the surface")
}

func TestRender_FirstRenderOfEmptyListDraws(t *testing.T) {
	e, _, surf := newTestEngine(t, nil)
	e.Render(channel.List{})
	assert.Equal(t, 1, surf.renders)
}

func TestRender_EditModeChangeForcesRender(t *testing.T) {
	e, _, surf := newTestEngine(t, nil)
	e.Render(threeChannels())

	e.ToggleEditMode()
	assert.Equal(t, 2, surf.renders)
	assert.True(t, surf.editMarker)
	for _, c := range surf.cards {
		assert.Equal(t, IntentEdit, c.Intent)
		assert.Equal(t, EditBorderColor, c.Border)
	}

	e.ToggleEditMode()
	assert.Equal(t, 3, surf.renders)
	assert.False(t, surf.editMarker)
	assert.Equal(t, IntentToggle, surf.cards[0].Intent)
}

func TestRender_UpdatesWires(t *testing.T) {
	e, _, surf := newTestEngine(t, nil)
	e.Render(threeChannels())

	assert.Equal(t, Wire{Color: "#3b82f6", Active: true}, surf.wires[0])
	assert.Equal(t, Wire{Color: IdleColor}, surf.wires[1])
	assert.Equal(t, Wire{Color: channel.DefaultColor, Active: true}, surf.wires[2])
}

func TestToggle_OptimisticFlipBeforeNetwork(t *testing.T) {
	e, fa, surf := newTestEngine(t, channel.List{{ID: 1, Name: "Mic", Active: false}})
	e.Render(channel.List{{ID: 1, Name: "Mic", Active: false}})

	cmd := e.Toggle(1)
	require.NotNil(t, cmd)

	// Nothing has gone over the wire yet, but the card already shows live.
	assert.Empty(t, fa.callLog())
	require.Len(t, surf.cards, 1)
	assert.True(t, surf.cards[0].Active)
	assert.Equal(t, "LIVE", surf.cards[0].Label)

	drain(t, e, cmd)
	assert.Equal(t, []string{"toggle", "status"}, fa.callLog())
	assert.True(t, e.Channels()[0].Active)
}

func TestToggle_OnlyTargetChanges(t *testing.T) {
	e, _, _ := newTestEngine(t, threeChannels())
	e.Render(threeChannels())

	e.Toggle(1)

	got := e.Channels()
	want := threeChannels()
	want[1].Active = true
	assert.Equal(t, want, got)
}

func TestToggle_UnknownIDStillCallsAppliance(t *testing.T) {
	e, fa, surf := newTestEngine(t, threeChannels())
	e.Render(threeChannels())
	before := surf.mutations()

	cmd := e.Toggle(42)
	assert.Equal(t, before, surf.mutations())
	require.NotNil(t, cmd)

	msg := cmd()
	assert.IsType(t, mutationMsg{}, msg)
	assert.Equal(t, []string{"toggle"}, fa.callLog())
}

func TestToggle_NoopInEditMode(t *testing.T) {
	e, fa, _ := newTestEngine(t, threeChannels())
	e.Render(threeChannels())
	e.ToggleEditMode()

	assert.Nil(t, e.Toggle(0))
	assert.Nil(t, e.AllChannels(channel.Mute))
	assert.Empty(t, fa.callLog())
	assert.True(t, e.Channels()[0].Active)
}

func TestAllChannels_MuteAndUnmute(t *testing.T) {
	e, fa, surf := newTestEngine(t, threeChannels())
	e.Render(threeChannels())

	cmd := e.AllChannels(channel.Mute)
	require.NotNil(t, cmd)
	for _, c := range surf.cards {
		assert.False(t, c.Active)
	}

	e.AllChannels(channel.Unmute)
	for _, c := range surf.cards {
		assert.True(t, c.Active)
	}

	cmd()
	assert.Equal(t, []string{"all/mute"}, fa.callLog())
}

func TestBootstrap_ShowsDemoNoticeAndPalette(t *testing.T) {
	e, fa, surf := newTestEngine(t, threeChannels())
	fa.status.Hardware = false

	msgs := drain(t, e, e.Bootstrap())

	assert.True(t, surf.demo)
	assert.True(t, surf.lastOnline())
	assert.Len(t, surf.cards, 3)
	require.Len(t, surf.palette, len(channel.Palette))
	for i, sw := range surf.palette {
		assert.Equal(t, channel.Palette[i], sw.Color)
		assert.False(t, sw.Selected)
	}

	var ticked bool
	for _, m := range msgs {
		if _, ok := m.(tickMsg); ok {
			ticked = true
		}
	}
	assert.True(t, ticked, "bootstrap must start the poll ticker")
}

func TestBootstrap_HardwarePresentHidesDemoNotice(t *testing.T) {
	e, _, surf := newTestEngine(t, threeChannels())
	drain(t, e, e.Bootstrap())
	assert.False(t, surf.demo)
}

func TestBootstrap_UnauthenticatedReturnsToLogin(t *testing.T) {
	e, fa, surf := newTestEngine(t, nil)
	fa.statusErr = api.ErrUnauthenticated

	msgs := drain(t, e, e.Bootstrap())
	assert.Contains(t, msgs, tea.Msg(UnauthenticatedMsg{}))
	assert.Zero(t, surf.renders)
}

func TestBootstrap_FailureStillStartsPolling(t *testing.T) {
	e, fa, surf := newTestEngine(t, nil)
	fa.statusErr = errors.New("dial tcp: connection refused")

	msg := e.Bootstrap()()
	cmd := e.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, []bool{false}, surf.online)

	assert.IsType(t, tickMsg{}, cmd())
}

func TestPoll_FailureKeepsListAndGoesOffline(t *testing.T) {
	e, fa, surf := newTestEngine(t, threeChannels())
	drain(t, e, e.Bootstrap())
	cards := surf.cards
	renders := surf.renders

	fa.set(func(f *fakeAPI) { f.statusErr = errors.New("timeout") })
	drain(t, e, e.Poll())

	assert.False(t, surf.lastOnline())
	assert.Equal(t, renders, surf.renders)
	assert.Equal(t, cards, surf.cards)
	assert.Equal(t, threeChannels(), e.Channels())

	fa.set(func(f *fakeAPI) { f.statusErr = nil })
	drain(t, e, e.Poll())
	assert.True(t, surf.lastOnline())
}

func TestPoll_UnauthenticatedMidSession(t *testing.T) {
	e, fa, _ := newTestEngine(t, threeChannels())
	drain(t, e, e.Bootstrap())

	fa.set(func(f *fakeAPI) { f.statusErr = api.ErrUnauthenticated })
	msgs := drain(t, e, e.Poll())
	assert.Contains(t, msgs, tea.Msg(UnauthenticatedMsg{}))
}

func TestPoll_StaleResponseDropped(t *testing.T) {
	e, fa, surf := newTestEngine(t, threeChannels())
	drain(t, e, e.Bootstrap())

	slow := e.Poll()
	fast := e.Poll()

	// The newer poll sees the channel muted and lands first.
	fa.set(func(f *fakeAPI) { f.status.Channels[0].Active = false })
	e.Update(fast())
	assert.False(t, e.Channels()[0].Active)

	// The older poll observed the previous state but arrives late.
	stale := slow().(StatusMsg)
	stale.Status.Channels[0].Active = true
	renders := surf.renders
	assert.Nil(t, e.Update(stale))
	assert.Equal(t, renders, surf.renders)
	assert.False(t, e.Channels()[0].Active)
}

func TestPoll_ReconcilesOptimisticGuess(t *testing.T) {
	e, fa, surf := newTestEngine(t, threeChannels())
	drain(t, e, e.Bootstrap())

	// Someone else unmuted channel 1 since the last poll, so the appliance
	// flips it back to muted while the local guess says live.
	fa.set(func(f *fakeAPI) { f.status.Channels[1].Active = true })
	cmd := e.Toggle(1)
	assert.True(t, surf.cards[1].Active)

	drain(t, e, cmd)
	assert.False(t, e.Channels()[1].Active)
	assert.False(t, surf.cards[1].Active)
}

func TestMutation_UnauthenticatedReturnsToLogin(t *testing.T) {
	e, fa, _ := newTestEngine(t, threeChannels())
	e.Render(threeChannels())
	fa.mutErr = api.ErrUnauthenticated

	msgs := drain(t, e, e.Toggle(0))
	assert.Contains(t, msgs, tea.Msg(UnauthenticatedMsg{}))
}

func TestMutation_FailureStillPolls(t *testing.T) {
	e, fa, _ := newTestEngine(t, threeChannels())
	e.Render(threeChannels())
	fa.mutErr = errors.New("boom")

	drain(t, e, e.AllChannels(channel.Mute))
	assert.Equal(t, []string{"all/mute", "status"}, fa.callLog())
	assert.Equal(t, threeChannels(), e.Channels())
}

func TestUpdate_IgnoresOtherEngines(t *testing.T) {
	first, _, _ := newTestEngine(t, threeChannels())
	second, _, surf := newTestEngine(t, threeChannels())

	msg := first.Bootstrap()()
	assert.Nil(t, second.Update(msg))
	assert.Nil(t, second.Update(tickMsg{engine: first}))
	assert.Zero(t, surf.renders)
}

func TestTick_PollsAndReschedules(t *testing.T) {
	e, fa, _ := newTestEngine(t, threeChannels())
	cmd := e.Update(tickMsg{engine: e})
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	assert.Len(t, batch, 2)

	var sawStatus, sawTick bool
	for _, c := range batch {
		switch c().(type) {
		case StatusMsg:
			sawStatus = true
		case tickMsg:
			sawTick = true
		}
	}
	assert.True(t, sawStatus)
	assert.True(t, sawTick)
	assert.Equal(t, []string{"status"}, fa.callLog())
}

type fakeRecorder struct {
	mu    sync.Mutex
	pairs [][2]channel.List
}

func (r *fakeRecorder) Record(_ context.Context, prev, next channel.List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs = append(r.pairs, [2]channel.List{prev, next})
	return nil
}

func TestRecorder_ReceivesAuthoritativeChanges(t *testing.T) {
	fa := &fakeAPI{status: &api.Status{Hardware: true, Channels: threeChannels()}}
	rec := &fakeRecorder{}
	e := NewEngine(fa, newFakeSurface(), Options{Interval: time.Millisecond, Recorder: rec})

	drain(t, e, e.Bootstrap())
	drain(t, e, e.Poll())
	assert.Empty(t, rec.pairs, "baseline and unchanged polls are not recorded")

	fa.set(func(f *fakeAPI) { f.status.Channels[2].Name = "Guest" })
	drain(t, e, e.Poll())

	require.Len(t, rec.pairs, 1)
	assert.Equal(t, "Left", rec.pairs[0][0][2].Name)
	assert.Equal(t, "Guest", rec.pairs[0][1][2].Name)
}

func TestNilSurface_KeepsState(t *testing.T) {
	fa := &fakeAPI{status: &api.Status{Channels: threeChannels()}}
	e := NewEngine(fa, nil, Options{Interval: time.Millisecond})

	drain(t, e, e.Bootstrap())
	assert.Equal(t, threeChannels(), e.Channels())
	assert.True(t, e.Online())
	assert.Nil(t, e.Save())
}
