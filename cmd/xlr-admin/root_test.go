// ABOUTME: Tests for the xlr-admin command tree
// ABOUTME: Runs commands against the fake appliance with a throwaway config

package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/xlr-panel/internal/channel"
	"github.com/2389/xlr-panel/internal/fakepanel"
	"github.com/2389/xlr-panel/internal/journal"
)

type harness struct {
	fake       *fakepanel.Server
	configPath string
	journal    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	color.NoColor = true

	fake := fakepanel.New("1234", nil)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	h := &harness{
		fake:       fake,
		configPath: filepath.Join(dir, "panel.yaml"),
		journal:    filepath.Join(dir, "journal.db"),
	}
	cfg := "server:\n  url: \"" + srv.URL + "\"\n" +
		"session:\n  path: \"" + filepath.Join(dir, "session.json") + "\"\n" +
		"journal:\n  path: \"" + h.journal + "\"\n" +
		"logging:\n  level: \"error\"\n"
	require.NoError(t, os.WriteFile(h.configPath, []byte(cfg), 0644))
	return h
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRoot()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	_, err := h.run(t, "1234\n", "login")
	require.NoError(t, err)
}

func TestRootHasSubcommands(t *testing.T) {
	root := NewRoot()
	names := map[string]bool{}
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"login", "status", "toggle", "mute", "unmute", "rename", "history"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "1234\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")

	_, err = h.run(t, "9999\n", "login")
	assert.EqualError(t, err, "PIN rejected")

	_, err = h.run(t, "\n", "login")
	assert.EqualError(t, err, "PIN is required")
}

func TestStatus_RequiresLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "demo mode")
	assert.Contains(t, out, "Speaker")
	assert.Contains(t, out, "#10b981")
	assert.Contains(t, out, "LIVE")
}

func TestToggleAndAll(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, err := h.run(t, "", "toggle", "2")
	require.NoError(t, err)
	assert.False(t, h.fake.Channels()[2].Active)

	_, err = h.run(t, "", "toggle", "abc")
	assert.Error(t, err)

	_, err = h.run(t, "", "mute")
	require.NoError(t, err)
	for _, c := range h.fake.Channels() {
		assert.False(t, c.Active)
	}

	_, err = h.run(t, "", "unmute")
	require.NoError(t, err)
	for _, c := range h.fake.Channels() {
		assert.True(t, c.Active)
	}
}

func TestRename(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, err := h.run(t, "", "rename", "1", "Lectern")
	require.NoError(t, err)
	got := h.fake.Channels()[1]
	assert.Equal(t, "Lectern", got.Name)
	assert.Equal(t, "#10b981", got.Color, "color is kept when --color is absent")

	_, err = h.run(t, "", "rename", "1", "Lectern", "--color", "#ef4444")
	require.NoError(t, err)
	assert.Equal(t, "#ef4444", h.fake.Channels()[1].Color)

	_, err = h.run(t, "", "rename", "1", "Lectern", "--color", "#123456")
	assert.ErrorContains(t, err, "not in the palette")

	_, err = h.run(t, "", "rename", "9", "Ghost")
	assert.ErrorContains(t, err, "not found")
}

func TestHistory(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes recorded")

	j, err := journal.Open(h.journal)
	require.NoError(t, err)
	prev := fakepanel.DefaultChannels()
	next := prev.Clone()
	next[0].Active = false
	next[1].Name = "Lectern"
	require.NoError(t, j.Record(context.Background(), prev, next))
	require.NoError(t, j.Close())

	out, err = h.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, string(journal.KindMuted))
	assert.Contains(t, out, string(journal.KindRenamed))
	assert.Contains(t, out, "to=Lectern")

	out, err = h.run(t, "", "history", "--channel", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, string(journal.KindMuted))
	assert.Contains(t, out, string(journal.KindRenamed))
}

func TestFormatDetail(t *testing.T) {
	assert.Equal(t, "from=a to=b", formatDetail(map[string]any{"to": "b", "from": "a"}))
	assert.Equal(t, "", formatDetail(nil))
}

func TestInPalette(t *testing.T) {
	assert.True(t, inPalette(channel.Palette, "#000000"))
	assert.False(t, inPalette(channel.Palette, "#8b5cf6"))
}
