// ABOUTME: Channel data model shared by the API client, sync engine, and journal
// ABOUTME: Provides structural equality and cloning for wholesale cache replacement

package channel

import "fmt"

// DefaultColor is used for channels that carry no color of their own.
const DefaultColor = "#3b82f6"

// Palette is the fixed set of accent colors offered when recoloring a channel.
var Palette = []string{
	"#ef4444", "#f97316", "#f59e0b", "#eab308",
	"#84cc16", "#10b981", "#06b6d4", "#3b82f6",
	"#6366f1", "#d946ef", "#ffffff", "#000000",
}

// Channel is a controllable on/off line as reported by the appliance.
// Active true means live (unmuted).
type Channel struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Active bool   `json:"active"`
}

// DisplayColor returns the channel color, falling back to DefaultColor.
func (c Channel) DisplayColor() string {
	if c.Color == "" {
		return DefaultColor
	}
	return c.Color
}

// List is an ordered snapshot of channels. Snapshots are replaced wholesale,
// never patched in place, so that Equal stays a plain structural comparison.
type List []Channel

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Equal reports whether both lists hold the same channels in the same order.
// A nil list equals an empty one.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Index returns the position of the channel with the given id, or -1.
func (l List) Index(id int) int {
	for i, c := range l {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Action is a bulk operation applied to every channel.
type Action string

const (
	Mute   Action = "mute"
	Unmute Action = "unmute"
)

// Active returns the Active value every channel has after the action.
func (a Action) Active() bool {
	return a == Unmute
}

// ParseAction validates a bulk action name.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case Mute, Unmute:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action %q (want mute or unmute)", s)
	}
}
