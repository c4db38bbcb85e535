// ABOUTME: Skip-if-unchanged render gate keyed on channel data and edit mode
// ABOUTME: The first render always passes

package panel

import "github.com/2389/xlr-panel/internal/channel"

type renderGate struct {
	channels channel.List
	editing  bool
	primed   bool
}

func (g *renderGate) changed(chs channel.List, editing bool) bool {
	return !g.primed || g.editing != editing || !g.channels.Equal(chs)
}

func (g *renderGate) store(chs channel.List, editing bool) {
	g.channels = chs
	g.editing = editing
	g.primed = true
}
