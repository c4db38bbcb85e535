// ABOUTME: Typed view-model for channel cards and wire indicators
// ABOUTME: Turns a channel snapshot plus edit mode into what the surface draws

package panel

import "github.com/2389/xlr-panel/internal/channel"

// Colors used by the card view-model.
const (
	IdleColor       = "#334155"
	EditBorderColor = "#475569"
	LiveColor       = "#10b981"
	MutedColor      = "#ef4444"
)

// Intent is what activating a card does. It is bound when the card is built.
type Intent int

const (
	IntentToggle Intent = iota
	IntentEdit
)

// Card is one rendered channel.
type Card struct {
	ID     int
	Name   string
	Color  string
	Active bool

	// Label is LIVE or MUTED; LabelColor goes with it.
	Label      string
	LabelColor string
	Border     string
	Glow       bool
	Intent     Intent
}

// Wire is the patch-bay indicator paired with a channel.
type Wire struct {
	Color  string
	Active bool
}

// BuildCards renders chs for the given edit mode.
func BuildCards(chs channel.List, editing bool) []Card {
	cards := make([]Card, 0, len(chs))
	for _, c := range chs {
		color := c.DisplayColor()
		card := Card{
			ID:         c.ID,
			Name:       c.Name,
			Color:      color,
			Active:     c.Active,
			Label:      "MUTED",
			LabelColor: MutedColor,
			Border:     IdleColor,
			Intent:     IntentToggle,
		}
		if c.Active {
			card.Label = "LIVE"
			card.LabelColor = LiveColor
			card.Border = color
			card.Glow = true
		}
		if editing {
			card.Border = EditBorderColor
			card.Glow = false
			card.Intent = IntentEdit
		}
		cards = append(cards, card)
	}
	return cards
}

// WireFor returns the wire state for c.
func WireFor(c channel.Channel) Wire {
	if !c.Active {
		return Wire{Color: IdleColor}
	}
	return Wire{Color: c.DisplayColor(), Active: true}
}
