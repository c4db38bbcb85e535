// ABOUTME: Channel mutation calls: single toggle, bulk mute/unmute, rename/recolor
// ABOUTME: Responses are ignored; callers re-poll Status for the authoritative result

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2389/xlr-panel/internal/channel"
)

type updateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Toggle flips the active flag of channel id.
func (c *Client) Toggle(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodPost, "api/toggle/"+strconv.Itoa(id), nil, nil, nil); err != nil {
		return fmt.Errorf("toggling channel %d: %w", id, err)
	}
	return nil
}

// SetAll mutes or unmutes every channel.
func (c *Client) SetAll(ctx context.Context, action channel.Action) error {
	if _, err := channel.ParseAction(string(action)); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, "api/all/"+string(action), nil, nil, nil); err != nil {
		return fmt.Errorf("%s all: %w", action, err)
	}
	return nil
}

// Update renames and recolors channel id.
func (c *Client) Update(ctx context.Context, id int, name, color string) error {
	body := updateRequest{Name: name, Color: color}
	if err := c.do(ctx, http.MethodPost, "api/update/"+strconv.Itoa(id), nil, body, nil); err != nil {
		return fmt.Errorf("updating channel %d: %w", id, err)
	}
	return nil
}
