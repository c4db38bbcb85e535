// ABOUTME: Status call returning the appliance's authoritative channel list
// ABOUTME: Adds a millisecond cache-buster so intermediaries never serve stale state

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/2389/xlr-panel/internal/channel"
)

// Status is the appliance state snapshot.
type Status struct {
	// Hardware is false when the appliance runs without relays attached.
	Hardware bool         `json:"hardware"`
	Channels channel.List `json:"channels"`
}

// Status fetches the current channel list.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	q := url.Values{}
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))

	var st Status
	if err := c.do(ctx, http.MethodGet, "api/status", q, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
