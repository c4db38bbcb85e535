// Package panel keeps the rendered channel list in step with the appliance.
//
// # Overview
//
// Engine owns the client-side channel cache and everything that changes it:
//
//   - Bootstrap / Poll fetch /api/status and feed Render
//   - Toggle / AllChannels update the cache optimistically, call the
//     appliance, then poll again so the server has the last word
//   - ToggleEditMode switches card activation from "toggle" to "edit"
//   - OpenModal / SelectSwatch / Save / CloseModal rename and recolor a channel
//
// # Execution model
//
// All Engine methods must run on the bubbletea Update goroutine. Network work
// is returned as tea.Cmd values; their results come back through Update. Each
// message carries the Engine that produced it, so messages from an engine that
// has been thrown away (after a 401) are ignored.
//
// # Render gate
//
// Render compares the incoming list and the edit flag with what was drawn
// last. When neither changed it touches nothing on the Surface, which is what
// keeps a 2s poll from rebuilding the screen every tick.
//
// # Poll ordering
//
// Every status request gets a sequence number. A response older than the
// newest one already applied is dropped, so a slow poll can never roll the
// display back to an older state.
package panel
