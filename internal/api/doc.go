// Package api is the HTTP client for the xlr appliance REST surface.
//
// # Overview
//
// The appliance exposes a small JSON API. Every call here maps to exactly one
// request:
//
//   - Login:  POST /api/login            {"pin": "1234"} -> {"success": true}
//   - Status: GET  /api/status?t=<ms>    -> {"hardware": bool, "channels": [...]}
//   - Toggle: POST /api/toggle/{id}
//   - SetAll: POST /api/all/{mute|unmute}
//   - Update: POST /api/update/{id}      {"name": "...", "color": "#rrggbb"}
//
// # Authentication
//
// A successful Login sets a session cookie that the client keeps in its cookie
// jar. Any call answered with HTTP 401 returns ErrUnauthenticated, which
// callers treat as "start over from the login screen":
//
//	st, err := c.Status(ctx)
//	if errors.Is(err, api.ErrUnauthenticated) {
//	    // back to the PIN pad
//	}
//
// The session can be persisted between runs with SaveSession / LoadSession.
//
// # Tracing
//
// Every request carries a fresh X-Request-ID header which is also logged at
// debug level, so client and appliance logs can be correlated.
package api
