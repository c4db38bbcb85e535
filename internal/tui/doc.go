// Package tui is the terminal front end of the panel.
//
// The Model owns one login.Machine or one panel.Engine at a time. Both are
// driven through surface, which implements login.Keypad and panel.Surface
// and holds everything View draws. A 401 from any dashboard call discards
// the engine and shows the PIN pad again; a successful login discards the
// machine and bootstraps a fresh engine.
package tui
