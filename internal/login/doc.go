// Package login implements the PIN pad state machine.
//
// A Machine buffers up to four digits. The fourth digit submits the PIN on its
// own, so there is no separate "enter" gesture. The outcome comes back to the
// machine as a ResultMsg through the bubbletea Update loop:
//
//   - accepted: the machine emits AuthenticatedMsg and the caller discards all
//     client state and starts the dashboard from scratch
//   - rejected: the dots flash an error state for the flash duration, then the
//     buffer clears
//   - transport failure: the buffer clears without the flash
//
// A Machine built with a nil Keypad has no login surface; every operation is a
// no-op, so one key handler can be installed unconditionally.
package login
