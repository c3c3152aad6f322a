// Package wizard holds the setup wizard's state model: the normalized
// chain/node/repository store, the closed action vocabulary that
// mutates it, and the validation-gated step navigator.
//
// The package is presentation-free. The TUI (internal/tui) reads a
// Session and writes to it only through the two-phase submit contract:
// validate the step's fields, dispatch actions, then advance. Reduce
// is pure, so previous store values stay valid after every mutation.
package wizard
