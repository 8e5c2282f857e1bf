// Package motion implements the command surface of a Schunk motion
// module on top of the rs232 transport and the smp codec.
//
// A Module wraps one rs232.Connection and exposes the manual's
// commands as methods: reference and positioning moves (§2.1), impulse
// message control (§2.2), configuration access (§2.3), state queries
// and communication self-tests (§2.5) and error handling (§2.8).
//
// Most operations are a single request/response exchange on a fresh
// channel. The blocking variants (MovePosBlocking, MovePosRelBlocking,
// WaitUntilPositionReached, StreamState) hold one channel open across
// several frames; if their context is cancelled mid-wait they write a
// stop command on that channel before closing it, so an interrupted
// program never leaves the axis moving. Ordinary protocol errors do
// not stop the axis.
package motion
