package rs232

import "errors"

var (
	// ErrTransport indicates a transport-level failure: a short read or
	// write, a malformed envelope header, an unknown message type, or a
	// module address mismatch. Fatal to the current call; the channel is
	// closed.
	ErrTransport = errors.New("rs232: transport failure")

	// ErrChecksum indicates that the recomputed CRC-16 of a received
	// envelope disagrees with its trailer. Fatal to the current call; the
	// core never retries (retry policy, if any, belongs to the caller).
	ErrChecksum = errors.New("rs232: checksum mismatch")

	// ErrSessionClosed is returned when an operation is attempted on a
	// session whose channel has already been closed.
	ErrSessionClosed = errors.New("rs232: session closed")
)
