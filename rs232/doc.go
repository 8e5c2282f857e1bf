// Package rs232 implements the serial-line transport framing and the
// exchange session of the Schunk Motion Protocol.
//
// On the RS-232 bus every frame from the smp package travels inside a
// transport envelope:
//
//	[MsgType][Address][D-Len][Opcode][Payload...][CrcLow][CrcHigh]
//
// The master sends with message type 0x05; the module answers with
// 0x03 (normal response) or 0x07 (impulse / multi-frame response). The
// CRC-16 trailer covers every preceding byte and uses the manual's
// table-driven checksum from the smp package. The module address is
// validated on every received envelope.
//
// Transport-level corruption (wrong address, unknown message type, a
// short read, a bad checksum) is reported as ErrTransport or
// ErrChecksum and is never reinterpreted as a device-reported error;
// classifying device errors is the smp codec's job.
//
// # Sessions
//
// A [Session] owns one open [Channel] for the duration of one logical
// call. It is a small state machine (Idle → Sending → AwaitingFrame →
// Decoded/Failed, with MultiFrameWait for blocking motion calls) and
// guarantees the channel is closed exactly once on every exit path.
// Sessions are not safe for concurrent use: the protocol allows a
// single in-flight exchange per channel, with no pipelining.
package rs232
