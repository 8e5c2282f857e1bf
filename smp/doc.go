// Package smp implements the core engine of the Schunk Motion Protocol,
// a binary command/response protocol used to command and query motorized
// actuator modules.
//
// The package covers the transport-independent parts of the protocol:
//
//   - Checksum: the manual's table-driven CRC-16, in both one-shot and
//     incremental form.
//   - Codec: encoding a command (opcode + payload) into a frame and
//     decoding a received frame into a validated response or a
//     classified device error.
//   - Error taxonomy: mapping the one-byte device error codes to
//     categories and the three severities (error / warning / info).
//   - Wire formats: fixed-width little-endian field packing for command
//     parameters and response payloads.
//   - Status: the module status bitfield returned by GET STATE.
//
// # Frames
//
// A frame on the wire is [D-Len][Opcode][Payload...]. D-Len counts the
// opcode plus payload bytes, i.e. D-Len == 1 + len(payload). A response
// frame with D-Len == 2 is always a device-reported error, warning or
// info event, never a successful one-byte payload. [DecodeFrame]
// enforces this unconditionally.
//
// Line-level framing (address bytes and the CRC-16 trailer) is the
// concern of the rs232 package.
package smp
