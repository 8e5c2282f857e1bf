package smp

import (
	"bytes"
	"fmt"
)

// Response is a successfully decoded response frame: the echoed opcode
// and the trailing payload bytes (D-Len and opcode stripped).
type Response struct {
	Opcode  byte
	Payload []byte
}

// DecodeFrame validates and classifies a raw response frame
// [D-Len][Opcode][Payload...] received in reply to the given command
// opcode.
//
// Classification rules:
//
//   - Fewer than 2 bytes, or D-Len != len(raw)-1: ErrFrame.
//   - D-Len == 2: always a device-reported event. The single payload
//     byte is the error code; the echoed opcode selects the severity
//     (0x88 error, 0x89 warning, 0x8A info, anything else error). The
//     returned error is a *DeviceError.
//   - Echoed opcode != sent opcode: ErrUnexpectedOpcode.
//   - Otherwise: the payload is returned as a Response.
//
// The D-Len == 2 rule is unconditional: a one-byte payload can never be
// a successful response, for any opcode.
func DecodeFrame(sent byte, raw []byte) (*Response, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: %d bytes, need at least 2", ErrFrame, len(raw))
	}

	dlen := raw[0]
	echo := raw[1]

	if int(dlen) != len(raw)-1 {
		return nil, fmt.Errorf("%w: D-Len %d does not match frame length %d",
			ErrFrame, dlen, len(raw))
	}

	if dlen == 2 {
		return nil, newDeviceError(echo, raw[2])
	}

	if echo != sent {
		return nil, fmt.Errorf("%w: sent 0x%02X, got 0x%02X",
			ErrUnexpectedOpcode, sent, echo)
	}

	return &Response{Opcode: echo, Payload: raw[2:]}, nil
}

// ExpectLiteral checks that the response payload equals the expected
// literal bytes. It returns ErrUnexpectedResponse on mismatch.
func (r *Response) ExpectLiteral(expected []byte) error {
	if !bytes.Equal(r.Payload, expected) {
		return fmt.Errorf("%w: %q instead of %q",
			ErrUnexpectedResponse, r.Payload, expected)
	}

	return nil
}

// Unpack decodes the response payload per the given wire format. It
// returns ErrPayloadSize if the payload length does not match the
// format's size.
func (r *Response) Unpack(format Format) ([]Value, error) {
	return format.Unpack(r.Payload)
}
