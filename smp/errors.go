package smp

import (
	"errors"
	"fmt"
)

var (
	// ErrFrame indicates a structurally malformed frame: fewer than two
	// bytes, or a D-Len that disagrees with the actual frame length.
	ErrFrame = errors.New("smp: malformed frame")

	// ErrUnexpectedOpcode indicates that the opcode echoed in a response
	// does not match the opcode that was sent.
	ErrUnexpectedOpcode = errors.New("smp: unexpected opcode in response")

	// ErrPayloadSize indicates that a response payload does not match the
	// size of the wire format declared by the caller.
	ErrPayloadSize = errors.New("smp: payload size mismatch")

	// ErrUnexpectedResponse indicates that a response payload does not
	// equal the literal bytes the caller expected (e.g. "OK").
	ErrUnexpectedResponse = errors.New("smp: unexpected response payload")
)

// Severity classifies a device-reported event. It is selected by the
// opcode echoed in a D-Len == 2 response frame: 0x88 is an error, 0x89
// a warning and 0x8A an info message. Any other echoed opcode is
// treated as an error.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns "ERROR", "WARNING" or "INFO".
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// DeviceError is an error, warning or info event explicitly reported by
// the module in a D-Len == 2 response frame.
//
// Echo preserves the raw opcode that carried the event. For regular
// events it is one of CmdError, CmdWarning or CmdInfo, but some
// commands echo their own opcode in error frames; the raw value is kept
// for diagnostics.
type DeviceError struct {
	Severity Severity
	Code     byte
	Echo     byte
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	switch e.Echo {
	case CmdError, CmdWarning, CmdInfo:
		return fmt.Sprintf("smp: device %s: %s (0x%02X)",
			e.Severity, e.Category(), e.Code)
	default:
		return fmt.Sprintf("smp: device %s (echo 0x%02X): %s (0x%02X)",
			e.Severity, e.Echo, e.Category(), e.Code)
	}
}

// Category returns the manual's category string for the error code,
// or "UNKNOWN" for codes the manual does not list.
func (e *DeviceError) Category() string {
	return ErrorCategory(e.Code)
}

// newDeviceError classifies a D-Len == 2 response frame.
func newDeviceError(echo byte, code byte) *DeviceError {
	severity := SeverityError
	switch echo {
	case CmdWarning:
		severity = SeverityWarning
	case CmdInfo:
		severity = SeverityInfo
	}

	return &DeviceError{Severity: severity, Code: code, Echo: echo}
}
