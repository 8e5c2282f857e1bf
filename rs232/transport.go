package rs232

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Channel is an ordered, reliable byte channel with blocking read and
// write and an explicit close. Read may return fewer bytes than
// requested only at end-of-stream or timeout. The protocol engine
// calls Close exactly once per session, on every exit path.
type Channel = io.ReadWriteCloser

// Transport opens channels to a module. The connection owns a
// Transport and opens one channel per session.
type Transport interface {
	Open() (Channel, error)
}

// SerialTransport opens a serial port for each session, 8 data bits,
// no parity, one stop bit.
//
// The read timeout must be generous: during a blocking motion call the
// channel sits idle between the command response and the unsolicited
// position-reached notification, and a premature timeout there is
// indistinguishable from a lost notification.
type SerialTransport struct {
	portName    string
	mode        *serial.Mode
	readTimeout time.Duration
}

// NewSerialTransport creates a SerialTransport for the given port
// (e.g. "/dev/ttyUSB0") and baud rate.
func NewSerialTransport(portName string, baudRate int, readTimeout time.Duration) *SerialTransport {
	return &SerialTransport{
		portName: portName,
		mode: &serial.Mode{
			BaudRate: baudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
		readTimeout: readTimeout,
	}
}

// Open opens the serial port and applies the read timeout.
func (t *SerialTransport) Open() (Channel, error) {
	port, err := serial.Open(t.portName, t.mode)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrTransport, t.portName, err)
	}

	if err := port.SetReadTimeout(t.readTimeout); err != nil {
		_ = port.Close()

		return nil, fmt.Errorf("%w: setting read timeout: %v", ErrTransport, err)
	}

	return port, nil
}
