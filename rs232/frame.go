package rs232

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/robomotion/go-smp/smp"
)

// Envelope message types (manual §1.5).
const (
	// MsgMasterToModule opens every envelope sent by the master.
	MsgMasterToModule byte = 0x05

	// MsgResponse marks a normal module response.
	MsgResponse byte = 0x03

	// MsgImpulse marks an impulse (unsolicited or multi-frame) response.
	MsgImpulse byte = 0x07
)

// envelopeHeaderSize is [MsgType][Address][D-Len].
const envelopeHeaderSize = 3

// Framer wraps protocol frames into RS-232 transport envelopes for one
// module address and unwraps received envelopes back into frames.
type Framer struct {
	address byte
}

// NewFramer creates a Framer for the given module address.
func NewFramer(address byte) Framer {
	return Framer{address: address}
}

// Address returns the module address this framer validates against.
func (f Framer) Address() byte {
	return f.address
}

// Wrap builds the wire envelope for a frame:
// [0x05][address][frame...][crcLow][crcHigh].
func (f Framer) Wrap(frame []byte) []byte {
	buf := make([]byte, 0, envelopeHeaderSize-1+len(frame)+smp.ChecksumSize)
	buf = append(buf, MsgMasterToModule, f.address)
	buf = append(buf, frame...)

	return smp.AppendChecksum(buf)
}

// Unwrap reads one envelope from r and validates it.
//
// It reads exactly 3 header bytes, then exactly D-Len + 2 further
// bytes (frame body plus checksum trailer). Failures:
//
//   - short read on header or body: ErrTransport
//   - message type not 0x03 or 0x07: ErrTransport
//   - address != the framer's address: ErrTransport
//   - CRC over header+body != trailer: ErrChecksum
//
// On success it returns the message type and the bare frame
// [D-Len][Opcode][Payload...], ready for the smp codec; the envelope
// header and trailer are stripped.
func (f Framer) Unwrap(r io.Reader) (msgType byte, frame []byte, err error) {
	header := make([]byte, envelopeHeaderSize)
	if err := readFull(r, header); err != nil {
		return 0, nil, fmt.Errorf("%w: reading envelope header: %v", ErrTransport, err)
	}

	msgType = header[0]
	address := header[1]
	dlen := header[2]

	if msgType != MsgResponse && msgType != MsgImpulse {
		return 0, nil, fmt.Errorf("%w: unexpected message type 0x%02X", ErrTransport, msgType)
	}

	if address != f.address {
		return 0, nil, fmt.Errorf("%w: module address 0x%02X, expected 0x%02X",
			ErrTransport, address, f.address)
	}

	body := make([]byte, int(dlen)+smp.ChecksumSize)
	if err := readFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("%w: reading envelope body: %v", ErrTransport, err)
	}

	trailer := binary.LittleEndian.Uint16(body[len(body)-smp.ChecksumSize:])

	acc := smp.Checksum(header)
	for _, b := range body[:len(body)-smp.ChecksumSize] {
		acc = smp.ChecksumStep(acc, b)
	}

	if acc != trailer {
		return 0, nil, fmt.Errorf("%w: computed 0x%04X, trailer 0x%04X",
			ErrChecksum, acc, trailer)
	}

	frame = make([]byte, 0, 1+int(dlen))
	frame = append(frame, dlen)
	frame = append(frame, body[:len(body)-smp.ChecksumSize]...)

	return msgType, frame, nil
}

// readFull reads exactly len(buf) bytes from r. A Read returning zero
// bytes without an error is treated as end-of-stream (serial ports
// report a timeout this way).
func readFull(r io.Reader, buf []byte) error {
	for read := 0; read < len(buf); {
		n, err := r.Read(buf[read:])
		read += n

		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrUnexpectedEOF
		}
	}

	return nil
}

// writeAll writes all bytes in data to w. A short write without an
// error is reported as io.ErrShortWrite.
func writeAll(w io.Writer, data []byte) error {
	for written := 0; written < len(data); {
		n, err := w.Write(data[written:])
		written += n

		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}

	return nil
}
