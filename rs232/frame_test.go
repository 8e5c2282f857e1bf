package rs232

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robomotion/go-smp/smp"
)

// respEnvelope builds a module-to-master envelope with a valid CRC.
func respEnvelope(msgType byte, address byte, frame []byte) []byte {
	buf := make([]byte, 0, 2+len(frame)+smp.ChecksumSize)
	buf = append(buf, msgType, address)
	buf = append(buf, frame...)

	return smp.AppendChecksum(buf)
}

func TestFramer_Wrap(t *testing.T) {
	f := NewFramer(0x0B)

	// MOVE POS 10.0 for module 0x0B; CRC 0x80E2 → E2 80 on the wire.
	envelope := f.Wrap([]byte{0x05, 0xB0, 0x00, 0x00, 0x20, 0x41})
	assert.Equal(t,
		[]byte{0x05, 0x0B, 0x05, 0xB0, 0x00, 0x00, 0x20, 0x41, 0xE2, 0x80},
		envelope)

	// CMD STOP.
	envelope = f.Wrap([]byte{0x01, 0x91})
	require.Len(t, envelope, 6)
	assert.Equal(t, []byte{0x05, 0x0B, 0x01, 0x91}, envelope[:4])
	assert.Equal(t, smp.Checksum(envelope[:4]),
		uint16(envelope[4])|uint16(envelope[5])<<8)
}

func TestFramer_Unwrap(t *testing.T) {
	f := NewFramer(0x0B)

	frame := []byte{0x03, 0x92, 0x4F, 0x4B} // "OK" to CMD REFERENCE
	envelope := respEnvelope(MsgResponse, 0x0B, frame)

	msgType, got, err := f.Unwrap(bytes.NewReader(envelope))
	require.NoError(t, err)
	assert.Equal(t, MsgResponse, msgType)
	assert.Equal(t, frame, got)
}

func TestFramer_Unwrap_Impulse(t *testing.T) {
	f := NewFramer(0x0B)

	frame := []byte{0x05, 0x94, 0x00, 0x00, 0x20, 0x41} // POS REACHED 10.0
	envelope := respEnvelope(MsgImpulse, 0x0B, frame)

	msgType, got, err := f.Unwrap(bytes.NewReader(envelope))
	require.NoError(t, err)
	assert.Equal(t, MsgImpulse, msgType)
	assert.Equal(t, frame, got)
}

func TestFramer_Unwrap_RoundTripThroughWrapShape(t *testing.T) {
	// The response envelope has the same shape as the request envelope,
	// so a wrapped frame with the message type rewritten to 0x03 must
	// unwrap to the original frame.
	f := NewFramer(0x2A)

	frame := []byte{0x06, 0x95, 0x00, 0x00, 0x00, 0x00, 0x07}
	envelope := respEnvelope(MsgResponse, 0x2A, frame)

	_, got, err := f.Unwrap(bytes.NewReader(envelope))
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestFramer_Unwrap_AddressMismatch(t *testing.T) {
	f := NewFramer(0x0B)

	envelope := respEnvelope(MsgResponse, 0x0C, []byte{0x03, 0x92, 0x4F, 0x4B})

	_, _, err := f.Unwrap(bytes.NewReader(envelope))
	require.ErrorIs(t, err, ErrTransport)
}

func TestFramer_Unwrap_BadMessageType(t *testing.T) {
	f := NewFramer(0x0B)

	for _, msgType := range []byte{0x00, 0x01, 0x05, 0x08, 0xFF} {
		envelope := respEnvelope(msgType, 0x0B, []byte{0x03, 0x92, 0x4F, 0x4B})

		_, _, err := f.Unwrap(bytes.NewReader(envelope))
		require.ErrorIsf(t, err, ErrTransport, "message type 0x%02X", msgType)
	}
}

func TestFramer_Unwrap_ShortReads(t *testing.T) {
	f := NewFramer(0x0B)

	envelope := respEnvelope(MsgResponse, 0x0B, []byte{0x03, 0x92, 0x4F, 0x4B})

	// Truncations anywhere: header short, body short, trailer short.
	for cut := 0; cut < len(envelope); cut++ {
		_, _, err := f.Unwrap(bytes.NewReader(envelope[:cut]))
		require.ErrorIsf(t, err, ErrTransport, "cut at %d", cut)
	}
}

func TestFramer_Unwrap_ChecksumMismatch(t *testing.T) {
	f := NewFramer(0x0B)

	envelope := respEnvelope(MsgResponse, 0x0B, []byte{0x03, 0x92, 0x4F, 0x4B})

	// Corrupt one payload byte: the CRC no longer matches.
	corrupted := append([]byte(nil), envelope...)
	corrupted[4] ^= 0x01

	_, _, err := f.Unwrap(bytes.NewReader(corrupted))
	require.ErrorIs(t, err, ErrChecksum)
}

func TestFramer_Unwrap_AnySingleBitFlipRejected(t *testing.T) {
	// No single-bit corruption anywhere in the envelope may ever be
	// silently accepted.
	f := NewFramer(0x0B)

	envelope := respEnvelope(MsgResponse, 0x0B, []byte{0x05, 0xB0, 0xCD, 0xCC, 0x04, 0x41})

	for i := range envelope {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), envelope...)
			flipped[i] ^= 1 << bit

			_, _, err := f.Unwrap(bytes.NewReader(flipped))
			require.Errorf(t, err, "flip byte %d bit %d accepted", i, bit)

			// Flips past the header that leave D-Len intact must be
			// caught by the checksum specifically.
			if i > 2 {
				require.ErrorIsf(t, err, ErrChecksum, "flip byte %d bit %d", i, bit)
			}
		}
	}
}
