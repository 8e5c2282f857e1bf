package smp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "empty",
			data:     nil,
			expected: 0x0000,
		},
		{
			name:     "ASCII digits",
			data:     []byte("123456789"),
			expected: 0xBB3D,
		},
		{
			name:     "move pos envelope",
			data:     []byte{0x05, 0x0B, 0x05, 0xB0, 0x00, 0x00, 0x20, 0x41},
			expected: 0x80E2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Checksum(tt.data))
		})
	}
}

func TestChecksum_Deterministic(t *testing.T) {
	data := []byte{0x05, 0x0B, 0x01, 0x92}
	assert.Equal(t, Checksum(data), Checksum(data))
}

func TestChecksum_Incremental(t *testing.T) {
	// Checksum(a+b) must equal folding ChecksumStep over b starting
	// from Checksum(a), for arbitrary split points.
	data := []byte{0x05, 0x0B, 0x05, 0xB0, 0x00, 0x00, 0x20, 0x41, 0xFF, 0x00, 0x7E}

	whole := Checksum(data)

	for split := 0; split <= len(data); split++ {
		acc := Checksum(data[:split])
		for _, b := range data[split:] {
			acc = ChecksumStep(acc, b)
		}

		assert.Equalf(t, whole, acc, "split at %d", split)
	}
}

func TestAppendChecksum_LittleEndian(t *testing.T) {
	data := []byte{0x05, 0x0B, 0x05, 0xB0, 0x00, 0x00, 0x20, 0x41}

	out := AppendChecksum(append([]byte(nil), data...))
	require.Len(t, out, len(data)+ChecksumSize)

	// 0x80E2 on the wire is E2 80.
	assert.Equal(t, byte(0xE2), out[len(out)-2])
	assert.Equal(t, byte(0x80), out[len(out)-1])
}

func TestChecksum_TableNotAGenericCRC16(t *testing.T) {
	// The first few table entries are fixed by the manual. If anyone
	// swaps in a generated table, this catches it.
	require.Equal(t, uint16(0x0000), crc16Table[0])
	require.Equal(t, uint16(0xC0C1), crc16Table[1])
	require.Equal(t, uint16(0xC181), crc16Table[2])
	require.Equal(t, uint16(0x4040), crc16Table[255])
}
