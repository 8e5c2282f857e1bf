package smp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Size(t *testing.T) {
	// The communication self-test format: two float32, two int32,
	// two int16, 20 bytes total.
	f := Format{Float32Field, Float32Field, Int32Field, Int32Field, Int16Field, Int16Field}
	assert.Equal(t, 20, f.Size())

	// The module identification block: 8-byte string, u32, 3×u16,
	// 26-byte string, 44 bytes total.
	ident := Format{BytesField(8), Uint32Field, Uint16Field, Uint16Field, Uint16Field, BytesField(26)}
	assert.Equal(t, 44, ident.Size())
}

func TestFormat_PackUnpack(t *testing.T) {
	f := Format{Float32Field, Uint8Field, Uint16Field, Int32Field, Int16Field}

	data, err := f.Pack(float32(10.0), uint8(0x07), uint16(9600), int32(-1122868), int16(-20482))
	require.NoError(t, err)
	require.Equal(t, f.Size(), len(data))

	values, err := f.Unpack(data)
	require.NoError(t, err)
	require.Len(t, values, 5)

	assert.Equal(t, float32(10.0), values[0])
	assert.Equal(t, uint8(0x07), values[1])
	assert.Equal(t, uint16(9600), values[2])
	assert.Equal(t, int32(-1122868), values[3])
	assert.Equal(t, int16(-20482), values[4])
}

func TestFormat_Pack_LittleEndian(t *testing.T) {
	data, err := Format{Float32Field}.Pack(float32(10.0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x20, 0x41}, data)

	data, err = Format{Uint16Field}.Pack(uint16(0x1234))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x34, 0x12}, data)
}

func TestFormat_Pack_PlainIntAndFloat64(t *testing.T) {
	// Callers commonly hold plain ints and float64s; both pack.
	data, err := Format{Uint8Field, Float32Field}.Pack(7, 10.0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x07, 0x00, 0x00, 0x20, 0x41}, data)
}

func TestFormat_Pack_RangeAndTypeErrors(t *testing.T) {
	_, err := Format{Uint8Field}.Pack(256)
	require.Error(t, err)

	_, err = Format{Uint8Field}.Pack(-1)
	require.Error(t, err)

	_, err = Format{Int16Field}.Pack(40000)
	require.Error(t, err)

	_, err = Format{Float32Field}.Pack("not a float")
	require.Error(t, err)

	_, err = Format{Uint8Field}.Pack()
	require.Error(t, err)
}

func TestFormat_Pack_BytesPadding(t *testing.T) {
	data, err := Format{BytesField(8)}.Pack([]byte("PR-70"))
	require.NoError(t, err)
	assert.Equal(t, []byte{'P', 'R', '-', '7', '0', 0, 0, 0}, data)

	_, err = Format{BytesField(4)}.Pack([]byte("too long"))
	require.Error(t, err)
}

func TestFormat_Unpack_SizeMismatch(t *testing.T) {
	f := Format{Float32Field, Uint8Field}

	_, err := f.Unpack([]byte{0x00, 0x00, 0x20})
	require.ErrorIs(t, err, ErrPayloadSize)

	_, err = f.Unpack(make([]byte, 6))
	require.ErrorIs(t, err, ErrPayloadSize)
}

func TestPackFloat32(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x00, 0x20, 0x41}, PackFloat32(10.0))
	assert.Equal(t,
		[]byte{0x00, 0x00, 0x20, 0x41, 0xCD, 0xCC, 0x04, 0x41},
		PackFloat32(10.0, 8.3))
	assert.Empty(t, PackFloat32())
}

func TestUnpackFloat32(t *testing.T) {
	v, err := UnpackFloat32([]byte{0xCD, 0xCC, 0x04, 0x41})
	require.NoError(t, err)
	assert.Equal(t, float32(8.3), v)

	_, err = UnpackFloat32([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrPayloadSize)
}
