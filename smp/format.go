package smp

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Value holds one decoded wire field. The dynamic type is uint8,
// uint16, uint32, int16, int32, float32 or []byte, depending on the
// Field that produced it.
type Value any

// fieldKind enumerates the fixed-width field types the protocol uses.
// All multi-byte fields are little-endian on the wire.
type fieldKind int

const (
	kindUint8 fieldKind = iota
	kindUint16
	kindUint32
	kindInt16
	kindInt32
	kindFloat32
	kindBytes
)

// Field describes one field of a wire format.
type Field struct {
	kind fieldKind
	size int
}

// Predefined numeric fields.
var (
	Uint8Field   = Field{kind: kindUint8, size: 1}
	Uint16Field  = Field{kind: kindUint16, size: 2}
	Uint32Field  = Field{kind: kindUint32, size: 4}
	Int16Field   = Field{kind: kindInt16, size: 2}
	Int32Field   = Field{kind: kindInt32, size: 4}
	Float32Field = Field{kind: kindFloat32, size: 4}
)

// BytesField describes a fixed-length byte-string field of n bytes.
func BytesField(n int) Field {
	return Field{kind: kindBytes, size: n}
}

// Format is an ordered sequence of fixed-width fields describing a
// command payload or response payload.
type Format []Field

// Size returns the total wire size of the format in bytes.
func (f Format) Size() int {
	size := 0
	for _, field := range f {
		size += field.size
	}

	return size
}

// Pack serializes values per the format. Integer fields accept their
// exact Go type or a plain int; float fields accept float32 or
// float64; byte-string fields accept a []byte of exactly the declared
// length (shorter slices are zero-padded, like fixed-width strings).
func (f Format) Pack(values ...Value) ([]byte, error) {
	if len(values) != len(f) {
		return nil, fmt.Errorf("smp: pack: %d values for %d fields", len(values), len(f))
	}

	buf := make([]byte, 0, f.Size())

	for i, field := range f {
		var err error

		buf, err = field.append(buf, values[i])
		if err != nil {
			return nil, fmt.Errorf("smp: pack field %d: %w", i, err)
		}
	}

	return buf, nil
}

// Unpack decodes data per the format. It returns ErrPayloadSize if
// len(data) does not equal the format's size.
func (f Format) Unpack(data []byte) ([]Value, error) {
	if len(data) != f.Size() {
		return nil, fmt.Errorf("%w: %d bytes instead of %d",
			ErrPayloadSize, len(data), f.Size())
	}

	values := make([]Value, 0, len(f))

	for _, field := range f {
		values = append(values, field.decode(data[:field.size]))
		data = data[field.size:]
	}

	return values, nil
}

func (field Field) append(buf []byte, v Value) ([]byte, error) {
	switch field.kind {
	case kindUint8:
		n, err := toUint64(v, math.MaxUint8)
		if err != nil {
			return nil, err
		}

		return append(buf, byte(n)), nil

	case kindUint16:
		n, err := toUint64(v, math.MaxUint16)
		if err != nil {
			return nil, err
		}

		return binary.LittleEndian.AppendUint16(buf, uint16(n)), nil

	case kindUint32:
		n, err := toUint64(v, math.MaxUint32)
		if err != nil {
			return nil, err
		}

		return binary.LittleEndian.AppendUint32(buf, uint32(n)), nil

	case kindInt16:
		n, err := toInt64(v, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, err
		}

		return binary.LittleEndian.AppendUint16(buf, uint16(int16(n))), nil

	case kindInt32:
		n, err := toInt64(v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}

		return binary.LittleEndian.AppendUint32(buf, uint32(int32(n))), nil

	case kindFloat32:
		var f float32
		switch x := v.(type) {
		case float32:
			f = x
		case float64:
			f = float32(x)
		default:
			return nil, fmt.Errorf("value %v (%T) is not a float", v, v)
		}

		return binary.LittleEndian.AppendUint32(buf, math.Float32bits(f)), nil

	case kindBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("value %v (%T) is not a byte string", v, v)
		}
		if len(b) > field.size {
			return nil, fmt.Errorf("byte string length %d exceeds field size %d",
				len(b), field.size)
		}

		buf = append(buf, b...)
		for i := len(b); i < field.size; i++ {
			buf = append(buf, 0)
		}

		return buf, nil

	default:
		return nil, fmt.Errorf("unknown field kind %d", field.kind)
	}
}

func (field Field) decode(data []byte) Value {
	switch field.kind {
	case kindUint8:
		return data[0]
	case kindUint16:
		return binary.LittleEndian.Uint16(data)
	case kindUint32:
		return binary.LittleEndian.Uint32(data)
	case kindInt16:
		return int16(binary.LittleEndian.Uint16(data))
	case kindInt32:
		return int32(binary.LittleEndian.Uint32(data))
	case kindFloat32:
		return math.Float32frombits(binary.LittleEndian.Uint32(data))
	default: // kindBytes
		b := make([]byte, field.size)
		copy(b, data)

		return b
	}
}

func toUint64(v Value, maxVal uint64) (uint64, error) {
	var n uint64
	switch x := v.(type) {
	case uint8:
		n = uint64(x)
	case uint16:
		n = uint64(x)
	case uint32:
		n = uint64(x)
	case uint64:
		n = x
	case int:
		if x < 0 {
			return 0, fmt.Errorf("value %d is negative", x)
		}
		n = uint64(x)
	default:
		return 0, fmt.Errorf("value %v (%T) is not an unsigned integer", v, v)
	}

	if n > maxVal {
		return 0, fmt.Errorf("value %d exceeds field range %d", n, maxVal)
	}

	return n, nil
}

func toInt64(v Value, minVal, maxVal int64) (int64, error) {
	var n int64
	switch x := v.(type) {
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case int:
		n = int64(x)
	default:
		return 0, fmt.Errorf("value %v (%T) is not a signed integer", v, v)
	}

	if n < minVal || n > maxVal {
		return 0, fmt.Errorf("value %d outside field range [%d, %d]", n, minVal, maxVal)
	}

	return n, nil
}

// PackFloat32 packs values as consecutive little-endian float32
// fields. It is the common case for motion command parameters.
func PackFloat32(values ...float32) []byte {
	buf := make([]byte, 0, 4*len(values))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}

	return buf
}

// UnpackFloat32 decodes a single little-endian float32 payload.
func UnpackFloat32(data []byte) (float32, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("%w: %d bytes instead of 4", ErrPayloadSize, len(data))
	}

	return math.Float32frombits(binary.LittleEndian.Uint32(data)), nil
}
