package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Number is the set of Go types fixed-width numeric channels decode into.
type Number interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Decode decodes one fixed-width value of type dt from the front of b.
//
// Strings are variable width and are not decoded here; see DecodeStringIndex.
//
// Parameters:
//   - dt: data type of the value
//   - b: raw bytes, at least the width of dt
//   - engine: byte order of the segment the bytes belong to
//
// Returns:
//   - Value: the decoded value
//   - error: ErrUnsupportedType for types without a fixed-width decoder,
//     ErrCorruptMetadata when b is too short
func Decode(dt format.DataType, b []byte, engine endian.EndianEngine) (Value, error) {
	if !dt.Supported() || dt.IsVariableWidth() {
		return Value{}, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, dt.Name())
	}

	size, _ := dt.Size()
	if len(b) < size {
		return Value{}, fmt.Errorf("%w: %s needs %d bytes, have %d", errs.ErrCorruptMetadata, dt.Name(), size, len(b))
	}

	return Value{typ: dt, v: decodeFixed(dt, b, engine)}, nil
}

// decodeFixed assumes dt is a supported fixed-width type and b is long enough.
func decodeFixed(dt format.DataType, b []byte, engine endian.EndianEngine) any {
	switch dt {
	case format.TypeVoid:
		return nil
	case format.TypeI8:
		return int8(b[0])
	case format.TypeI16:
		return int16(engine.Uint16(b)) //nolint:gosec
	case format.TypeI32:
		return int32(engine.Uint32(b)) //nolint:gosec
	case format.TypeI64:
		return int64(engine.Uint64(b)) //nolint:gosec
	case format.TypeU8:
		return b[0]
	case format.TypeU16:
		return engine.Uint16(b)
	case format.TypeU32:
		return engine.Uint32(b)
	case format.TypeU64:
		return engine.Uint64(b)
	case format.TypeSingleFloat, format.TypeSingleFloatWithUnit:
		return math.Float32frombits(engine.Uint32(b))
	case format.TypeDoubleFloat, format.TypeDoubleFloatWithUnit:
		return math.Float64frombits(engine.Uint64(b))
	case format.TypeBoolean:
		return b[0] != 0
	case format.TypeTimeStamp:
		return DecodeTimestamp(b, engine)
	case format.TypeComplexSingleFloat:
		re := math.Float32frombits(engine.Uint32(b[0:4]))
		im := math.Float32frombits(engine.Uint32(b[4:8]))

		return complex(re, im)
	case format.TypeComplexDoubleFloat:
		re := math.Float64frombits(engine.Uint64(b[0:8]))
		im := math.Float64frombits(engine.Uint64(b[8:16]))

		return complex(re, im)
	default:
		return nil
	}
}

// DecodeValues decodes every whole element of type dt in b.
// A trailing partial element is ignored.
func DecodeValues(dt format.DataType, b []byte, engine endian.EndianEngine) ([]Value, error) {
	size, ok := dt.Size()
	if !ok || !dt.Supported() {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, dt.Name())
	}

	if size == 0 {
		return nil, nil
	}

	out := make([]Value, 0, len(b)/size)
	for off := 0; off+size <= len(b); off += size {
		out = append(out, Value{typ: dt, v: decodeFixed(dt, b[off:], engine)})
	}

	return out, nil
}

// DecodeNumbers decodes every whole element of numeric type dt in b into a []T.
//
// The element is decoded in its own type and then converted to T with a Go
// conversion, so a float64 target reads any integer channel exactly for values
// below 2^53. Boolean, timestamp and complex channels cannot be read this way.
//
// Parameters:
//   - dt: element type
//   - b: raw element bytes
//   - engine: byte order of the bytes
//   - dst: optional slice to append to
//
// Returns:
//   - []T: dst with the decoded elements appended
//   - error: ErrTypeMismatch when dt is not numeric
func DecodeNumbers[T Number](dt format.DataType, b []byte, engine endian.EndianEngine, dst []T) ([]T, error) {
	size, ok := dt.Size()
	if !ok || !isNumeric(dt) {
		return dst, fmt.Errorf("%w: %s is not a numeric type", errs.ErrTypeMismatch, dt.Name())
	}

	n := len(b) / size
	dst = growSlice(dst, n)

	switch dt {
	case format.TypeI8:
		for i := range n {
			dst = append(dst, T(int8(b[i])))
		}
	case format.TypeU8:
		for i := range n {
			dst = append(dst, T(b[i]))
		}
	case format.TypeI16:
		for i := range n {
			dst = append(dst, T(int16(engine.Uint16(b[i*2:])))) //nolint:gosec
		}
	case format.TypeU16:
		for i := range n {
			dst = append(dst, T(engine.Uint16(b[i*2:])))
		}
	case format.TypeI32:
		for i := range n {
			dst = append(dst, T(int32(engine.Uint32(b[i*4:])))) //nolint:gosec
		}
	case format.TypeU32:
		for i := range n {
			dst = append(dst, T(engine.Uint32(b[i*4:])))
		}
	case format.TypeI64:
		for i := range n {
			dst = append(dst, T(int64(engine.Uint64(b[i*8:])))) //nolint:gosec
		}
	case format.TypeU64:
		for i := range n {
			dst = append(dst, T(engine.Uint64(b[i*8:])))
		}
	case format.TypeSingleFloat, format.TypeSingleFloatWithUnit:
		for i := range n {
			dst = append(dst, T(math.Float32frombits(engine.Uint32(b[i*4:]))))
		}
	case format.TypeDoubleFloat, format.TypeDoubleFloatWithUnit:
		for i := range n {
			dst = append(dst, T(math.Float64frombits(engine.Uint64(b[i*8:]))))
		}
	}

	return dst, nil
}

func isNumeric(dt format.DataType) bool {
	switch dt {
	case format.TypeI8, format.TypeI16, format.TypeI32, format.TypeI64,
		format.TypeU8, format.TypeU16, format.TypeU32, format.TypeU64,
		format.TypeSingleFloat, format.TypeDoubleFloat,
		format.TypeSingleFloatWithUnit, format.TypeDoubleFloatWithUnit:
		return true
	default:
		return false
	}
}

func growSlice[T any](s []T, n int) []T {
	if cap(s)-len(s) >= n {
		return s
	}

	grown := make([]T, len(s), len(s)+n)
	copy(grown, s)

	return grown
}

// Canonicalize rewrites whole elements of type dt in buf from the given byte
// order into little-endian layout, in place. Little-endian input is left
// untouched.
//
// Timestamps are reversed as one 16-byte unit, which maps the big-endian
// (seconds, fraction) layout onto the little-endian (fraction, seconds) one.
// Complex values swap each component separately.
func Canonicalize(dt format.DataType, buf []byte, engine endian.EndianEngine) {
	if !endian.IsBigEndian(engine) {
		return
	}

	if part := dt.ComplexPart(); part > 0 {
		endian.SwapUnits(buf, part)
		return
	}

	size, ok := dt.Size()
	if !ok {
		return
	}

	endian.SwapUnits(buf, size)
}
