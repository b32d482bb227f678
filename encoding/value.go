package encoding

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Value is one decoded TDMS value together with its data type.
//
// The dynamic type of the held value depends on the data type:
//   - integers: int8, int16, int32, int64, uint8, uint16, uint32, uint64
//   - floats: float32, float64
//   - TypeBoolean: bool
//   - TypeString: string
//   - TypeTimeStamp: Timestamp
//   - complex types: complex64, complex128
//   - TypeVoid: nil
type Value struct {
	typ format.DataType
	v   any
}

// NewValue pairs a Go value with its TDMS data type.
// It is meant for tests and builders; Decode is the normal way to obtain a Value.
func NewValue(typ format.DataType, v any) Value {
	return Value{typ: typ, v: v}
}

// Type returns the TDMS data type of the value.
func (v Value) Type() format.DataType { return v.typ }

// Interface returns the held Go value.
func (v Value) Interface() any { return v.v }

// Int64 returns the value as an int64 for every integer type.
// Unsigned 64-bit values above math.MaxInt64 report false.
func (v Value) Int64() (int64, bool) {
	switch x := v.v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}

		return int64(x), true
	default:
		return 0, false
	}
}

// Uint64 returns the value as a uint64 for every non-negative integer.
func (v Value) Uint64() (uint64, bool) {
	if x, ok := v.v.(uint64); ok {
		return x, true
	}

	n, ok := v.Int64()
	if !ok || n < 0 {
		return 0, false
	}

	return uint64(n), true
}

// Float64 returns the value as a float64 for every integer and float type.
func (v Value) Float64() (float64, bool) {
	switch x := v.v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case uint64:
		return float64(x), true
	}

	if n, ok := v.Int64(); ok {
		return float64(n), true
	}

	return 0, false
}

// Bool returns the value of a TypeBoolean value.
func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

// Str returns the value of a TypeString value.
func (v Value) Str() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

// Timestamp returns the value of a TypeTimeStamp value.
func (v Value) Timestamp() (Timestamp, bool) {
	ts, ok := v.v.(Timestamp)
	return ts, ok
}

// Time returns a TypeTimeStamp value as a UTC time.Time.
func (v Value) Time() (time.Time, bool) {
	ts, ok := v.v.(Timestamp)
	if !ok {
		return time.Time{}, false
	}

	return ts.Time(), true
}

// Complex128 returns the value for both complex types.
func (v Value) Complex128() (complex128, bool) {
	switch x := v.v.(type) {
	case complex64:
		return complex128(x), true
	case complex128:
		return x, true
	default:
		return 0, false
	}
}

// Equal reports whether two values have the same type and the same content.
func (v Value) Equal(o Value) bool {
	return v.typ == o.typ && v.v == o.v
}

// String formats the value for listings.
func (v Value) String() string {
	switch x := v.v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case Timestamp:
		return x.Time().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// Scalar is the set of Go types a TDMS value can be extracted as with As.
type Scalar interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64 |
		bool | string |
		complex64 | complex128 |
		Timestamp | time.Time
}

// As extracts v as a T.
//
// Numeric targets accept any numeric source whose value converts without
// changing type family: integers into any integer or float type, floats into
// float types only. time.Time accepts timestamps.
//
// Returns:
//   - T: the converted value
//   - error: ErrTypeMismatch when v cannot be represented as T
func As[T Scalar](v Value) (T, error) {
	var zero T

	if direct, ok := v.v.(T); ok {
		return direct, nil
	}

	var out any
	switch any(zero).(type) {
	case int8, int16, int32, int64, uint8, uint16, uint32, uint64:
		out = convertInt[T](v)
	case float32:
		if f, ok := v.Float64(); ok {
			out = float32(f)
		}
	case float64:
		if f, ok := v.Float64(); ok {
			out = f
		}
	case complex128:
		if c, ok := v.Complex128(); ok {
			out = c
		}
	case time.Time:
		if tm, ok := v.Time(); ok {
			out = tm
		}
	}

	if t, ok := out.(T); ok {
		return t, nil
	}

	return zero, fmt.Errorf("%w: cannot read %s value as %T", errs.ErrTypeMismatch, v.typ, zero)
}

func convertInt[T Scalar](v Value) any {
	var zero T

	if u, ok := v.v.(uint64); ok {
		switch any(zero).(type) {
		case uint64:
			return u
		case int64:
			if u <= math.MaxInt64 {
				return int64(u)
			}
		}

		return nil
	}

	n, ok := v.Int64()
	if !ok {
		return nil
	}

	switch any(zero).(type) {
	case int8:
		if n >= math.MinInt8 && n <= math.MaxInt8 {
			return int8(n)
		}
	case int16:
		if n >= math.MinInt16 && n <= math.MaxInt16 {
			return int16(n)
		}
	case int32:
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n)
		}
	case int64:
		return n
	case uint8:
		if n >= 0 && n <= math.MaxUint8 {
			return uint8(n)
		}
	case uint16:
		if n >= 0 && n <= math.MaxUint16 {
			return uint16(n)
		}
	case uint32:
		if n >= 0 && n <= math.MaxUint32 {
			return uint32(n)
		}
	case uint64:
		if n >= 0 {
			return uint64(n)
		}
	}

	return nil
}
