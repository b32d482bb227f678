package encoding

import (
	"math"
	"testing"
	"time"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	t.Run("Int", func(t *testing.T) {
		v := NewValue(format.TypeI16, int16(-7))

		n, ok := v.Int64()
		require.True(t, ok)
		require.Equal(t, int64(-7), n)

		_, ok = v.Uint64()
		require.False(t, ok)

		f, ok := v.Float64()
		require.True(t, ok)
		require.InDelta(t, -7.0, f, 0)
	})

	t.Run("LargeUint64", func(t *testing.T) {
		v := NewValue(format.TypeU64, uint64(math.MaxUint64))

		_, ok := v.Int64()
		require.False(t, ok)

		u, ok := v.Uint64()
		require.True(t, ok)
		require.Equal(t, uint64(math.MaxUint64), u)
	})

	t.Run("String", func(t *testing.T) {
		v := NewValue(format.TypeString, "V")
		s, ok := v.Str()
		require.True(t, ok)
		require.Equal(t, "V", s)
		require.Equal(t, "V", v.String())

		_, ok = v.Int64()
		require.False(t, ok)
	})

	t.Run("Timestamp", func(t *testing.T) {
		ts := Timestamp{Seconds: 3_000_000_000}
		v := NewValue(format.TypeTimeStamp, ts)

		got, ok := v.Timestamp()
		require.True(t, ok)
		require.Equal(t, ts, got)

		tm, ok := v.Time()
		require.True(t, ok)
		require.Equal(t, ts.Time(), tm)
	})

	t.Run("Complex", func(t *testing.T) {
		v := NewValue(format.TypeComplexSingleFloat, complex64(complex(1, -2)))
		c, ok := v.Complex128()
		require.True(t, ok)
		require.Equal(t, complex(1, -2), c)
	})
}

func TestValueEqual(t *testing.T) {
	require.True(t, NewValue(format.TypeI32, int32(5)).Equal(NewValue(format.TypeI32, int32(5))))
	require.False(t, NewValue(format.TypeI32, int32(5)).Equal(NewValue(format.TypeI64, int64(5))))
	require.False(t, NewValue(format.TypeI32, int32(5)).Equal(NewValue(format.TypeI32, int32(6))))
}

func TestAs(t *testing.T) {
	t.Run("Direct", func(t *testing.T) {
		got, err := As[int32](NewValue(format.TypeI32, int32(42)))
		require.NoError(t, err)
		require.Equal(t, int32(42), got)
	})

	t.Run("IntWidening", func(t *testing.T) {
		got, err := As[int64](NewValue(format.TypeU8, uint8(200)))
		require.NoError(t, err)
		require.Equal(t, int64(200), got)

		f, err := As[float64](NewValue(format.TypeI32, int32(-3)))
		require.NoError(t, err)
		require.InDelta(t, -3.0, f, 0)
	})

	t.Run("IntOverflow", func(t *testing.T) {
		_, err := As[int8](NewValue(format.TypeI32, int32(300)))
		require.ErrorIs(t, err, errs.ErrTypeMismatch)

		_, err = As[uint16](NewValue(format.TypeI16, int16(-1)))
		require.ErrorIs(t, err, errs.ErrTypeMismatch)
	})

	t.Run("FloatIntoIntRejected", func(t *testing.T) {
		_, err := As[int64](NewValue(format.TypeDoubleFloat, 1.5))
		require.ErrorIs(t, err, errs.ErrTypeMismatch)
	})

	t.Run("StringMismatch", func(t *testing.T) {
		_, err := As[string](NewValue(format.TypeI32, int32(1)))
		require.ErrorIs(t, err, errs.ErrTypeMismatch)
	})

	t.Run("Time", func(t *testing.T) {
		ts := TimestampFromTime(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))
		tm, err := As[time.Time](NewValue(format.TypeTimeStamp, ts))
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), tm)
	})
}
