package encoding

import (
	"testing"
	"time"

	"github.com/arloliu/tdms/endian"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Time(t *testing.T) {
	t.Run("Epoch", func(t *testing.T) {
		require.Equal(t, time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC), Timestamp{}.Time())
		require.True(t, Timestamp{}.IsZero())
	})

	t.Run("HalfSecond", func(t *testing.T) {
		ts := Timestamp{Seconds: 1, Fraction: 1 << 63}
		require.Equal(t, time.Date(1904, 1, 1, 0, 0, 1, 500_000_000, time.UTC), ts.Time())
	})

	t.Run("BeforeEpoch", func(t *testing.T) {
		ts := Timestamp{Seconds: -86400}
		require.Equal(t, time.Date(1903, 12, 31, 0, 0, 0, 0, time.UTC), ts.Time())
	})
}

func TestTimestampFromTime(t *testing.T) {
	for _, tm := range []time.Time{
		time.Date(2023, 11, 2, 13, 45, 10, 123_456_789, time.UTC),
		time.Date(1904, 1, 1, 0, 0, 0, 1, time.UTC),
		time.Date(2100, 1, 1, 0, 0, 0, 999_999_999, time.UTC),
	} {
		require.Equal(t, tm, TimestampFromTime(tm).Time(), tm.String())
	}
}

func TestDecodeTimestamp(t *testing.T) {
	ts := Timestamp{Seconds: 3_700_000_000, Fraction: 0x8000_0000_0000_0001}

	t.Run("LittleEndianFractionFirst", func(t *testing.T) {
		engine := endian.GetLittleEndianEngine()
		raw := AppendTimestamp(nil, ts, engine)
		require.Len(t, raw, TimestampSize)
		require.Equal(t, ts.Fraction, engine.Uint64(raw[0:8]))
		require.Equal(t, ts, DecodeTimestamp(raw, engine))
	})

	t.Run("BigEndianSecondsFirst", func(t *testing.T) {
		engine := endian.GetBigEndianEngine()
		raw := AppendTimestamp(nil, ts, engine)
		require.Equal(t, uint64(ts.Seconds), engine.Uint64(raw[0:8]))
		require.Equal(t, ts, DecodeTimestamp(raw, engine))
	})
}
