package encoding

import (
	"math/bits"
	"time"

	"github.com/arloliu/tdms/endian"
)

// epoch1904 is the LabVIEW epoch, 1904-01-01 00:00:00 UTC, in Unix seconds.
const epoch1904 = -2082844800

// TimestampSize is the wire width of a tdsTypeTimeStamp value.
const TimestampSize = 16

// Timestamp is a LabVIEW timestamp: whole seconds since 1904-01-01 UTC plus
// a positive fraction of a second in units of 2^-64 s.
type Timestamp struct {
	Seconds  int64
	Fraction uint64
}

// Time converts the timestamp to a UTC time.Time with nanosecond precision.
func (t Timestamp) Time() time.Time {
	// nanos = Fraction * 1e9 / 2^64, i.e. the high word of the 128-bit product.
	nanos, _ := bits.Mul64(t.Fraction, uint64(time.Second))

	return time.Unix(t.Seconds+epoch1904, int64(nanos)).UTC() //nolint:gosec
}

// IsZero reports whether the timestamp is the LabVIEW epoch itself.
func (t Timestamp) IsZero() bool {
	return t.Seconds == 0 && t.Fraction == 0
}

// MarshalText renders the timestamp as RFC 3339 with nanoseconds.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.Time().Format(time.RFC3339Nano)), nil
}

// TimestampFromTime converts a time.Time into a LabVIEW timestamp.
func TimestampFromTime(tm time.Time) Timestamp {
	secs := tm.Unix() - epoch1904
	nanos := uint64(tm.Nanosecond()) //nolint:gosec

	// Fraction = nanos * 2^64 / 1e9; rounded up so Time() maps back to the same nanosecond.
	frac, rem := bits.Div64(nanos, 0, uint64(time.Second))
	if rem != 0 {
		frac++
	}

	return Timestamp{Seconds: secs, Fraction: frac}
}

// DecodeTimestamp decodes 16 bytes in the segment's byte order.
// Little-endian segments store the fraction first, big-endian segments the seconds first.
func DecodeTimestamp(b []byte, engine endian.EndianEngine) Timestamp {
	if endian.IsBigEndian(engine) {
		return Timestamp{
			Seconds:  int64(engine.Uint64(b[0:8])), //nolint:gosec
			Fraction: engine.Uint64(b[8:16]),
		}
	}

	return Timestamp{
		Fraction: engine.Uint64(b[0:8]),
		Seconds:  int64(engine.Uint64(b[8:16])), //nolint:gosec
	}
}

// AppendTimestamp appends the wire form of ts in the engine's byte order.
func AppendTimestamp(dst []byte, ts Timestamp, engine endian.EndianEngine) []byte {
	if endian.IsBigEndian(engine) {
		dst = engine.AppendUint64(dst, uint64(ts.Seconds)) //nolint:gosec
		return engine.AppendUint64(dst, ts.Fraction)
	}

	dst = engine.AppendUint64(dst, ts.Fraction)

	return engine.AppendUint64(dst, uint64(ts.Seconds)) //nolint:gosec
}
