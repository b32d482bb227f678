package encoding

import (
	"fmt"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
)

// StringOffsetSize is the width of one entry in a string chunk's offset table.
const StringOffsetSize = 4

// StringIndex is the decoded offset table of one string chunk.
//
// ends[i] is the byte offset, relative to the start of the string payload, one
// past the last byte of value i. Value i therefore spans [ends[i-1], ends[i]),
// with ends[-1] taken as 0.
type StringIndex struct {
	ends []uint32
}

// DecodeStringIndex decodes the offset table of a chunk holding n strings.
//
// The table must be monotonically non-decreasing and its last entry must not
// exceed payloadSize, the number of string bytes following the table.
//
// Parameters:
//   - table: at least n*StringOffsetSize bytes
//   - n: number of strings in the chunk
//   - payloadSize: byte length of the string payload after the table
//   - engine: byte order of the segment
//
// Returns:
//   - StringIndex: the decoded table
//   - error: ErrCorruptMetadata if the table is short, decreasing or out of bounds
func DecodeStringIndex(table []byte, n int, payloadSize uint64, engine endian.EndianEngine) (StringIndex, error) {
	if n < 0 || len(table) < n*StringOffsetSize {
		return StringIndex{}, fmt.Errorf("%w: string offset table needs %d bytes, have %d",
			errs.ErrCorruptMetadata, n*StringOffsetSize, len(table))
	}

	ends := make([]uint32, n)
	prev := uint32(0)
	for i := range n {
		end := engine.Uint32(table[i*StringOffsetSize:])
		if end < prev {
			return StringIndex{}, fmt.Errorf("%w: string offset %d decreases (%d < %d)", errs.ErrCorruptMetadata, i, end, prev)
		}

		ends[i] = end
		prev = end
	}

	if uint64(prev) > payloadSize {
		return StringIndex{}, fmt.Errorf("%w: string offsets end at %d beyond payload of %d bytes",
			errs.ErrCorruptMetadata, prev, payloadSize)
	}

	return StringIndex{ends: ends}, nil
}

// Len returns the number of strings described by the index.
func (x StringIndex) Len() int { return len(x.ends) }

// Bounds returns the payload byte range of string i.
func (x StringIndex) Bounds(i int) (start, end uint32) {
	if i > 0 {
		start = x.ends[i-1]
	}

	return start, x.ends[i]
}

// Span returns the payload byte range covering strings [first, first+count).
func (x StringIndex) Span(first, count int) (start, end uint32) {
	if count == 0 {
		s, _ := x.Bounds(first)
		return s, s
	}

	start, _ = x.Bounds(first)
	_, end = x.Bounds(first + count - 1)

	return start, end
}

// PayloadSize returns the number of payload bytes used by all strings.
func (x StringIndex) PayloadSize() uint32 {
	if len(x.ends) == 0 {
		return 0
	}

	return x.ends[len(x.ends)-1]
}

// Slice cuts the strings [first, first+count) out of payload, which must start
// at byte offset base of the chunk payload.
//
// The bytes are copied into new strings; payload may be reused afterwards.
func (x StringIndex) Slice(payload []byte, base uint32, first, count int, dst []string) []string {
	for i := first; i < first+count; i++ {
		start, end := x.Bounds(i)
		dst = append(dst, string(payload[start-base:end-base]))
	}

	return dst
}
