package extract

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/pool"
	"github.com/arloliu/tdms/registry"
	"github.com/arloliu/tdms/segment"
)

// ReadStrings reads count strings of a string channel starting at logical
// index start.
//
// Each chunk of a string channel starts with a table of cumulative end offsets
// followed by the string bytes. The table is resolved once per chunk and
// cached; only the bytes of the requested strings are read.
func (x *Extractor) ReadStrings(obj *registry.Object, start, count uint64) ([]string, error) {
	defer x.observe("strings", time.Now())

	if obj.DataType != format.TypeString {
		return nil, fmt.Errorf("%w: %q holds %s, not strings", errs.ErrTypeMismatch, obj.Path, obj.DataType.Name())
	}

	if err := checkRange(obj, start, count); err != nil {
		return nil, err
	}

	out := make([]string, 0, count)
	if count == 0 {
		return out, nil
	}

	buf := pool.GetRunBuffer()
	defer pool.PutRunBuffer(buf)

	c, local, _ := obj.Layout.Locate(start)
	for remaining := count; remaining > 0; c++ {
		span := obj.Layout.At(c).Span

		for local < span.Values && remaining > 0 {
			chunk, within := local/span.PerChunk, local%span.PerChunk
			k := min(span.PerChunk-within, span.Values-local, remaining)

			base := span.First + int64(chunk)*span.ChunkStride //nolint:gosec
			index, err := x.stringIndex(base, span)
			if err != nil {
				return nil, err
			}

			first, n := int(within), int(k) //nolint:gosec
			lo, hi := index.Span(first, n)
			payload := base + int64(span.PerChunk)*encoding.StringOffsetSize + int64(lo) //nolint:gosec

			window := buf.Resize(int(hi - lo))
			if err := x.readAt(window, payload); err != nil {
				return nil, err
			}

			out = index.Slice(window, lo, first, n, out)

			local += k
			remaining -= k
		}

		local = 0
	}

	return out, nil
}

// stringIndex returns the offset table of the string chunk starting at base.
// Concurrent misses for the same chunk share one read.
func (x *Extractor) stringIndex(base int64, span segment.Span) (encoding.StringIndex, error) {
	if x.strings != nil {
		if index, ok := x.strings.Get(base); ok {
			x.metrics.StringIndexLookup(true)
			return index, nil
		}

		x.metrics.StringIndexLookup(false)
	}

	v, err, _ := x.loads.Do(strconv.FormatInt(base, 10), func() (any, error) {
		tableSize := span.PerChunk * encoding.StringOffsetSize
		table := make([]byte, tableSize)
		if err := x.readAt(table, base); err != nil {
			return nil, err
		}

		engine := endian.GetLittleEndianEngine()
		if span.BigEndian {
			engine = endian.GetBigEndianEngine()
		}

		index, err := encoding.DecodeStringIndex(table, int(span.PerChunk), span.ChunkBytes-tableSize, engine) //nolint:gosec
		if err != nil {
			return nil, fmt.Errorf("string chunk at %d of %q: %w", base, span.Path, err)
		}

		if x.strings != nil {
			x.strings.Add(base, index)
		}

		return index, nil
	})
	if err != nil {
		return encoding.StringIndex{}, err
	}

	index, _ := v.(encoding.StringIndex)

	return index, nil
}
