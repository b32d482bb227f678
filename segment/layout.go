package segment

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/arloliu/tdms/errs"
)

// layout computes the chunk structure and one Span per data-bearing object.
func (d *Delta) layout() error {
	toc := d.LeadIn.ToC
	if !toc.HasRawData() {
		d.RawSize = 0
		return nil
	}

	var data []Entry
	for _, e := range d.Objects {
		if e.HasData {
			data = append(data, e)
		}
	}

	for _, e := range data {
		size, ok := addSize(d.ChunkSize, e.Index.ChunkBytes())
		if !ok {
			return fmt.Errorf("%w: chunk size of segment %d overflows at %q",
				errs.ErrCorruptMetadata, d.Ordinal, e.Path)
		}
		d.ChunkSize = size
	}

	if d.ChunkSize == 0 {
		return nil
	}

	d.Chunks = d.RawSize / d.ChunkSize
	rem := d.RawSize % d.ChunkSize
	if rem != 0 {
		if !d.Final {
			return fmt.Errorf("%w: raw data of %d bytes is not a whole number of %d-byte chunks",
				errs.ErrTruncatedFile, d.RawSize, d.ChunkSize)
		}

		d.Truncated = true
	}

	if toc.IsInterleaved() {
		return d.interleavedSpans(data, rem)
	}

	return d.contiguousSpans(data, rem)
}

// addSize adds two byte sizes and reports false when the sum leaves the
// int64 range of file offsets.
func addSize(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0 && sum <= math.MaxInt64
}

// mulCount multiplies a chunk count by a per-chunk value count and reports
// false on overflow.
func mulCount(chunks, perChunk uint64) (uint64, bool) {
	hi, lo := bits.Mul64(chunks, perChunk)
	return lo, hi == 0
}

func (d *Delta) contiguousSpans(data []Entry, rem uint64) error {
	bigEndian := d.LeadIn.ToC.IsBigEndian()

	var within uint64
	for _, e := range data {
		size := e.Index.ChunkBytes()
		width, _ := e.Index.DataType.Size()

		values, ok := mulCount(d.Chunks, e.Index.NumValues)
		if !ok {
			return fmt.Errorf("%w: %d chunks of %d values of %q overflow",
				errs.ErrCorruptMetadata, d.Chunks, e.Index.NumValues, e.Path)
		}

		s := Span{
			Path:        e.Path,
			DataType:    e.Index.DataType,
			Width:       width,
			PerChunk:    e.Index.NumValues,
			Chunks:      d.Chunks,
			Values:      values,
			First:       d.RawStart + int64(within), //nolint:gosec
			ChunkStride: int64(d.ChunkSize),       //nolint:gosec
			ChunkBytes:  size,
			BigEndian:   bigEndian,
		}

		// values of the trailing partial chunk that made it to disk
		if rem > within {
			var partial uint64
			switch {
			case e.Index.DataType.IsVariableWidth():
				if rem-within >= size {
					partial = e.Index.NumValues
				}
			case width > 0:
				partial = min((rem-within)/uint64(width), e.Index.NumValues)
			}

			if partial > 0 {
				s.Values += partial
				s.Chunks++
			}
		}

		within += size

		if s.Values > 0 {
			d.Spans = append(d.Spans, s)
		}
	}

	return nil
}

func (d *Delta) interleavedSpans(data []Entry, rem uint64) error {
	bigEndian := d.LeadIn.ToC.IsBigEndian()
	count := data[0].Index.NumValues

	var row int64
	for _, e := range data {
		if e.Index.DataType.IsVariableWidth() {
			return fmt.Errorf("%w: %s channel %q in interleaved segment",
				errs.ErrCorruptMetadata, e.Index.DataType.Name(), e.Path)
		}

		if e.Index.NumValues != count {
			return fmt.Errorf("%w: interleaved channels with %d and %d values per chunk",
				errs.ErrCorruptMetadata, count, e.Index.NumValues)
		}

		width, _ := e.Index.DataType.Size()
		row += int64(width)
	}

	if row == 0 {
		return nil
	}

	// chunks of an interleaved segment follow each other as more rows
	full, ok := mulCount(d.Chunks, count)
	if !ok {
		return fmt.Errorf("%w: %d chunks of %d interleaved rows overflow",
			errs.ErrCorruptMetadata, d.Chunks, count)
	}
	rows := full + rem/uint64(row)

	var offset int64
	for _, e := range data {
		width, _ := e.Index.DataType.Size()

		if rows > 0 {
			d.Spans = append(d.Spans, Span{
				Path:        e.Path,
				DataType:    e.Index.DataType,
				Width:       width,
				Values:      rows,
				PerChunk:    count,
				Chunks:      (rows + count - 1) / count,
				First:       d.RawStart + offset,
				ChunkStride: int64(d.ChunkSize), //nolint:gosec
				ChunkBytes:  e.Index.ChunkBytes(),
				Interleaved: true,
				RowStride:   row,
				BigEndian:   bigEndian,
			})
		}

		offset += int64(width)
	}

	return nil
}
