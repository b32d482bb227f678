package extract

import "github.com/arloliu/tdms/registry"

// run is a sequence of values that one read window covers. Contiguous runs
// have stride == width; interleaved runs have the row stride.
type run struct {
	off       int64
	n         uint64
	stride    int64
	bigEndian bool
}

func (r run) contiguous(width int) bool { return r.stride == int64(width) }

// plan maps the logical values [start, start+count) of obj onto runs.
// The range must already be checked.
func plan(obj *registry.Object, start, count uint64) []run {
	if count == 0 {
		return nil
	}

	c, local, _ := obj.Layout.Locate(start)
	width, _ := obj.DataType.Size()

	var runs []run
	for remaining := count; remaining > 0; c++ {
		span := obj.Layout.At(c).Span

		for local < span.Values && remaining > 0 {
			var r run

			if span.Interleaved {
				k := min(span.Values-local, remaining)
				r = run{
					off:    span.First + int64(local)*span.RowStride, //nolint:gosec
					n:      k,
					stride: span.RowStride,
				}
			} else {
				chunk, within := local/span.PerChunk, local%span.PerChunk
				k := min(span.PerChunk-within, span.Values-local, remaining)
				r = run{
					off:    span.First + int64(chunk)*span.ChunkStride + int64(within)*int64(width), //nolint:gosec
					n:      k,
					stride: int64(width),
				}
			}

			r.bigEndian = span.BigEndian
			runs = appendRun(runs, r, width)

			local += r.n
			remaining -= r.n
		}

		local = 0
	}

	return runs
}

// appendRun merges r into the last run when both are contiguous and r starts
// where the last one ends.
func appendRun(runs []run, r run, width int) []run {
	if n := len(runs); n > 0 {
		last := &runs[n-1]
		if last.contiguous(width) && r.contiguous(width) && last.bigEndian == r.bigEndian &&
			last.off+int64(last.n)*int64(width) == r.off { //nolint:gosec
			last.n += r.n
			return runs
		}
	}

	return append(runs, r)
}
