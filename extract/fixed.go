package extract

import (
	"fmt"
	"time"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/internal/pool"
	"github.com/arloliu/tdms/registry"
)

// ReadInto copies count values of obj, starting at logical index start, into
// dst in little-endian layout.
//
// Only fixed-width types can be copied. Timestamps are written as fraction
// then seconds, complex values as real then imaginary part.
//
// Parameters:
//   - obj: channel to read
//   - start: logical index of the first value
//   - count: number of values
//   - dst: destination, at least count times the element width
//
// Returns:
//   - int: number of bytes written
//   - error: ErrOutOfRange when the range exceeds the object or dst is short,
//     ErrTypeMismatch for string channels, ErrIO when the source fails
func (x *Extractor) ReadInto(obj *registry.Object, start, count uint64, dst []byte) (int, error) {
	defer x.observe("bytes", time.Now())

	if obj.DataType.IsVariableWidth() {
		return 0, fmt.Errorf("%w: %q holds strings, which have no fixed width", errs.ErrTypeMismatch, obj.Path)
	}

	if err := checkRange(obj, start, count); err != nil {
		return 0, err
	}

	width, _ := obj.DataType.Size()
	size, err := byteLen(count, width)
	if err != nil {
		return 0, err
	}

	if len(dst) < size {
		return 0, fmt.Errorf("%w: buffer of %d bytes cannot hold %d values of %d bytes",
			errs.ErrOutOfRange, len(dst), count, width)
	}

	pos := 0
	for _, r := range plan(obj, start, count) {
		n := int(r.n) * width //nolint:gosec
		out := dst[pos : pos+n]

		if r.contiguous(width) {
			err = x.readContiguous(out, r.off)
		} else {
			err = x.gather(out, r, width)
		}

		if err != nil {
			return pos, err
		}

		if r.bigEndian {
			encoding.Canonicalize(obj.DataType, out, endian.GetBigEndianEngine())
		}

		pos += n
	}

	return pos, nil
}

// readContiguous fills out from off in reads of at most maxRead bytes.
func (x *Extractor) readContiguous(out []byte, off int64) error {
	for len(out) > 0 {
		n := min(len(out), x.maxRead)
		if err := x.readAt(out[:n], off); err != nil {
			return err
		}

		out = out[n:]
		off += int64(n)
	}

	return nil
}

// gather copies width bytes out of every row of an interleaved run. Rows are
// fetched in windows of at most maxRead bytes, and at least one row.
func (x *Extractor) gather(out []byte, r run, width int) error {
	buf := pool.GetRunBuffer()
	defer pool.PutRunBuffer(buf)

	stride := int(r.stride)
	batch := uint64(max(1, x.maxRead/stride)) //nolint:gosec

	off := r.off
	for rows := r.n; rows > 0; {
		k := min(rows, batch)
		window := buf.Resize((int(k)-1)*stride + width) //nolint:gosec

		if err := x.readAt(window, off); err != nil {
			return err
		}

		for i := range int(k) { //nolint:gosec
			copy(out[i*width:(i+1)*width], window[i*stride:])
		}

		out = out[int(k)*width:] //nolint:gosec
		off += int64(k) * r.stride //nolint:gosec
		rows -= k
	}

	return nil
}

// ReadRange decodes count values of obj starting at logical index start.
// String channels yield TypeString values.
func (x *Extractor) ReadRange(obj *registry.Object, start, count uint64) ([]encoding.Value, error) {
	if obj.DataType.IsVariableWidth() {
		strs, err := x.ReadStrings(obj, start, count)
		if err != nil {
			return nil, err
		}

		values := make([]encoding.Value, len(strs))
		for i, s := range strs {
			values[i] = encoding.NewValue(obj.DataType, s)
		}

		return values, nil
	}

	buf, err := x.readBytes(obj, start, count)
	if err != nil {
		return nil, err
	}
	defer pool.PutRunBuffer(buf)

	return encoding.DecodeValues(obj.DataType, buf.Bytes(), endian.GetLittleEndianEngine())
}

// readBytes reads the canonical bytes of a range into a pooled buffer.
func (x *Extractor) readBytes(obj *registry.Object, start, count uint64) (*pool.ByteBuffer, error) {
	if err := checkRange(obj, start, count); err != nil {
		return nil, err
	}

	width, _ := obj.DataType.Size()
	size, err := byteLen(count, width)
	if err != nil {
		return nil, err
	}

	buf := pool.GetRunBuffer()
	if _, err := x.ReadInto(obj, start, count, buf.Resize(size)); err != nil {
		pool.PutRunBuffer(buf)
		return nil, err
	}

	return buf, nil
}

// ReadAs decodes a range of obj as Go values of type T, with the conversions
// of encoding.As.
func ReadAs[T encoding.Scalar](x *Extractor, obj *registry.Object, start, count uint64) ([]T, error) {
	values, err := x.ReadRange(obj, start, count)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(values))
	for i, v := range values {
		if out[i], err = encoding.As[T](v); err != nil {
			return nil, fmt.Errorf("value %d of %q: %w", start+uint64(i), obj.Path, err) //nolint:gosec
		}
	}

	return out, nil
}

// ReadNumbers decodes a range of a numeric channel straight into a []T,
// skipping the intermediate encoding.Value representation.
func ReadNumbers[T encoding.Number](x *Extractor, obj *registry.Object, start, count uint64, dst []T) ([]T, error) {
	buf, err := x.readBytes(obj, start, count)
	if err != nil {
		return dst, err
	}
	defer pool.PutRunBuffer(buf)

	return encoding.DecodeNumbers(obj.DataType, buf.Bytes(), endian.GetLittleEndianEngine(), dst)
}
