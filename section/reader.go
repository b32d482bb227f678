package section

import (
	"fmt"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// metaReader is a bounds-checked cursor over a metadata block.
// The first failing read latches its error; later reads return zero values.
type metaReader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
	err    error
}

func (r *metaReader) fail(msg string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: at metadata byte %d: %s", errs.ErrCorruptMetadata, r.pos, fmt.Sprintf(msg, args...))
	}
}

func (r *metaReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}

	if n < 0 || len(r.data)-r.pos < n {
		r.fail("need %d bytes, %d left", n, len(r.data)-r.pos)
		return nil
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b
}

func (r *metaReader) uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}

	return r.engine.Uint32(b)
}

func (r *metaReader) uint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}

	return r.engine.Uint64(b)
}

// string reads a uint32 length-prefixed UTF-8 string.
func (r *metaReader) string() string {
	n := r.uint32()
	if r.err != nil {
		return ""
	}

	if n > maxPathOrStringLength {
		r.fail("string length %d too large", n)
		return ""
	}

	return string(r.take(int(n)))
}

// value reads one property value of type dt.
func (r *metaReader) value(dt format.DataType) encoding.Value {
	if r.err != nil {
		return encoding.Value{}
	}

	if dt == format.TypeString {
		return encoding.NewValue(dt, r.string())
	}

	if !dt.Supported() {
		if r.err == nil {
			r.err = fmt.Errorf("%w: property of type %s", errs.ErrUnsupportedType, dt.Name())
		}

		return encoding.Value{}
	}

	size, _ := dt.Size()
	b := r.take(size)
	if b == nil {
		return encoding.Value{}
	}

	v, err := encoding.Decode(dt, b, r.engine)
	if err != nil && r.err == nil {
		r.err = err
	}

	return v
}

func (r *metaReader) remaining() int {
	return len(r.data) - r.pos
}
