// Package tdmstest builds TDMS byte images for tests.
//
// It is a minimal writer that knows nothing beyond what tests need: it emits
// lead-ins, metadata blocks and caller-supplied raw data bytes, and lets tests
// break any of them on purpose.
//
//	img := tdmstest.New().
//	    Segment(tdmstest.Segment{
//	        Objects: []tdmstest.Object{
//	            {Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeI32, 4)},
//	        },
//	        Raw: tdmstest.Pack(binary.LittleEndian, []int32{10, 20, 30, 40}),
//	    }).
//	    Bytes()
package tdmstest

import (
	"encoding/binary"
	"math"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/format"
)

const (
	leadInSize = 28
	version    = 4713

	tocMetaData    = 1 << 1
	tocNewObjList  = 1 << 2
	tocRawData     = 1 << 3
	tocInterleaved = 1 << 5
	tocBigEndian   = 1 << 6
)

// IndexKind selects which raw data index word an Object gets.
type IndexKind uint8

const (
	KindNone IndexKind = iota
	KindReuse
	KindInline
	KindRaw
)

// Index is the raw data index of one object description.
type Index struct {
	Kind      IndexKind
	Type      format.DataType
	Count     uint64
	TotalSize uint64
	Dimension uint32
	// Word is written verbatim for KindRaw.
	Word uint32
}

// NoData is the 0xFFFFFFFF index.
func NoData() Index { return Index{Kind: KindNone} }

// Reuse is the "same as previous" index.
func Reuse() Index { return Index{Kind: KindReuse} }

// Inline is a fixed-width index of count values per chunk.
func Inline(dt format.DataType, count uint64) Index {
	return Index{Kind: KindInline, Type: dt, Count: count, Dimension: 1}
}

// StringIndex is a string index of count values and totalSize bytes per chunk.
func StringIndex(count, totalSize uint64) Index {
	return Index{Kind: KindInline, Type: format.TypeString, Count: count, TotalSize: totalSize, Dimension: 1}
}

// RawWord writes only the given index word, e.g. a DAQmx marker.
func RawWord(word uint32) Index { return Index{Kind: KindRaw, Word: word} }

// Prop is one property of an object description.
type Prop struct {
	Name  string
	Value encoding.Value
}

// Object is one object description of a metadata block.
type Object struct {
	Path  string
	Index Index
	Props []Prop
}

// Segment describes one segment to append.
type Segment struct {
	// NoMetadata clears kTocMetaData; Objects is then ignored.
	NoMetadata bool
	// NewObjList sets kTocNewObjList.
	NewObjList  bool
	Interleaved bool
	BigEndian   bool
	Objects     []Object
	// Raw is written verbatim as the raw data block. kTocRawData is set when
	// Raw is non-empty.
	Raw []byte
	// UnknownLength writes 0xFFFFFFFFFFFFFFFF as the next segment offset.
	UnknownLength bool
	// DeclaredRaw, if non-zero, overrides the raw data length put in the lead-in.
	DeclaredRaw uint64
	// MetaPadding appends unused bytes to the metadata block and counts them
	// in the raw data offset.
	MetaPadding int
	// Tag overrides the segment tag.
	Tag string
	// Version overrides the format version.
	Version uint32
}

// Builder accumulates segments into a file image.
type Builder struct {
	buf []byte
}

// New creates an empty image builder.
func New() *Builder {
	return &Builder{}
}

// Segment appends one segment.
func (b *Builder) Segment(s Segment) *Builder {
	engine := endian.ForSegment(s.BigEndian)

	var meta []byte
	if !s.NoMetadata {
		meta = Metadata(engine, s.Objects)
		meta = append(meta, make([]byte, s.MetaPadding)...)
	}

	toc := uint32(0)
	if !s.NoMetadata {
		toc |= tocMetaData
	}
	if s.NewObjList {
		toc |= tocNewObjList
	}
	if len(s.Raw) > 0 || s.DeclaredRaw > 0 {
		toc |= tocRawData
	}
	if s.Interleaved {
		toc |= tocInterleaved
	}
	if s.BigEndian {
		toc |= tocBigEndian
	}

	tag := s.Tag
	if tag == "" {
		tag = "TDSm"
	}

	ver := s.Version
	if ver == 0 {
		ver = version
	}

	rawLen := uint64(len(s.Raw))
	if s.DeclaredRaw > 0 {
		rawLen = s.DeclaredRaw
	}

	next := uint64(len(meta)) + rawLen
	if s.UnknownLength {
		next = math.MaxUint64
	}

	b.buf = append(b.buf, tag...)
	b.buf = binary.LittleEndian.AppendUint32(b.buf, toc)
	b.buf = engine.AppendUint32(b.buf, ver)
	b.buf = engine.AppendUint64(b.buf, next)
	b.buf = engine.AppendUint64(b.buf, uint64(len(meta)))
	b.buf = append(b.buf, meta...)
	b.buf = append(b.buf, s.Raw...)

	return b
}

// Append adds arbitrary bytes, e.g. a partial lead-in.
func (b *Builder) Append(p []byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// Truncate drops the last n bytes of the image.
func (b *Builder) Truncate(n int) *Builder {
	b.buf = b.buf[:max(0, len(b.buf)-n)]
	return b
}

// Len returns the current image size.
func (b *Builder) Len() int { return len(b.buf) }

// Bytes returns a copy of the image.
func (b *Builder) Bytes() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)

	return out
}

// LeadInSize is the size of every lead-in written by the builder.
const LeadInSize = leadInSize

// Metadata encodes a metadata block.
func Metadata(engine endian.EndianEngine, objects []Object) []byte {
	out := engine.AppendUint32(nil, uint32(len(objects))) //nolint:gosec
	for _, obj := range objects {
		out = appendString(out, engine, obj.Path)
		out = appendIndex(out, engine, obj.Index)

		out = engine.AppendUint32(out, uint32(len(obj.Props))) //nolint:gosec
		for _, p := range obj.Props {
			out = appendString(out, engine, p.Name)
			out = engine.AppendUint32(out, uint32(p.Value.Type()))
			out = AppendValue(out, engine, p.Value)
		}
	}

	return out
}

func appendIndex(out []byte, engine endian.EndianEngine, idx Index) []byte {
	switch idx.Kind {
	case KindNone:
		return engine.AppendUint32(out, 0xFFFFFFFF)
	case KindReuse:
		return engine.AppendUint32(out, 0)
	case KindRaw:
		return engine.AppendUint32(out, idx.Word)
	}

	length := uint32(20)
	if idx.Type == format.TypeString {
		length = 28
	}

	out = engine.AppendUint32(out, length)
	out = engine.AppendUint32(out, uint32(idx.Type))
	out = engine.AppendUint32(out, idx.Dimension)
	out = engine.AppendUint64(out, idx.Count)
	if idx.Type == format.TypeString {
		out = engine.AppendUint64(out, idx.TotalSize)
	}

	return out
}

func appendString(out []byte, engine endian.EndianEngine, s string) []byte {
	out = engine.AppendUint32(out, uint32(len(s))) //nolint:gosec
	return append(out, s...)
}

// AppendValue appends the wire form of one property value.
func AppendValue(out []byte, engine endian.EndianEngine, v encoding.Value) []byte {
	switch x := v.Interface().(type) {
	case string:
		return appendString(out, engine, x)
	case bool:
		if x {
			return append(out, 1)
		}

		return append(out, 0)
	case encoding.Timestamp:
		return encoding.AppendTimestamp(out, x, engine)
	case complex64:
		out = engine.AppendUint32(out, math.Float32bits(real(x)))
		return engine.AppendUint32(out, math.Float32bits(imag(x)))
	case complex128:
		out = engine.AppendUint64(out, math.Float64bits(real(x)))
		return engine.AppendUint64(out, math.Float64bits(imag(x)))
	case nil:
		return out
	default:
		return Pack(engine, x, out)
	}
}

// Pack appends the fixed-width encoding of data, a number or a slice of
// numbers, in the given byte order.
func Pack(order binary.ByteOrder, data any, dst ...[]byte) []byte {
	var out []byte
	if len(dst) > 0 {
		out = dst[0]
	}

	out, err := binary.Append(out, order, data)
	if err != nil {
		panic(err)
	}

	return out
}

// Timestamps encodes a run of timestamp values.
func Timestamps(engine endian.EndianEngine, values ...encoding.Timestamp) []byte {
	var out []byte
	for _, ts := range values {
		out = encoding.AppendTimestamp(out, ts, engine)
	}

	return out
}

// Strings encodes one string chunk: the cumulative end offset table followed
// by the string bytes. The returned size is what belongs in StringIndex.
func Strings(engine endian.EndianEngine, values ...string) (raw []byte, totalSize uint64) {
	end := uint32(0)
	for _, v := range values {
		end += uint32(len(v)) //nolint:gosec
		raw = engine.AppendUint32(raw, end)
	}

	for _, v := range values {
		raw = append(raw, v...)
	}

	return raw, uint64(len(raw))
}

// Interleave builds one interleaved row block from per-channel element bytes.
// Every column must hold the same number of elements of its given width.
func Interleave(widths []int, columns ...[]byte) []byte {
	if len(columns) == 0 {
		return nil
	}

	rows := len(columns[0]) / widths[0]
	var out []byte
	for i := range rows {
		for c, col := range columns {
			w := widths[c]
			out = append(out, col[i*w:(i+1)*w]...)
		}
	}

	return out
}

// Str is a string property value.
func Str(s string) encoding.Value { return encoding.NewValue(format.TypeString, s) }

// I32 is an int32 property value.
func I32(n int32) encoding.Value { return encoding.NewValue(format.TypeI32, n) }

// F64 is a float64 property value.
func F64(f float64) encoding.Value { return encoding.NewValue(format.TypeDoubleFloat, f) }

// TS is a timestamp property value.
func TS(ts encoding.Timestamp) encoding.Value {
	return encoding.NewValue(format.TypeTimeStamp, ts)
}
