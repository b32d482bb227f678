package section

import (
	"fmt"
	"math"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/property"
)

// IndexKind classifies the raw data index written for an object.
type IndexKind uint8

const (
	// IndexNone means the object contributes no raw data to the segment.
	IndexNone IndexKind = iota
	// IndexReuse means the object reuses its most recent index unchanged.
	IndexReuse
	// IndexInline means the index is spelled out in the metadata.
	IndexInline
)

func (k IndexKind) String() string {
	switch k {
	case IndexNone:
		return "none"
	case IndexReuse:
		return "reuse"
	case IndexInline:
		return "inline"
	default:
		return "unknown"
	}
}

// RawDataIndex describes how many values of which type an object has in
// each raw data chunk of a segment.
type RawDataIndex struct {
	// DataType is the element type.
	DataType format.DataType
	// NumValues is the number of values per chunk.
	NumValues uint64
	// TotalSize is the byte size per chunk for strings, offset table included.
	// It is zero for fixed-width types; use ChunkBytes.
	TotalSize uint64
}

// ChunkBytes returns the number of raw data bytes the object occupies in one chunk.
func (x RawDataIndex) ChunkBytes() uint64 {
	if x.DataType.IsVariableWidth() {
		return x.TotalSize
	}

	size, _ := x.DataType.Size()

	return x.NumValues * uint64(size) //nolint:gosec
}

// ObjectMeta is one object description of a metadata block.
type ObjectMeta struct {
	// Path is the object path exactly as stored.
	Path string
	// Kind tells how to interpret Index.
	Kind IndexKind
	// Index is valid when Kind is IndexInline.
	Index RawDataIndex
	// Properties are listed in stored order; later entries for the same name win.
	Properties []property.Property
}

// Metadata is the decoded metadata block of one segment.
type Metadata struct {
	Objects []ObjectMeta
}

// DecodeMetadata decodes a complete metadata block.
//
// The whole of data must be consumed: a block that ends early or leaves bytes
// over disagrees with its declared length.
//
// Parameters:
//   - data: exactly the bytes between the lead-in and the raw data
//   - engine: byte order of the segment
//
// Returns:
//   - Metadata: the decoded objects in stored order
//   - error: ErrCorruptMetadata for inconsistent blocks, ErrUnsupportedType for
//     unknown or undecodable type tags and DAQmx indices
func DecodeMetadata(data []byte, engine endian.EndianEngine) (Metadata, error) {
	r := &metaReader{data: data, engine: engine}

	count := r.uint32()
	if r.err != nil {
		return Metadata{}, r.err
	}

	// every object needs at least a path length, an index word and a property count
	if uint64(count)*12 > uint64(len(data)) {
		return Metadata{}, fmt.Errorf("%w: %d objects cannot fit in %d bytes", errs.ErrCorruptMetadata, count, len(data))
	}

	meta := Metadata{Objects: make([]ObjectMeta, 0, count)}
	for range count {
		obj := decodeObject(r)
		if r.err != nil {
			return Metadata{}, r.err
		}

		meta.Objects = append(meta.Objects, obj)
	}

	if rest := r.remaining(); rest != 0 {
		return Metadata{}, fmt.Errorf("%w: %d bytes left after %d objects", errs.ErrCorruptMetadata, rest, count)
	}

	return meta, nil
}

func decodeObject(r *metaReader) ObjectMeta {
	obj := ObjectMeta{Path: r.string()}

	obj.Kind, obj.Index = decodeRawIndex(r, obj.Path)

	n := r.uint32()
	if r.err != nil {
		return obj
	}

	if uint64(n)*8 > uint64(r.remaining()) {
		r.fail("%d properties of %q cannot fit in %d bytes", n, obj.Path, r.remaining())
		return obj
	}

	if n > 0 {
		obj.Properties = make([]property.Property, 0, n)
	}

	for range n {
		name := r.string()
		tag := r.uint32()
		if r.err != nil {
			return obj
		}

		dt, err := format.Lookup(tag)
		if err != nil {
			r.err = fmt.Errorf("property %q of %q: %w", name, obj.Path, err)
			return obj
		}

		v := r.value(dt)
		if r.err != nil {
			return obj
		}

		obj.Properties = append(obj.Properties, property.Property{Name: name, Value: v})
	}

	return obj
}

func decodeRawIndex(r *metaReader, path string) (IndexKind, RawDataIndex) {
	word := r.uint32()
	if r.err != nil {
		return IndexNone, RawDataIndex{}
	}

	switch word {
	case RawIndexNone:
		return IndexNone, RawDataIndex{}
	case RawIndexSameAsPrev:
		return IndexReuse, RawDataIndex{}
	case RawIndexDAQmxFormat, RawIndexDAQmxDigital:
		r.err = fmt.Errorf("%w: DAQmx raw data index on %q", errs.ErrUnsupportedType, path)
		return IndexNone, RawDataIndex{}
	}

	start := r.pos

	tag := r.uint32()
	dim := r.uint32()
	idx := RawDataIndex{NumValues: r.uint64()}
	if r.err != nil {
		return IndexNone, RawDataIndex{}
	}

	dt, err := format.Lookup(tag)
	if err != nil {
		r.err = fmt.Errorf("raw data index of %q: %w", path, err)
		return IndexNone, RawDataIndex{}
	}

	if !dt.Supported() || dt == format.TypeVoid {
		r.err = fmt.Errorf("%w: raw data of type %s on %q", errs.ErrUnsupportedType, dt.Name(), path)
		return IndexNone, RawDataIndex{}
	}

	idx.DataType = dt

	if dim != requiredDimension {
		r.fail("array dimension %d of %q, must be %d", dim, path, requiredDimension)
		return IndexNone, RawDataIndex{}
	}

	want := uint32(RawIndexFixedLength)
	if dt.IsVariableWidth() {
		idx.TotalSize = r.uint64()
		want = RawIndexStringLength
	}

	if r.err != nil {
		return IndexNone, RawDataIndex{}
	}

	// the index length counts its own length field
	if got := uint32(r.pos-start) + rawIndexHeaderSize; word != want || got != want { //nolint:gosec
		r.fail("raw data index length %d of %q, expected %d", word, path, want)
		return IndexNone, RawDataIndex{}
	}

	// chunk sizes are used as int64 file offsets
	width := uint64(encoding.StringOffsetSize)
	if size, ok := dt.Size(); ok {
		width = uint64(size) //nolint:gosec
	}
	if idx.NumValues > math.MaxInt64/width {
		r.fail("%d values of %s on %q overflow the chunk size", idx.NumValues, dt.Name(), path)
		return IndexNone, RawDataIndex{}
	}

	if dt.IsVariableWidth() {
		if idx.TotalSize > math.MaxInt64 {
			r.fail("string data size %d of %q overflows", idx.TotalSize, path)
			return IndexNone, RawDataIndex{}
		}

		if idx.TotalSize < idx.NumValues*encoding.StringOffsetSize {
			r.fail("string data size %d of %q smaller than its offset table", idx.TotalSize, path)
			return IndexNone, RawDataIndex{}
		}
	}

	return IndexInline, idx
}
