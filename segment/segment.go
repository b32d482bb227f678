// Package segment turns one TDMS segment into a Delta: the resolved object
// list of the segment and the physical location of every value it contributes.
//
// Parse reads only what it needs (the lead-in and metadata block) and never
// mutates shared state. Everything it knows about earlier segments comes in
// through the Prior interface, so the caller decides how deltas are folded.
package segment

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/pool"
	"github.com/arloliu/tdms/section"
)

// ErrIncompleteLeadIn is returned by Parse when fewer than section.LeadInSize
// bytes remain and those bytes are a prefix of a valid tag. It marks a file
// whose writer stopped in the middle of a lead-in.
var ErrIncompleteLeadIn = errors.New("tdms: incomplete segment lead-in at end of file")

// Entry is one object of a segment's resolved object list.
type Entry struct {
	Path string
	// HasData is false when the object carries no raw data in the segment.
	HasData bool
	// Index is the object's raw data index, valid when HasData is set.
	Index section.RawDataIndex
}

// Prior is what Parse needs to know about the segments before it.
type Prior interface {
	// ObjectList returns the resolved object list of the previous segment.
	ObjectList() []Entry
	// LastIndex returns the most recent inline raw data index of path.
	LastIndex(path string) (section.RawDataIndex, bool)
}

// Span locates the values one object contributes to one segment.
//
// Contiguous layouts store the object's values of every chunk as one run:
// value i of chunk c starts at First + c*ChunkStride + i*Width. Interleaved
// layouts store rows: value i starts at First + i*RowStride.
type Span struct {
	Path     string
	DataType format.DataType
	// Width is the element width, 0 for strings.
	Width int
	// Values is the number of complete values available.
	Values uint64
	// PerChunk is the declared number of values per chunk.
	PerChunk uint64
	// Chunks is the number of chunks holding at least one available value.
	Chunks uint64
	// First is the absolute file offset of the object's data in chunk 0.
	First int64
	// ChunkStride is the byte distance between consecutive chunks.
	ChunkStride int64
	// ChunkBytes is the object's byte size within one chunk.
	ChunkBytes uint64
	// Interleaved selects row addressing with RowStride.
	Interleaved bool
	RowStride   int64
	BigEndian   bool
}

// Delta is the result of parsing one segment.
type Delta struct {
	// Ordinal is the zero-based segment number in the file.
	Ordinal int
	// Offset is the absolute offset of the lead-in.
	Offset int64
	LeadIn section.LeadIn
	// Described lists the object descriptions of the metadata block in order.
	Described []section.ObjectMeta
	// Objects is the resolved object list after applying Described.
	Objects []Entry
	// Spans has one entry per object with raw data, in object list order.
	Spans []Span
	// RawStart is the absolute offset of the raw data block.
	RawStart int64
	// RawSize is the raw data length actually present in the file.
	RawSize uint64
	// ChunkSize is the byte size of one chunk, 0 when no object has data.
	ChunkSize uint64
	// Chunks is the number of complete chunks.
	Chunks uint64
	// Next is the offset of the following segment.
	Next int64
	// Final is set when no segment can follow this one.
	Final bool
	// Truncated is set when the raw data is shorter than declared or ends in
	// a partial chunk.
	Truncated bool
}

// Parse decodes the segment starting at offset.
//
// Parameters:
//   - r: the file, read with positional reads only
//   - ordinal: the segment number, recorded in the delta
//   - offset: absolute offset of the lead-in
//   - fileSize: total file size in bytes
//   - prior: state carried over from earlier segments
//
// Returns:
//   - *Delta: the decoded segment
//   - error: ErrIncompleteLeadIn for a cut-off lead-in, ErrInvalidSegmentHeader,
//     ErrCorruptMetadata, ErrUnsupportedType, ErrTruncatedFile, or ErrIO
func Parse(r io.ReaderAt, ordinal int, offset, fileSize int64, prior Prior) (*Delta, error) {
	leadIn, err := readLeadIn(r, offset, fileSize)
	if err != nil {
		return nil, err
	}

	d := &Delta{
		Ordinal:  ordinal,
		Offset:   offset,
		LeadIn:   leadIn,
		RawStart: offset + section.LeadInSize + int64(leadIn.RawDataOffset), //nolint:gosec
	}

	if leadIn.RawDataOffset > uint64(fileSize) || d.RawStart > fileSize { //nolint:gosec
		return nil, fmt.Errorf("%w: metadata of segment %d at offset %d runs past end of file",
			errs.ErrTruncatedFile, ordinal, offset)
	}

	if err := d.resolveLength(fileSize); err != nil {
		return nil, err
	}

	if leadIn.ToC.HasMetaData() {
		meta, err := readMetadata(r, offset+section.LeadInSize, leadIn)
		if err != nil {
			return nil, fmt.Errorf("segment %d at offset %d: %w", ordinal, offset, err)
		}

		d.Described = meta.Objects
	}

	if err := d.resolveObjects(prior); err != nil {
		return nil, fmt.Errorf("segment %d at offset %d: %w", ordinal, offset, err)
	}

	if leadIn.ToC.HasDAQmxRawData() && d.RawSize > 0 {
		return nil, fmt.Errorf("%w: DAQmx raw data in segment %d", errs.ErrUnsupportedType, ordinal)
	}

	if err := d.layout(); err != nil {
		return nil, fmt.Errorf("segment %d at offset %d: %w", ordinal, offset, err)
	}

	return d, nil
}

func readLeadIn(r io.ReaderAt, offset, fileSize int64) (section.LeadIn, error) {
	var buf [section.LeadInSize]byte

	avail := fileSize - offset
	if avail < section.LeadInSize {
		n, err := r.ReadAt(buf[:avail], offset)
		if err != nil && !errors.Is(err, io.EOF) {
			return section.LeadIn{}, errs.IO("read lead-in", err)
		}

		if isTagPrefix(buf[:n]) {
			return section.LeadIn{}, fmt.Errorf("%w: %d bytes at offset %d", ErrIncompleteLeadIn, n, offset)
		}

		return section.LeadIn{}, fmt.Errorf("%w: %d stray bytes at offset %d", errs.ErrInvalidSegmentHeader, n, offset)
	}

	if _, err := r.ReadAt(buf[:], offset); err != nil {
		if errors.Is(err, io.EOF) {
			return section.LeadIn{}, fmt.Errorf("%w: lead-in at offset %d", errs.ErrTruncatedFile, offset)
		}

		return section.LeadIn{}, errs.IO("read lead-in", err)
	}

	return section.ParseLeadIn(buf[:])
}

func isTagPrefix(b []byte) bool {
	n := min(len(b), 4)
	tag := string(b[:n])

	return tag == section.TagSegment[:n] || tag == section.TagIndex[:n]
}

func readMetadata(r io.ReaderAt, at int64, leadIn section.LeadIn) (section.Metadata, error) {
	bb := pool.GetMetaBuffer()
	defer pool.PutMetaBuffer(bb)

	buf := bb.Resize(int(leadIn.RawDataOffset)) //nolint:gosec
	if _, err := r.ReadAt(buf, at); err != nil {
		if errors.Is(err, io.EOF) {
			return section.Metadata{}, fmt.Errorf("%w: metadata block", errs.ErrTruncatedFile)
		}

		return section.Metadata{}, errs.IO("read metadata", err)
	}

	return section.DecodeMetadata(buf, leadIn.Engine())
}

// resolveLength works out where the segment ends and how much raw data exists.
func (d *Delta) resolveLength(fileSize int64) error {
	h := d.LeadIn
	avail := uint64(fileSize - d.RawStart) //nolint:gosec

	if h.HasUnknownLength() {
		d.Final = true
		d.RawSize = avail
		d.Next = fileSize

		return nil
	}

	declared := h.NextSegmentOffset - h.RawDataOffset
	end := uint64(d.Offset) + section.LeadInSize + h.NextSegmentOffset //nolint:gosec
	if end < h.NextSegmentOffset || end > uint64(fileSize) { //nolint:gosec
		// next segment offset points past the end: the writer never finished
		d.Final = true
		d.Truncated = true
		d.RawSize = avail
		d.Next = fileSize

		return nil
	}

	d.RawSize = declared
	d.Next = int64(end) //nolint:gosec
	d.Final = d.Next == fileSize

	return nil
}

func copyEntries(src []Entry) []Entry {
	out := make([]Entry, len(src))
	copy(out, src)

	return out
}

// resolveObjects applies the metadata block to the previous object list.
func (d *Delta) resolveObjects(prior Prior) error {
	toc := d.LeadIn.ToC

	var previous []Entry
	if prior != nil {
		previous = prior.ObjectList()
	}

	if !toc.HasMetaData() {
		d.Objects = copyEntries(previous)
		return nil
	}

	var list []Entry
	if !toc.HasNewObjList() {
		list = copyEntries(previous)
	}

	pos := make(map[string]int, len(list)+len(d.Described))
	for i, e := range list {
		pos[e.Path] = i
	}

	for _, obj := range d.Described {
		entry := Entry{Path: obj.Path}

		switch obj.Kind {
		case section.IndexInline:
			entry.HasData = true
			entry.Index = obj.Index
		case section.IndexReuse:
			idx, ok := lastIndex(prior, list, pos, obj.Path)
			if !ok {
				return fmt.Errorf("%w: %q reuses a raw data index it never had", errs.ErrCorruptMetadata, obj.Path)
			}

			entry.HasData = true
			entry.Index = idx
		case section.IndexNone:
		}

		if i, ok := pos[obj.Path]; ok {
			list[i] = entry
			continue
		}

		pos[obj.Path] = len(list)
		list = append(list, entry)
	}

	d.Objects = list

	return nil
}

func lastIndex(prior Prior, list []Entry, pos map[string]int, path string) (section.RawDataIndex, bool) {
	// an earlier description in the same segment wins over older segments
	if i, ok := pos[path]; ok && list[i].HasData {
		return list[i].Index, true
	}

	if prior == nil {
		return section.RawDataIndex{}, false
	}

	return prior.LastIndex(path)
}
