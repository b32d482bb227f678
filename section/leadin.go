package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
)

// LeadIn is the fixed 28-byte header at the start of every segment.
type LeadIn struct {
	// Tag is TagSegment or TagIndex.
	Tag string // byte offset 0-3
	// ToC is the table of contents mask, always little-endian.
	ToC ToC // byte offset 4-7
	// Version is the format version, Version4712 or Version4713.
	Version uint32 // byte offset 8-11
	// NextSegmentOffset is the length of metadata plus raw data, counted from
	// the end of the lead-in. NoNextSegment if unknown.
	NextSegmentOffset uint64 // byte offset 12-19
	// RawDataOffset is the metadata length, counted from the end of the lead-in.
	RawDataOffset uint64 // byte offset 20-27
}

// ParseLeadIn decodes a lead-in from the first LeadInSize bytes of data.
//
// Parameters:
//   - data: at least LeadInSize bytes
//
// Returns:
//   - LeadIn: the decoded lead-in
//   - error: ErrInvalidSegmentHeader for a short buffer, a bad tag, an unknown
//     version or a raw-data offset past the next-segment offset
func ParseLeadIn(data []byte) (LeadIn, error) {
	if len(data) < LeadInSize {
		return LeadIn{}, fmt.Errorf("%w: lead-in needs %d bytes, have %d", errs.ErrInvalidSegmentHeader, LeadInSize, len(data))
	}

	tag := string(data[tagOffset:tocOffset])
	if tag != TagSegment && tag != TagIndex {
		return LeadIn{}, fmt.Errorf("%w: bad tag %q", errs.ErrInvalidSegmentHeader, tag)
	}

	toc := ToC(binary.LittleEndian.Uint32(data[tocOffset:versionOffset]))
	engine := toc.Engine()

	h := LeadIn{
		Tag:               tag,
		ToC:               toc,
		Version:           engine.Uint32(data[versionOffset:nextOffsetOffset]),
		NextSegmentOffset: engine.Uint64(data[nextOffsetOffset:rawOffsetOffset]),
		RawDataOffset:     engine.Uint64(data[rawOffsetOffset:LeadInSize]),
	}

	if h.Version != Version4712 && h.Version != Version4713 {
		return LeadIn{}, fmt.Errorf("%w: unknown version %d", errs.ErrInvalidSegmentHeader, h.Version)
	}

	if h.NextSegmentOffset != NoNextSegment && h.RawDataOffset > h.NextSegmentOffset {
		return LeadIn{}, fmt.Errorf("%w: raw data offset %d beyond next segment offset %d",
			errs.ErrInvalidSegmentHeader, h.RawDataOffset, h.NextSegmentOffset)
	}

	return h, nil
}

// Engine returns the byte order engine of the segment.
func (h LeadIn) Engine() endian.EndianEngine {
	return h.ToC.Engine()
}

// HasUnknownLength reports whether the writer never filled in the segment length.
func (h LeadIn) HasUnknownLength() bool {
	return h.NextSegmentOffset == NoNextSegment
}

// AppendTo appends the 28-byte wire form of the lead-in to dst.
func (h LeadIn) AppendTo(dst []byte) []byte {
	tag := h.Tag
	if tag == "" {
		tag = TagSegment
	}

	engine := h.Engine()
	dst = append(dst, tag[:4]...)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.ToC))
	dst = engine.AppendUint32(dst, h.Version)
	dst = engine.AppendUint64(dst, h.NextSegmentOffset)

	return engine.AppendUint64(dst, h.RawDataOffset)
}
