package section

import "math"

// Segment tags, the first four bytes of every lead-in.
const (
	TagSegment = "TDSm" // TagSegment starts a segment of a .tdms file.
	TagIndex   = "TDSh" // TagIndex starts a segment of a .tdms_index file.
)

// Table of contents bits. The ToC mask is always stored little-endian,
// whatever byte order the segment declares.
const (
	TocMetaData        = 1 << 1 // TocMetaData: the segment carries a metadata block.
	TocNewObjList      = 1 << 2 // TocNewObjList: the object list restarts from empty.
	TocRawData         = 1 << 3 // TocRawData: the segment carries raw data.
	TocInterleavedData = 1 << 5 // TocInterleavedData: raw data is interleaved row by row.
	TocBigEndian       = 1 << 6 // TocBigEndian: data after the ToC mask is big-endian.
	TocDAQmxRawData    = 1 << 7 // TocDAQmxRawData: raw data holds DAQmx scaler data.
)

// Lead-in layout.
const (
	LeadInSize = 28 // fixed lead-in size in bytes

	tagOffset        = 0
	tocOffset        = 4
	versionOffset    = 8
	nextOffsetOffset = 12
	rawOffsetOffset  = 20
)

// Known format versions.
const (
	Version4712 = 4712 // Version4712 is TDMS 1.0.
	Version4713 = 4713 // Version4713 is TDMS 2.0.
)

// NoNextSegment is the next-segment offset written by an application that
// crashed or was still writing, meaning the segment runs to the end of file.
const NoNextSegment = math.MaxUint64

// Raw data index markers. Any other value is the byte length of an inline index.
const (
	RawIndexNone          = 0xFFFFFFFF // RawIndexNone: the object has no raw data in this segment.
	RawIndexSameAsPrev    = 0x00000000 // RawIndexSameAsPrev: reuse the object's previous index.
	RawIndexDAQmxFormat   = 0x69120000 // RawIndexDAQmxFormat: DAQmx format changing scaler.
	RawIndexDAQmxDigital  = 0x69130000 // RawIndexDAQmxDigital: DAQmx digital line scaler.
	RawIndexFixedLength   = 20         // RawIndexFixedLength: inline index of a fixed-width type.
	RawIndexStringLength  = 28         // RawIndexStringLength: inline index of a string type.
	rawIndexHeaderSize    = 4          // index length field
	requiredDimension     = 1
	maxPathOrStringLength = 1 << 30
)
