package section

import (
	"strings"

	"github.com/arloliu/tdms/endian"
)

// ToC is a segment's table of contents bit mask.
type ToC uint32

// HasMetaData reports whether the segment carries a metadata block.
func (t ToC) HasMetaData() bool { return t&TocMetaData != 0 }

// HasNewObjList reports whether the segment discards the previous object list.
func (t ToC) HasNewObjList() bool { return t&TocNewObjList != 0 }

// HasRawData reports whether the segment carries raw data.
func (t ToC) HasRawData() bool { return t&TocRawData != 0 }

// IsInterleaved reports whether raw data is stored row by row.
func (t ToC) IsInterleaved() bool { return t&TocInterleavedData != 0 }

// IsBigEndian reports whether the segment is big-endian.
func (t ToC) IsBigEndian() bool { return t&TocBigEndian != 0 }

// HasDAQmxRawData reports whether raw data holds DAQmx scaler data.
func (t ToC) HasDAQmxRawData() bool { return t&TocDAQmxRawData != 0 }

// Engine returns the byte order engine for the segment's data.
func (t ToC) Engine() endian.EndianEngine {
	return endian.ForSegment(t.IsBigEndian())
}

// String lists the set flags, e.g. "meta|raw|interleaved".
func (t ToC) String() string {
	names := make([]string, 0, 6)
	if t.HasMetaData() {
		names = append(names, "meta")
	}
	if t.HasNewObjList() {
		names = append(names, "newobjs")
	}
	if t.HasRawData() {
		names = append(names, "raw")
	}
	if t.IsInterleaved() {
		names = append(names, "interleaved")
	}
	if t.IsBigEndian() {
		names = append(names, "bigendian")
	}
	if t.HasDAQmxRawData() {
		names = append(names, "daqmx")
	}

	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, "|")
}
