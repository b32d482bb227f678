// Package section decodes the wire structures of a TDMS segment: the fixed
// lead-in and the metadata block that follows it.
//
// # Segment Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Lead-in (28 bytes, fixed)                               │
//	│  - Tag (4 bytes): "TDSm"                                │
//	│  - ToC mask (4 bytes, always little-endian)             │
//	│  - Version (4 bytes): 4712 or 4713                      │
//	│  - Next segment offset (8 bytes)                        │
//	│  - Raw data offset (8 bytes) = metadata length          │
//	├─────────────────────────────────────────────────────────┤
//	│ Metadata (raw data offset bytes, if kTocMetaData)       │
//	│  - Object count                                         │
//	│  - Per object: path, raw data index, properties         │
//	├─────────────────────────────────────────────────────────┤
//	│ Raw data (next segment offset - raw data offset bytes)  │
//	│  - One or more chunks, contiguous or interleaved        │
//	└─────────────────────────────────────────────────────────┘
//
// Both offsets are counted from the end of the lead-in. Everything after the
// ToC mask uses the byte order selected by the kTocBigEndian bit.
//
// # Raw Data Index
//
// Each object description carries one index word:
//   - 0xFFFFFFFF: no raw data in this segment
//   - 0x00000000: same index as the object's previous one
//   - 20: inline index of a fixed-width type (type, dimension, value count)
//   - 28: inline index of a string type (same, plus total byte size)
//   - 0x69120000, 0x69130000: DAQmx scalers, reported as unsupported
//
// This package only decodes bytes. Resolving reuse markers against earlier
// segments and computing chunk layout is done by package segment.
package section
