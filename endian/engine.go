// Package endian provides the byte order engines used to decode TDMS segments.
//
// A TDMS segment declares its own byte order through the kTocBigEndian bit of
// its lead-in. Everything after the ToC mask (the rest of the lead-in, the
// metadata block and the raw data) is decoded with that order, independent of
// the host's native order.
//
// # Basic Usage
//
//	engine := endian.ForSegment(leadIn.ToC.IsBigEndian())
//	count := engine.Uint32(meta[0:4])
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"slices"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ForSegment returns the engine matching a segment's big-endian flag.
func ForSegment(bigEndian bool) EndianEngine {
	if bigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsBigEndian reports whether engine decodes big-endian data.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// SwapUnits reverses the byte order of every unit-sized word in buf.
// len(buf) must be a multiple of unit; a trailing partial word is left as is.
//
// It converts element bytes between big- and little-endian layouts in place.
func SwapUnits(buf []byte, unit int) {
	if unit <= 1 {
		return
	}

	for off := 0; off+unit <= len(buf); off += unit {
		slices.Reverse(buf[off : off+unit])
	}
}
