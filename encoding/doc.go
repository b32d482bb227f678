// Package encoding decodes TDMS scalar, timestamp and string values from their
// raw wire bytes.
//
// Every function takes the byte order of the segment the bytes came from, as an
// endian.EndianEngine, and never consults the host's native order. The
// format package describes what a type tag means (its width, its name); this
// package turns bytes of that type into Go values.
//
// # Values
//
// Value is a tagged union of a format.DataType and the decoded Go value. It is
// what property tables and generic channel reads hand out:
//
//	v, err := encoding.Decode(format.TypeI32, raw, engine)
//	n, ok := v.Int64()
//
// The generic As function extracts a value as a concrete Go type:
//
//	unit, err := encoding.As[string](v)
//
// # Bulk Decoding
//
// DecodeNumbers decodes a run of fixed-width elements into a typed slice in a
// single pass. Canonicalize rewrites a run of big-endian elements into the
// little-endian layout used for every byte buffer the engine returns.
//
// # Strings
//
// A string chunk in raw data is a table of uint32 cumulative end offsets, one
// per value, followed by the concatenated UTF-8 bytes. DecodeStringIndex reads
// the table and StringIndex.Slice cuts single values out of the payload.
//
// # Thread Safety
//
// All functions are pure. Values are immutable after construction.
package encoding
