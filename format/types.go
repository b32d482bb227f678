// Package format enumerates the TDMS data types and the compression formats
// recognised for compressed TDMS images.
package format

import (
	"fmt"

	"github.com/arloliu/tdms/errs"
)

// DataType is the tdsDataType tag stored in raw data indices and property
// descriptors.
type DataType uint32

const (
	TypeVoid                  DataType = 0x00
	TypeI8                    DataType = 0x01
	TypeI16                   DataType = 0x02
	TypeI32                   DataType = 0x03
	TypeI64                   DataType = 0x04
	TypeU8                    DataType = 0x05
	TypeU16                   DataType = 0x06
	TypeU32                   DataType = 0x07
	TypeU64                   DataType = 0x08
	TypeSingleFloat           DataType = 0x09
	TypeDoubleFloat           DataType = 0x0A
	TypeExtendedFloat         DataType = 0x0B
	TypeSingleFloatWithUnit   DataType = 0x19
	TypeDoubleFloatWithUnit   DataType = 0x1A
	TypeExtendedFloatWithUnit DataType = 0x1B
	TypeString                DataType = 0x20
	TypeBoolean               DataType = 0x21
	TypeTimeStamp             DataType = 0x44
	TypeFixedPoint            DataType = 0x4F
	TypeComplexSingleFloat    DataType = 0x08000C
	TypeComplexDoubleFloat    DataType = 0x10000D
	TypeDAQmxRawData          DataType = 0xFFFFFFFF
)

// VariableSize marks types whose element width is not fixed.
const VariableSize = -1

type typeInfo struct {
	name      string
	size      int
	supported bool
}

var typeTable = map[DataType]typeInfo{
	TypeVoid:                  {"tdsTypeVoid", 0, true},
	TypeI8:                    {"tdsTypeI8", 1, true},
	TypeI16:                   {"tdsTypeI16", 2, true},
	TypeI32:                   {"tdsTypeI32", 4, true},
	TypeI64:                   {"tdsTypeI64", 8, true},
	TypeU8:                    {"tdsTypeU8", 1, true},
	TypeU16:                   {"tdsTypeU16", 2, true},
	TypeU32:                   {"tdsTypeU32", 4, true},
	TypeU64:                   {"tdsTypeU64", 8, true},
	TypeSingleFloat:           {"tdsTypeSingleFloat", 4, true},
	TypeDoubleFloat:           {"tdsTypeDoubleFloat", 8, true},
	TypeExtendedFloat:         {"tdsTypeExtendedFloat", 16, false},
	TypeSingleFloatWithUnit:   {"tdsTypeSingleFloatWithUnit", 4, true},
	TypeDoubleFloatWithUnit:   {"tdsTypeDoubleFloatWithUnit", 8, true},
	TypeExtendedFloatWithUnit: {"tdsTypeExtendedFloatWithUnit", 16, false},
	TypeString:                {"tdsTypeString", VariableSize, true},
	TypeBoolean:               {"tdsTypeBoolean", 1, true},
	TypeTimeStamp:             {"tdsTypeTimeStamp", 16, true},
	TypeFixedPoint:            {"tdsTypeFixedPoint", 8, false},
	TypeComplexSingleFloat:    {"tdsTypeComplexSingleFloat", 8, true},
	TypeComplexDoubleFloat:    {"tdsTypeComplexDoubleFloat", 16, true},
	TypeDAQmxRawData:          {"tdsTypeDAQmxRawData", VariableSize, false},
}

// Lookup validates a raw type tag.
//
// Returns:
//   - DataType: the tag as a DataType
//   - error: ErrUnsupportedType if the tag is not a known TDMS type
func Lookup(tag uint32) (DataType, error) {
	dt := DataType(tag)
	if _, ok := typeTable[dt]; !ok {
		return dt, fmt.Errorf("%w: unknown type tag 0x%X", errs.ErrUnsupportedType, tag)
	}

	return dt, nil
}

// Known reports whether the type tag is part of the TDMS type table.
func (t DataType) Known() bool {
	_, ok := typeTable[t]
	return ok
}

// Supported reports whether values of this type can be decoded.
func (t DataType) Supported() bool {
	info, ok := typeTable[t]
	return ok && info.supported
}

// Size returns the fixed element width in bytes.
// The boolean is false for variable-width types (strings, DAQmx) and unknown tags.
func (t DataType) Size() (int, bool) {
	info, ok := typeTable[t]
	if !ok || info.size == VariableSize {
		return 0, false
	}

	return info.size, true
}

// IsVariableWidth reports whether element widths are read from an offset index.
func (t DataType) IsVariableWidth() bool {
	info, ok := typeTable[t]
	return ok && info.size == VariableSize
}

// Name returns the LabVIEW type name, e.g. "tdsTypeDoubleFloat".
func (t DataType) Name() string {
	if info, ok := typeTable[t]; ok {
		return info.name
	}

	return fmt.Sprintf("tdsType(0x%X)", uint32(t))
}

// String implements fmt.Stringer with a short lower-case form used in listings.
func (t DataType) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeI8:
		return "i8"
	case TypeI16:
		return "i16"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeU8:
		return "u8"
	case TypeU16:
		return "u16"
	case TypeU32:
		return "u32"
	case TypeU64:
		return "u64"
	case TypeSingleFloat, TypeSingleFloatWithUnit:
		return "f32"
	case TypeDoubleFloat, TypeDoubleFloatWithUnit:
		return "f64"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "bool"
	case TypeTimeStamp:
		return "timestamp"
	case TypeComplexSingleFloat:
		return "c64"
	case TypeComplexDoubleFloat:
		return "c128"
	default:
		return t.Name()
	}
}

// ComplexPart returns the byte width of one component for complex types, 0 otherwise.
func (t DataType) ComplexPart() int {
	switch t {
	case TypeComplexSingleFloat:
		return 4
	case TypeComplexDoubleFloat:
		return 8
	default:
		return 0
	}
}
