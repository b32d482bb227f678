package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/tdms/format"
)

// Compressor compresses a complete TDMS image into one container.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a complete TDMS image.
//
// Thread Safety: implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress inflates a whole container held in memory.
	Decompress(data []byte) ([]byte, error)
	// NewReader inflates a container streamed from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Magic prefixes of the supported containers.
var (
	magicZstd = []byte{0x28, 0xB5, 0x2F, 0xFD}
	magicLZ4  = []byte{0x04, 0x22, 0x4D, 0x18}
	magicGzip = []byte{0x1F, 0x8B}
	// s2 streams begin with a stream identifier chunk; snappy framed streams are read too
	magicS2     = []byte{0xFF, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}
	magicSnappy = []byte{0xFF, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

// MagicSize is the number of leading bytes Detect needs to see.
const MagicSize = 10

// Detect identifies the container of data from its first bytes.
// A plain TDMS image, or anything unrecognised, is CompressionNone.
func Detect(head []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(head, magicZstd):
		return format.CompressionZstd
	case bytes.HasPrefix(head, magicLZ4):
		return format.CompressionLZ4
	case bytes.HasPrefix(head, magicGzip):
		return format.CompressionGzip
	case bytes.HasPrefix(head, magicS2), bytes.HasPrefix(head, magicSnappy):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}

// CreateCodec returns a new Codec for the compression type.
//
// Parameters:
//   - compressionType: container format
//
// Returns:
//   - Codec: codec instance for the type
//   - error: invalid compression type error
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionGzip:
		return NewGzipCompressor(), nil
	default:
		return nil, fmt.Errorf("invalid compression: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionGzip: NewGzipCompressor(),
}

// GetCodec retrieves the shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// readAllClose drains rc and closes it, keeping the first error.
func readAllClose(rc io.ReadCloser, sizeHint int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(sizeHint)

	_, err := buf.ReadFrom(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
