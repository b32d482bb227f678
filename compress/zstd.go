package compress

// ZstdCompressor handles Zstandard frames, the usual choice for archived
// TDMS files.
//
// Two implementations exist: the pure Go klauspost/compress/zstd codec, used
// by default, and the cgo valyala/gozstd binding, selected with the gozstd
// build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
//
// Example:
//
//	codec := NewZstdCompressor()
//	image, err := codec.Decompress(archived)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
