// Package compress inflates TDMS images that were archived inside a
// compression container.
//
// TDMS itself has no compression. Files are however commonly stored
// compressed, and this package lets the reader open them directly. Each
// container is recognised by its magic bytes:
//   - Zstd: 28 B5 2F FD
//   - LZ4 frame: 04 22 4D 18
//   - gzip: 1F 8B
//   - S2 or Snappy framed stream: FF 06 00 00 followed by the stream name
//
// # Architecture
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	    NewReader(r io.Reader) (io.ReadCloser, error)
//	}
//
// Compressor is the inverse operation, used for tests and by tools that
// produce archives.
//
// # Usage
//
//	kind := compress.Detect(head)
//	codec, err := compress.GetCodec(kind)
//	if err != nil {
//	    return err
//	}
//	image, err := codec.Decompress(data)
//
// # Build Tags
//
// Zstandard uses the pure Go klauspost/compress/zstd implementation unless the
// module is built with cgo and the gozstd tag, which selects valyala/gozstd.
package compress
