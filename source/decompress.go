package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/tdms/compress"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// DefaultDecompressLimit bounds the size of an inflated image.
const DefaultDecompressLimit = 4 << 30

// Decompress inspects the first bytes of src. A plain TDMS image is returned
// unchanged. A compressed image is inflated into memory, src is closed and an
// in-memory Source over the inflated bytes is returned.
//
// Parameters:
//   - src: source to inspect
//   - limit: maximum inflated size in bytes, 0 selects DefaultDecompressLimit
//
// Returns:
//   - Source: src itself or the inflated image
//   - format.CompressionType: the detected container
//   - error: ErrIO when the container cannot be read or exceeds limit
func Decompress(src Source, limit int64) (Source, format.CompressionType, error) {
	if limit <= 0 {
		limit = DefaultDecompressLimit
	}

	head := make([]byte, min(int64(compress.MagicSize), src.Size()))
	if err := ReadFull(src, head, 0); err != nil {
		return nil, format.CompressionNone, errs.IO("reading magic", err)
	}

	kind := compress.Detect(head)
	if kind == format.CompressionNone {
		return src, kind, nil
	}

	codec, err := compress.GetCodec(kind)
	if err != nil {
		return nil, kind, errs.IO("decompress", err)
	}

	rc, err := codec.NewReader(io.NewSectionReader(src, 0, src.Size()))
	if err != nil {
		return nil, kind, errs.IO("decompress", err)
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(rc, limit+1))
	if cerr := rc.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return nil, kind, errs.IO(fmt.Sprintf("decompress %s", kind), err)
	}

	if n > limit {
		return nil, kind, errs.IO("decompress", fmt.Errorf("inflated image exceeds %d bytes", limit))
	}

	if err := src.Close(); err != nil {
		return nil, kind, errs.IO("close", err)
	}

	return Bytes(buf.Bytes()), kind, nil
}
