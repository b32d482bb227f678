package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/pgzip"
)

// GzipCompressor handles gzip members using the parallel klauspost/pgzip
// implementation, which inflates large images on several cores.
type GzipCompressor struct{}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a new gzip codec.
func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// Compress encodes data as a gzip member.
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := pgzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decodes gzip data held in memory.
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	rc, err := c.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return readAllClose(rc, len(data)*4)
}

// NewReader streams the gzip data read from r.
func (c GzipCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := pgzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}

	return zr, nil
}
