// Package extract materialises the values of registry objects from raw data.
//
// An Extractor turns a logical range [start, start+count) of one object into
// physical reads against the file: the object's layout is searched for the
// contribution holding start, every contribution is cut into runs of values
// that are adjacent on disk, and adjacent runs are merged so that each run
// costs one positional read. Interleaved contributions are gathered with the
// row stride from one window read per batch of rows.
//
// Byte reads are returned in canonical little-endian layout whatever the
// segment's byte order. String channels are read through the offset table of
// each chunk; decoded tables are kept in a bounded LRU cache.
//
// All methods are safe for concurrent use as long as the underlying
// io.ReaderAt is.
package extract

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/internal/metrics"
	"github.com/arloliu/tdms/internal/options"
	"github.com/arloliu/tdms/registry"
)

const (
	// DefaultMaxReadSize caps the bytes requested by one ReadAt.
	DefaultMaxReadSize = 8 << 20
	// DefaultStringCacheSize is the number of string offset tables kept.
	DefaultStringCacheSize = 1024
)

// Extractor reads object values from one file.
type Extractor struct {
	src       io.ReaderAt
	maxRead   int
	cacheSize int
	metrics   *metrics.Metrics

	strings *lru.Cache[int64, encoding.StringIndex]
	loads   singleflight.Group
}

// Option configures an Extractor.
type Option = options.Option[*Extractor]

// WithMaxReadSize caps the size of a single positional read. Values below one
// element still read one element at a time.
func WithMaxReadSize(n int) Option {
	return options.New(func(x *Extractor) error {
		if n <= 0 {
			return fmt.Errorf("max read size must be positive, got %d", n)
		}

		x.maxRead = n

		return nil
	})
}

// WithStringCacheSize sets how many string offset tables are cached.
// Zero disables the cache.
func WithStringCacheSize(n int) Option {
	return options.New(func(x *Extractor) error {
		if n < 0 {
			return fmt.Errorf("string cache size must not be negative, got %d", n)
		}

		x.cacheSize = n

		return nil
	})
}

// WithMetrics records read sizes, durations and cache lookups in m.
func WithMetrics(m *metrics.Metrics) Option {
	return options.NoError(func(x *Extractor) {
		x.metrics = m
	})
}

// New creates an Extractor reading from src.
func New(src io.ReaderAt, opts ...Option) (*Extractor, error) {
	x := &Extractor{
		src:       src,
		maxRead:   DefaultMaxReadSize,
		cacheSize: DefaultStringCacheSize,
	}

	if err := options.Apply(x, opts...); err != nil {
		return nil, err
	}

	if x.cacheSize > 0 {
		cache, err := lru.New[int64, encoding.StringIndex](x.cacheSize)
		if err != nil {
			return nil, err
		}

		x.strings = cache
	}

	return x, nil
}

// checkRange validates [start, start+count) against the object's total.
func checkRange(obj *registry.Object, start, count uint64) error {
	total := obj.Layout.Total()
	if start > total || count > total-start {
		return fmt.Errorf("%w: values [%d, %d+%d) of %q, which has %d",
			errs.ErrOutOfRange, start, start, count, obj.Path, total)
	}

	return nil
}

func (x *Extractor) observe(kind string, started time.Time) {
	x.metrics.ObserveRead(kind, started)
}

// readAt reads len(p) bytes at off, counting them.
func (x *Extractor) readAt(p []byte, off int64) error {
	n, err := x.src.ReadAt(p, off)
	x.metrics.BytesRead(n)

	if n == len(p) {
		return nil
	}

	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}

	return errs.IO("read raw data at "+strconv.FormatInt(off, 10), err)
}

// byteLen returns count*width as an int, failing on overflow.
func byteLen(count uint64, width int) (int, error) {
	if width > 0 && count > uint64(math.MaxInt/width) {
		return 0, fmt.Errorf("%w: %d values of %d bytes do not fit in memory", errs.ErrOutOfRange, count, width)
	}

	return int(count) * width, nil //nolint:gosec
}
