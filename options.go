package tdms

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/arloliu/tdms/extract"
	"github.com/arloliu/tdms/internal/metrics"
	"github.com/arloliu/tdms/internal/options"
	"github.com/arloliu/tdms/source"
)

// Metrics are the prometheus collectors a file reports to.
type Metrics = metrics.Metrics

// NewMetrics creates the reader metrics and registers them with reg.
// One Metrics value can be shared by every file of a process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return metrics.NewMetrics(reg)
}

type config struct {
	logger          log.Logger
	metrics         *Metrics
	fs              afero.Fs
	mmap            bool
	decompress      bool
	decompressLimit int64
	maxReadSize     int
	stringCacheSize int
}

// Option configures how a file is opened and read.
type Option = options.Option[*config]

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		logger:          log.NewNopLogger(),
		decompress:      true,
		decompressLimit: source.DefaultDecompressLimit,
		maxReadSize:     extract.DefaultMaxReadSize,
		stringCacheSize: extract.DefaultStringCacheSize,
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger. Files log nothing by default.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMetrics reports parsing and read statistics to m.
func WithMetrics(m *Metrics) Option {
	return options.NoError(func(c *config) {
		c.metrics = m
	})
}

// WithFs makes Open resolve paths on fs instead of the local filesystem.
func WithFs(fs afero.Fs) Option {
	return options.NoError(func(c *config) {
		c.fs = fs
	})
}

// WithMmap makes Open memory map local files. It has no effect together with
// WithFs.
func WithMmap(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.mmap = enabled
	})
}

// WithDecompression controls whether compressed images are recognised and
// inflated. It is enabled by default.
func WithDecompression(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.decompress = enabled
	})
}

// WithDecompressLimit bounds the inflated size of a compressed image.
func WithDecompressLimit(n int64) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("decompress limit must be positive, got %d", n)
		}

		c.decompressLimit = n

		return nil
	})
}

// WithMaxReadSize caps the bytes requested by a single read of raw data.
func WithMaxReadSize(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("max read size must be positive, got %d", n)
		}

		c.maxReadSize = n

		return nil
	})
}

// WithStringCacheSize sets how many string offset tables stay cached.
// Zero disables the cache.
func WithStringCacheSize(n int) Option {
	return options.New(func(c *config) error {
		if n < 0 {
			return fmt.Errorf("string cache size must not be negative, got %d", n)
		}

		c.stringCacheSize = n

		return nil
	})
}
