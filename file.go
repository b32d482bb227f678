package tdms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/thanos-io/objstore"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/extract"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/objpath"
	"github.com/arloliu/tdms/registry"
	"github.com/arloliu/tdms/segment"
	"github.com/arloliu/tdms/source"
)

// File is an opened and indexed TDMS file.
type File struct {
	mu     sync.RWMutex
	closed bool

	src         source.Source
	reg         *registry.Registry
	x           *extract.Extractor
	logger      log.Logger
	metrics     *Metrics
	compression format.CompressionType

	objects []*Object
	groups  []string
}

// Open opens and indexes the file at path.
//
// Returns:
//   - *File: the indexed file, to be closed by the caller
//   - error: ErrIO when the file cannot be read, or the format error that
//     stopped indexing
func Open(path string, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	var src source.Source
	switch {
	case cfg.fs != nil:
		src, err = source.OpenFs(cfg.fs, path)
	case cfg.mmap:
		src, err = source.Mmap(path)
	default:
		src, err = source.OpenFile(path)
	}

	if err != nil {
		return nil, err
	}

	return open(src, cfg, log.With(cfg.logger, "path", path))
}

// OpenReaderAt indexes size bytes of r. Reads on r are serialised, so r does
// not need to support concurrent ReadAt calls. If r is an io.Closer, Close
// closes it.
func OpenReaderAt(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return open(source.Locked(source.FromReaderAt(r, size)), cfg, cfg.logger)
}

// OpenBucket indexes the object name of bucket using ranged reads. ctx is used
// for every read of the returned file.
func OpenBucket(ctx context.Context, bucket objstore.BucketReader, name string, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	src, err := source.OpenBucket(ctx, bucket, name)
	if err != nil {
		return nil, err
	}

	return open(src, cfg, log.With(cfg.logger, "object", name))
}

// OpenSource indexes an already opened source. The file takes ownership of
// src and closes it on Close or when indexing fails.
func OpenSource(src source.Source, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	return open(src, cfg, cfg.logger)
}

func open(src source.Source, cfg *config, logger log.Logger) (*File, error) {
	kind := format.CompressionNone
	if cfg.decompress {
		inflated, detected, err := source.Decompress(src, cfg.decompressLimit)
		if err != nil {
			_ = src.Close()
			return nil, err
		}

		src, kind = inflated, detected
	}

	reg, err := index(src, cfg, logger)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	x, err := extract.New(src,
		extract.WithMaxReadSize(cfg.maxReadSize),
		extract.WithStringCacheSize(cfg.stringCacheSize),
		extract.WithMetrics(cfg.metrics),
	)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	f := &File{
		src:         src,
		reg:         reg,
		x:           x,
		logger:      logger,
		metrics:     cfg.metrics,
		compression: kind,
	}
	f.buildHandles()

	cfg.metrics.FileOpened(reg.Truncated())
	level.Info(logger).Log(
		"msg", "opened tdms file",
		"segments", len(reg.Segments()),
		"objects", reg.Len(),
		"compression", kind,
		"truncated", reg.Truncated(),
	)

	return f, nil
}

// index parses every segment of src in file order.
func index(src source.Source, cfg *config, logger log.Logger) (*registry.Registry, error) {
	reg := registry.New()
	size := src.Size()

	for ordinal, offset := 0, int64(0); offset < size; ordinal++ {
		d, err := segment.Parse(src, ordinal, offset, size, reg.Prior())
		if errors.Is(err, segment.ErrIncompleteLeadIn) {
			level.Warn(logger).Log("msg", "file ends inside a segment lead-in", "offset", offset)
			reg.MarkTruncated()

			break
		}

		if err != nil {
			return nil, err
		}

		if err := reg.Fold(d); err != nil {
			return nil, fmt.Errorf("segment %d at offset %d: %w", ordinal, offset, err)
		}

		cfg.metrics.SegmentParsed()
		level.Debug(logger).Log(
			"msg", "parsed segment",
			"segment", ordinal,
			"offset", offset,
			"toc", d.LeadIn.ToC,
			"objects", len(d.Objects),
			"chunks", d.Chunks,
		)

		if d.Truncated {
			level.Warn(logger).Log("msg", "final segment is truncated", "segment", ordinal, "raw_bytes", d.RawSize)
		}

		offset = d.Next
	}

	return reg, nil
}

// buildHandles creates one handle per object and the group list.
func (f *File) buildHandles() {
	f.objects = make([]*Object, 0, f.reg.Len())
	seen := make(map[string]struct{})

	for obj := range f.reg.Objects() {
		f.objects = append(f.objects, newObject(f, obj))

		switch obj.Parsed.Kind {
		case objpath.KindGroup, objpath.KindChannel:
			group := obj.Parsed.GroupName()
			if _, ok := seen[group]; !ok {
				seen[group] = struct{}{}
				f.groups = append(f.groups, group)
			}
		}
	}
}

// acquire read-locks the file for one operation.
func (f *File) acquire() error {
	f.mu.RLock()
	if f.closed {
		f.mu.RUnlock()
		return errs.ErrUseAfterClose
	}

	return nil
}

func (f *File) release() { f.mu.RUnlock() }

// Object returns the object with the exact path.
func (f *File) Object(path string) (*Object, error) {
	if err := f.acquire(); err != nil {
		return nil, err
	}
	defer f.release()

	obj, err := f.reg.ByPath(path)
	if err != nil {
		return nil, err
	}

	return f.objects[obj.Slot], nil
}

// Root returns the root object "/".
func (f *File) Root() (*Object, error) {
	return f.Object(objpath.Root)
}

// Channel returns the channel named channel in group.
func (f *File) Channel(group, channel string) (*Object, error) {
	return f.Object(objpath.Channel(group, channel))
}

// Paths returns every object path in the order objects first appeared.
func (f *File) Paths() ([]string, error) {
	if err := f.acquire(); err != nil {
		return nil, err
	}
	defer f.release()

	return slices.Collect(f.reg.AllPaths()), nil
}

// Objects returns every object in the order they first appeared.
func (f *File) Objects() ([]*Object, error) {
	if err := f.acquire(); err != nil {
		return nil, err
	}
	defer f.release()

	return slices.Clone(f.objects), nil
}

// Groups returns the unique group names in first-seen order. A group is
// listed as soon as any of its channels is, even without a group object.
func (f *File) Groups() ([]string, error) {
	if err := f.acquire(); err != nil {
		return nil, err
	}
	defer f.release()

	return slices.Clone(f.groups), nil
}

// GroupChannels returns the channels of group in first-seen order.
//
// Returns:
//   - []*Object: the channels, possibly none
//   - error: ErrNotFound when the file has no such group
func (f *File) GroupChannels(group string) ([]*Object, error) {
	if err := f.acquire(); err != nil {
		return nil, err
	}
	defer f.release()

	if !slices.Contains(f.groups, group) {
		return nil, fmt.Errorf("%w: group %q", errs.ErrNotFound, group)
	}

	var out []*Object
	for _, o := range f.objects {
		if o.IsChannel() && o.Group() == group {
			out = append(out, o)
		}
	}

	return out, nil
}

// Truncated reports whether the file ended before its last segment was
// complete.
func (f *File) Truncated() bool {
	return f.reg.Truncated()
}

// Segments returns a summary of every indexed segment.
func (f *File) Segments() []registry.SegmentInfo {
	return slices.Clone(f.reg.Segments())
}

// Compression returns the container the image was inflated from,
// format.CompressionNone for plain files.
func (f *File) Compression() format.CompressionType {
	return f.compression
}

// Close releases the source. It waits for reads in flight and is idempotent.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	f.closed = true
	level.Debug(f.logger).Log("msg", "closed tdms file")

	if err := f.src.Close(); err != nil {
		return errs.IO("close", err)
	}

	return nil
}
