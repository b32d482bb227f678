// Package source provides the random-access byte sources a TDMS file is read
// from: local files, memory mappings, afero filesystems, object storage
// buckets and in-memory images.
//
// Every read is positional. A Source never relies on a shared file cursor, so
// one Source can serve concurrent readers; implementations whose ReadAt is not
// safe for concurrent use are wrapped with Locked.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arloliu/tdms/errs"
)

// Source is a sized, closable io.ReaderAt.
type Source interface {
	io.ReaderAt
	// Size returns the total number of bytes available.
	Size() int64
	Close() error
}

type readerAt struct {
	r      io.ReaderAt
	size   int64
	closer io.Closer
}

// FromReaderAt adapts r to a Source of the given size. Close is a no-op
// unless r also implements io.Closer.
func FromReaderAt(r io.ReaderAt, size int64) Source {
	src := &readerAt{r: r, size: size}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}

	return src
}

// Bytes serves an image held in memory.
func Bytes(b []byte) Source {
	return &readerAt{r: bytes.NewReader(b), size: int64(len(b))}
}

func (s *readerAt) ReadAt(p []byte, off int64) (int, error) {
	return s.r.ReadAt(p, off)
}

func (s *readerAt) Size() int64 { return s.size }

func (s *readerAt) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// OpenFile opens a local file. *os.File reads positionally with pread, so the
// result needs no locking.
func OpenFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO("open", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errs.IO("stat", err)
	}

	if info.IsDir() {
		_ = f.Close()
		return nil, errs.IO("open", fmt.Errorf("%s is a directory", path))
	}

	return &readerAt{r: f, size: info.Size(), closer: f}, nil
}

type locked struct {
	mu  sync.Mutex
	src Source
}

// Locked serialises ReadAt calls on src. Each lock is held for exactly one
// read.
func Locked(src Source) Source {
	if l, ok := src.(*locked); ok {
		return l
	}

	return &locked{src: src}
}

func (l *locked) ReadAt(p []byte, off int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.src.ReadAt(p, off)
}

func (l *locked) Size() int64 { return l.src.Size() }

func (l *locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.src.Close()
}

// ReadFull reads exactly len(p) bytes at off. A short read at the end of the
// source is reported as io.ErrUnexpectedEOF; other failures wrap errs.ErrIO.
func ReadFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}

	if err == nil || errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return errs.IO("read", err)
}
