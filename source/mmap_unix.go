//go:build unix

package source

import (
	"io"
	"math"
	"os"

	"golang.org/x/sys/unix"

	"github.com/arloliu/tdms/errs"
)

type mapping struct {
	data []byte
}

// Mmap maps a local file read-only. If the file cannot be mapped (empty
// files, filesystems without mmap support) it falls back to OpenFile.
func Mmap(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO("open", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.IO("stat", err)
	}

	size := info.Size()
	if size <= 0 || size > math.MaxInt || info.IsDir() {
		return OpenFile(path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED) //nolint:gosec
	if err != nil {
		return OpenFile(path)
	}

	return &mapping{data: data}, nil
}

func (m *mapping) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errs.IO("read", os.ErrInvalid)
	}

	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (m *mapping) Size() int64 { return int64(len(m.data)) }

func (m *mapping) Close() error {
	if m.data == nil {
		return nil
	}

	data := m.data
	m.data = nil

	return unix.Munmap(data)
}
