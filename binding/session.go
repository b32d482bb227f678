package binding

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tiendc/go-deepcopy"
	"github.com/timandy/routine"

	"github.com/arloliu/tdms"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/property"
	"github.com/arloliu/tdms/registry"
)

// ErrInvalidHandle is latched for handles the session never issued, already
// disposed handles and handles of the wrong kind.
var ErrInvalidHandle = errors.New("tdms: invalid handle")

var errCursorExhausted = errors.New("tdms: property cursor is not on a property")

// Handle identifies a file, object or cursor of a Session. Zero is never
// issued.
type Handle uint64

type kind uint8

const (
	kindFile kind = iota + 1
	kindObject
	kindPaths
	kindProperties
)

type entry struct {
	kind kind
	// file is the owning file handle; files own themselves
	file Handle

	f     *tdms.File
	obj   *tdms.Object
	paths *pathCursor
	props *property.Cursor
}

type pathCursor struct {
	paths []string
	pos   int
}

// Session owns the handles of one caller. It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	next    Handle
	entries map[Handle]*entry
	closed  map[Handle]struct{}
	opts    []tdms.Option

	lastErr routine.ThreadLocal[string]
}

// NewSession creates a session whose files are opened with opts.
func NewSession(opts ...tdms.Option) *Session {
	return &Session{
		entries: make(map[Handle]*entry),
		closed:  make(map[Handle]struct{}),
		opts:    opts,
		lastErr: routine.NewThreadLocal[string](),
	}
}

// LastError returns the message of the last failed call made by the calling
// goroutine, "" if none failed.
func (s *Session) LastError() string {
	return s.lastErr.Get()
}

// ClearError forgets the calling goroutine's last error.
func (s *Session) ClearError() {
	s.lastErr.Remove()
}

func (s *Session) fail(err error) {
	s.lastErr.Set(err.Error())
}

func (s *Session) issue(e *entry) Handle {
	s.next++
	h := s.next
	if e.kind == kindFile {
		e.file = h
	}

	s.entries[h] = e

	return h
}

// resolve looks up h, which must be of kind k and belong to an open file.
// The caller holds s.mu.
func (s *Session) resolve(h Handle, k kind) (*entry, error) {
	e, ok := s.entries[h]
	if !ok {
		if _, closed := s.closed[h]; closed {
			return nil, fmt.Errorf("%w: handle %d", errs.ErrUseAfterClose, h)
		}

		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}

	if e.kind != k {
		return nil, fmt.Errorf("%w: %d is a %s handle, want %s", ErrInvalidHandle, h, e.kind, k)
	}

	return e, nil
}

func (k kind) String() string {
	switch k {
	case kindFile:
		return "file"
	case kindObject:
		return "object"
	case kindPaths:
		return "path cursor"
	case kindProperties:
		return "property cursor"
	default:
		return "unknown"
	}
}

// Open opens and indexes the file at path.
func (s *Session) Open(path string) Handle {
	f, err := tdms.Open(path, s.opts...)
	if err != nil {
		s.fail(err)
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.issue(&entry{kind: kindFile, f: f})
}

// CloseFile closes a file and invalidates every handle obtained through it.
func (s *Session) CloseFile(file Handle) bool {
	s.mu.Lock()
	e, err := s.resolve(file, kindFile)
	if err != nil {
		s.mu.Unlock()
		s.fail(err)

		return false
	}

	for h, other := range s.entries {
		if other.file == file {
			delete(s.entries, h)
			s.closed[h] = struct{}{}
		}
	}
	s.mu.Unlock()

	if err := e.f.Close(); err != nil {
		s.fail(err)
		return false
	}

	return true
}

// ObjectByPath resolves an object of file by its exact path.
func (s *Session) ObjectByPath(file Handle, path string) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.resolve(file, kindFile)
	if err != nil {
		s.fail(err)
		return 0
	}

	obj, err := e.f.Object(path)
	if err != nil {
		s.fail(fmt.Errorf("%s is not an object: %w", path, err))
		return 0
	}

	return s.issue(&entry{kind: kindObject, file: file, obj: obj})
}

// PathOf returns the path of an object handle.
func (s *Session) PathOf(obj Handle) (string, bool) {
	o, ok := s.object(obj)
	if !ok {
		return "", false
	}

	return o.Path(), true
}

func (s *Session) object(h Handle) (*tdms.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.resolve(h, kindObject)
	if err != nil {
		s.fail(err)
		return nil, false
	}

	return e.obj, true
}

// NumberValues returns the number of raw values of an object.
func (s *Session) NumberValues(obj Handle) (uint64, bool) {
	o, ok := s.object(obj)
	if !ok {
		return 0, false
	}

	return o.NumValues(), true
}

// DataTypeName returns the type name of an object's data, e.g. tdsTypeI32.
func (s *Session) DataTypeName(obj Handle) (string, bool) {
	o, ok := s.object(obj)
	if !ok {
		return "", false
	}

	return o.DataType().Name(), true
}

// CopyData copies every value of a fixed-width object into dst as
// little-endian element bytes and returns the number of bytes written.
func (s *Session) CopyData(obj Handle, dst []byte) (int, bool) {
	o, ok := s.object(obj)
	if !ok {
		return 0, false
	}

	return s.copyRange(o, 0, o.NumValues(), dst)
}

// CopyRange copies count values starting at start, like CopyData.
func (s *Session) CopyRange(obj Handle, start, count uint64, dst []byte) (int, bool) {
	o, ok := s.object(obj)
	if !ok {
		return 0, false
	}

	return s.copyRange(o, start, count, dst)
}

func (s *Session) copyRange(o *tdms.Object, start, count uint64, dst []byte) (int, bool) {
	n, err := o.ReadInto(start, count, dst)
	if err != nil {
		s.fail(err)
		return 0, false
	}

	return n, true
}

// ReadStrings reads count values of a string object starting at start.
func (s *Session) ReadStrings(obj Handle, start, count uint64) ([]string, bool) {
	o, ok := s.object(obj)
	if !ok {
		return nil, false
	}

	strs, err := o.Strings(start, count)
	if err != nil {
		s.fail(err)
		return nil, false
	}

	return strs, true
}

// Segments returns a copy of the segment summaries of file.
func (s *Session) Segments(file Handle) ([]registry.SegmentInfo, bool) {
	s.mu.Lock()
	e, err := s.resolve(file, kindFile)
	s.mu.Unlock()

	if err != nil {
		s.fail(err)
		return nil, false
	}

	var out []registry.SegmentInfo
	if err := deepcopy.Copy(&out, e.f.Segments()); err != nil {
		s.fail(err)
		return nil, false
	}

	return out, true
}

// Dispose releases an object or cursor handle. Files are released with
// CloseFile.
func (s *Session) Dispose(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[h]
	if !ok || e.kind == kindFile {
		if _, closed := s.closed[h]; closed {
			delete(s.closed, h)
			return true
		}

		s.fail(fmt.Errorf("%w: %d cannot be disposed", ErrInvalidHandle, h))

		return false
	}

	delete(s.entries, h)

	return true
}

// Len returns the number of live handles.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
