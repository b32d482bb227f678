package binding

import (
	"github.com/tiendc/go-deepcopy"

	"github.com/arloliu/tdms/encoding"
)

// Paths creates a cursor over the object paths of file in parse order.
// The cursor works on a snapshot taken now.
func (s *Session) Paths(file Handle) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.resolve(file, kindFile)
	if err != nil {
		s.fail(err)
		return 0
	}

	paths, err := e.f.Paths()
	if err != nil {
		s.fail(err)
		return 0
	}

	c := &pathCursor{}
	if err := deepcopy.Copy(&c.paths, paths); err != nil {
		s.fail(err)
		return 0
	}

	return s.issue(&entry{kind: kindPaths, file: file, paths: c})
}

// NextPath returns the next path of a path cursor. It reports false once the
// cursor is exhausted, without latching an error.
func (s *Session) NextPath(cursor Handle) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.resolve(cursor, kindPaths)
	if err != nil {
		s.fail(err)
		return "", false
	}

	c := e.paths
	if c.pos >= len(c.paths) {
		return "", false
	}

	c.pos++

	return c.paths[c.pos-1], true
}

// Properties creates a cursor over the properties of obj in name order. The
// cursor starts before the first property; call PropertyNext to move onto it.
func (s *Session) Properties(obj Handle) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.resolve(obj, kindObject)
	if err != nil {
		s.fail(err)
		return 0
	}

	c, err := e.obj.PropertyCursor()
	if err != nil {
		s.fail(err)
		return 0
	}

	return s.issue(&entry{kind: kindProperties, file: e.file, props: c})
}

func (s *Session) property(cursor Handle) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.resolve(cursor, kindProperties)
	if err != nil {
		s.fail(err)
		return nil, false
	}

	return e, true
}

// PropertyOk reports whether the cursor is on a property.
func (s *Session) PropertyOk(cursor Handle) bool {
	e, ok := s.property(cursor)
	return ok && e.props.Valid()
}

// PropertyNext advances the cursor and reports whether it is still on a
// property.
func (s *Session) PropertyNext(cursor Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.resolve(cursor, kindProperties)
	if err != nil {
		s.fail(err)
		return false
	}

	return e.props.Next()
}

// PropertyName returns the name of the current property.
func (s *Session) PropertyName(cursor Handle) (string, bool) {
	_, name, ok := s.current(cursor)
	return name, ok
}

// PropertyType returns the type name of the current property.
func (s *Session) PropertyType(cursor Handle) (string, bool) {
	v, _, ok := s.current(cursor)
	if !ok {
		return "", false
	}

	return v.Type().Name(), true
}

// PropertyValue returns the value of the current property.
func (s *Session) PropertyValue(cursor Handle) (encoding.Value, bool) {
	v, _, ok := s.current(cursor)
	return v, ok
}

func (s *Session) current(cursor Handle) (encoding.Value, string, bool) {
	e, ok := s.property(cursor)
	if !ok {
		return encoding.Value{}, "", false
	}

	if !e.props.Valid() {
		s.fail(errCursorExhausted)
		return encoding.Value{}, "", false
	}

	p := e.props.Property()

	return p.Value, p.Name, true
}
