// Package property holds the typed name/value tables attached to TDMS objects.
package property

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/errs"
)

// Property is one named, typed value.
type Property struct {
	Name  string
	Value encoding.Value
}

// Store is a property table with last-write-wins semantics.
//
// Entries are kept sorted by name so enumeration is deterministic and lookups
// are a binary search. There is no removal.
//
// A Store is not safe for concurrent mutation. Once an object's file has been
// fully indexed its store is only read, which is safe from any goroutine.
type Store struct {
	props []Property
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) search(name string) (int, bool) {
	return slices.BinarySearchFunc(s.props, name, func(p Property, n string) int {
		return strings.Compare(p.Name, n)
	})
}

// Set stores value under name, replacing any existing entry.
func (s *Store) Set(name string, value encoding.Value) {
	i, found := s.search(name)
	if found {
		s.props[i].Value = value
		return
	}

	s.props = slices.Insert(s.props, i, Property{Name: name, Value: value})
}

// Merge applies every property of props in order, as consecutive Set calls.
func (s *Store) Merge(props []Property) {
	for _, p := range props {
		s.Set(p.Name, p.Value)
	}
}

// Get returns the value stored under name.
//
// Returns:
//   - encoding.Value: the stored value
//   - error: ErrPropertyNotFound if name has never been set
func (s *Store) Get(name string) (encoding.Value, error) {
	if s == nil {
		return encoding.Value{}, fmt.Errorf("%w: %q", errs.ErrPropertyNotFound, name)
	}

	i, found := s.search(name)
	if !found {
		return encoding.Value{}, fmt.Errorf("%w: %q", errs.ErrPropertyNotFound, name)
	}

	return s.props[i].Value, nil
}

// Has reports whether name has been set.
func (s *Store) Has(name string) bool {
	if s == nil {
		return false
	}

	_, found := s.search(name)

	return found
}

// Len returns the number of distinct property names.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}

	return len(s.props)
}

// All yields every property in lexicographic name order.
func (s *Store) All() iter.Seq2[string, encoding.Value] {
	return func(yield func(string, encoding.Value) bool) {
		if s == nil {
			return
		}

		for _, p := range s.props {
			if !yield(p.Name, p.Value) {
				return
			}
		}
	}
}

// Snapshot returns an ordered copy of the table.
func (s *Store) Snapshot() []Property {
	if s == nil {
		return nil
	}

	return slices.Clone(s.props)
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return &Store{props: s.Snapshot()}
}

// Cursor returns a forward-only cursor over a snapshot of the table.
// Later changes to the store are not observed by the cursor.
func (s *Store) Cursor() *Cursor {
	return NewCursor(s.Snapshot())
}
