// Package pathindex maps TDMS object paths to arena slots by their xxHash64.
//
// Paths are looked up by hash first. Distinct paths that share a hash are
// detected at insert time and moved to an exact-match fallback table, so
// lookups never return the wrong slot.
package pathindex

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a path.
func ID(path string) uint64 {
	return xxhash.Sum64String(path)
}

type entry struct {
	path string
	slot int
}

// Index maps paths to slots.
// It is not safe for concurrent mutation; concurrent lookups are safe.
type Index struct {
	byID       map[uint64]entry
	collisions map[string]int // paths whose hash is owned by another path
}

// New creates an index sized for n paths.
func New(n int) *Index {
	return &Index{byID: make(map[uint64]entry, n)}
}

// Insert records path at slot.
// It reports false, leaving the index unchanged, when path is already present.
func (x *Index) Insert(path string, slot int) bool {
	id := ID(path)

	existing, ok := x.byID[id]
	if !ok {
		x.byID[id] = entry{path: path, slot: slot}
		return true
	}

	if existing.path == path {
		return false
	}

	if _, dup := x.collisions[path]; dup {
		return false
	}

	if x.collisions == nil {
		x.collisions = make(map[string]int)
	}

	x.collisions[path] = slot

	return true
}

// Lookup returns the slot of path.
func (x *Index) Lookup(path string) (int, bool) {
	existing, ok := x.byID[ID(path)]
	if !ok {
		return 0, false
	}

	if existing.path == path {
		return existing.slot, true
	}

	slot, ok := x.collisions[path]

	return slot, ok
}

// Len returns the number of paths in the index.
func (x *Index) Len() int {
	return len(x.byID) + len(x.collisions)
}

// HasCollision reports whether two distinct paths have shared a hash.
func (x *Index) HasCollision() bool {
	return len(x.collisions) > 0
}
