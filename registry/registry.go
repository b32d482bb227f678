// Package registry folds parsed segments into the file's object hierarchy.
//
// A Registry owns every object of a file in an arena ordered by first
// appearance. Each fold merges properties, fixes data types and appends one
// layout contribution per data-bearing object, so that after the last segment
// every object knows where each of its logical values lives.
//
// Fold must be called from one goroutine. Once folding is done the registry
// is only read and is safe for concurrent use.
package registry

import (
	"fmt"
	"iter"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/pathindex"
	"github.com/arloliu/tdms/objpath"
	"github.com/arloliu/tdms/property"
	"github.com/arloliu/tdms/section"
	"github.com/arloliu/tdms/segment"
)

// Object is one root, group or channel of the file.
type Object struct {
	// Slot is the object's position in first-seen order.
	Slot int
	Path string
	// Parsed holds the split path. Unparsable paths are kept as KindOther.
	Parsed   objpath.Parsed
	DataType format.DataType
	Props    *property.Store
	Layout   Layout
}

// HasData reports whether the object has at least one raw value.
func (o *Object) HasData() bool { return o.Layout.Total() > 0 }

// SegmentInfo summarizes one folded segment.
type SegmentInfo struct {
	Ordinal   int
	Offset    int64
	ToC       section.ToC
	Version   uint32
	RawStart  int64
	RawSize   uint64
	ChunkSize uint64
	Chunks    uint64
	Objects   int
	Final     bool
	Truncated bool
}

// Registry is the object index of one file.
type Registry struct {
	objects  []*Object
	index    *pathindex.Index
	list     []segment.Entry
	last     map[string]section.RawDataIndex
	segments []SegmentInfo
	trunc    bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		index: pathindex.New(16),
		last:  make(map[string]section.RawDataIndex),
	}
}

// Fold merges one segment delta.
//
// Deltas must be folded in file order. A rejected delta leaves the registry
// unchanged.
//
// Returns:
//   - error: ErrTypeMismatch when the delta declares a type different from an
//     object's established type
func (r *Registry) Fold(d *segment.Delta) error {
	if err := r.validate(d); err != nil {
		return err
	}

	for _, meta := range d.Described {
		obj := r.obtain(meta.Path)
		obj.Props.Merge(meta.Properties)

		if meta.Kind == section.IndexInline && obj.DataType == format.TypeVoid {
			obj.DataType = meta.Index.DataType
		}
	}

	for _, e := range d.Objects {
		if !e.HasData {
			continue
		}

		r.last[e.Path] = e.Index

		// reused indices can introduce the type of an object without data so far
		if obj := r.obtain(e.Path); obj.DataType == format.TypeVoid {
			obj.DataType = e.Index.DataType
		}
	}

	for _, span := range d.Spans {
		r.obtain(span.Path).Layout.add(d.Ordinal, span)
	}

	r.list = d.Objects
	r.trunc = r.trunc || d.Truncated
	r.segments = append(r.segments, SegmentInfo{
		Ordinal:   d.Ordinal,
		Offset:    d.Offset,
		ToC:       d.LeadIn.ToC,
		Version:   d.LeadIn.Version,
		RawStart:  d.RawStart,
		RawSize:   d.RawSize,
		ChunkSize: d.ChunkSize,
		Chunks:    d.Chunks,
		Objects:   len(d.Objects),
		Final:     d.Final,
		Truncated: d.Truncated,
	})

	return nil
}

func (r *Registry) validate(d *segment.Delta) error {
	pending := make(map[string]format.DataType)

	check := func(path string, dt format.DataType) error {
		established := format.TypeVoid
		if obj, ok := r.lookup(path); ok {
			established = obj.DataType
		}

		if established == format.TypeVoid {
			established = pending[path]
		}

		if established != format.TypeVoid && established != dt {
			return fmt.Errorf("%w: %q is %s, segment %d declares %s",
				errs.ErrTypeMismatch, path, established.Name(), d.Ordinal, dt.Name())
		}

		pending[path] = dt

		return nil
	}

	for _, meta := range d.Described {
		if meta.Kind != section.IndexInline {
			continue
		}

		if err := check(meta.Path, meta.Index.DataType); err != nil {
			return err
		}
	}

	for _, e := range d.Objects {
		if !e.HasData {
			continue
		}

		if err := check(e.Path, e.Index.DataType); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) lookup(path string) (*Object, bool) {
	slot, ok := r.index.Lookup(path)
	if !ok {
		return nil, false
	}

	return r.objects[slot], true
}

// obtain returns the object at path, registering it when new.
func (r *Registry) obtain(path string) *Object {
	if obj, ok := r.lookup(path); ok {
		return obj
	}

	parsed, err := objpath.Parse(path)
	if err != nil {
		parsed = objpath.Parsed{Path: path, Kind: objpath.KindOther}
	}

	obj := &Object{
		Slot:   len(r.objects),
		Path:   path,
		Parsed: parsed,
		Props:  property.NewStore(),
	}

	r.objects = append(r.objects, obj)
	r.index.Insert(path, obj.Slot)

	return obj
}

// ByPath returns the object at path.
//
// Returns:
//   - *Object: the object
//   - error: ErrNotFound if no segment described path
func (r *Registry) ByPath(path string) (*Object, error) {
	obj, ok := r.lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrNotFound, path)
	}

	return obj, nil
}

// At returns the object in slot i.
func (r *Registry) At(i int) *Object { return r.objects[i] }

// AllPaths yields every object path in first-seen order.
func (r *Registry) AllPaths() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, obj := range r.objects {
			if !yield(obj.Path) {
				return
			}
		}
	}
}

// Objects yields every object in first-seen order.
func (r *Registry) Objects() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, obj := range r.objects {
			if !yield(obj) {
				return
			}
		}
	}
}

// Len returns the number of objects.
func (r *Registry) Len() int { return len(r.objects) }

// Prior exposes the carry-over state needed to parse the next segment.
func (r *Registry) Prior() segment.Prior { return prior{r} }

// Segments returns a summary of every folded segment, in file order.
func (r *Registry) Segments() []SegmentInfo { return r.segments }

// Truncated reports whether any folded segment was truncated.
func (r *Registry) Truncated() bool { return r.trunc }

// MarkTruncated records truncation detected outside a segment, such as a
// cut-off lead-in at the end of the file.
func (r *Registry) MarkTruncated() { r.trunc = true }

type prior struct{ r *Registry }

func (p prior) ObjectList() []segment.Entry { return p.r.list }

func (p prior) LastIndex(path string) (section.RawDataIndex, bool) {
	idx, ok := p.r.last[path]
	return idx, ok
}
