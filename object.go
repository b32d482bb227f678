package tdms

import (
	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/extract"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/objpath"
	"github.com/arloliu/tdms/property"
	"github.com/arloliu/tdms/registry"
)

// Object is a handle to one root, group or channel of a File.
//
// Identity accessors (Path, Name, Kind, DataType, NumValues) describe the
// object as indexed and keep working after Close. Every method that reads
// properties or values fails with errs.ErrUseAfterClose once the file is
// closed.
type Object struct {
	f   *File
	obj *registry.Object
}

func newObject(f *File, obj *registry.Object) *Object {
	return &Object{f: f, obj: obj}
}

// Path returns the full object path, e.g. /'Group'/'Channel'.
func (o *Object) Path() string { return o.obj.Path }

// Name returns the last path component, "" for the root.
func (o *Object) Name() string { return o.obj.Parsed.Name() }

// Group returns the group name of groups and channels, "" for the root.
func (o *Object) Group() string { return o.obj.Parsed.GroupName() }

// Kind returns the position of the object in the hierarchy.
func (o *Object) Kind() objpath.Kind { return o.obj.Parsed.Kind }

// IsRoot reports whether the object is the file root "/".
func (o *Object) IsRoot() bool { return o.obj.Parsed.Kind == objpath.KindRoot }

// IsGroup reports whether the object is a group such as /'Group'.
func (o *Object) IsGroup() bool { return o.obj.Parsed.Kind == objpath.KindGroup }

// IsChannel reports whether the object is a channel such as /'Group'/'Channel'.
func (o *Object) IsChannel() bool { return o.obj.Parsed.Kind == objpath.KindChannel }

// DataType returns the raw data type, format.TypeVoid for objects without data.
func (o *Object) DataType() format.DataType { return o.obj.DataType }

// NumValues returns the total number of raw values over all segments.
func (o *Object) NumValues() uint64 { return o.obj.Layout.Total() }

// Property returns the current value of the named property.
func (o *Object) Property(name string) (encoding.Value, error) {
	if err := o.f.acquire(); err != nil {
		return encoding.Value{}, err
	}
	defer o.f.release()

	return o.obj.Props.Get(name)
}

// Properties returns a snapshot of the properties sorted by name.
func (o *Object) Properties() ([]property.Property, error) {
	if err := o.f.acquire(); err != nil {
		return nil, err
	}
	defer o.f.release()

	return o.obj.Props.Snapshot(), nil
}

// PropertyCursor returns a forward-only cursor over a property snapshot.
func (o *Object) PropertyCursor() (*property.Cursor, error) {
	if err := o.f.acquire(); err != nil {
		return nil, err
	}
	defer o.f.release()

	return o.obj.Props.Cursor(), nil
}

// ReadValues decodes count values starting at logical index start.
//
// Returns:
//   - []encoding.Value: the decoded values
//   - error: ErrOutOfRange when start+count exceeds NumValues, ErrIO when the
//     source fails, ErrUseAfterClose after Close
func (o *Object) ReadValues(start, count uint64) ([]encoding.Value, error) {
	if err := o.f.acquire(); err != nil {
		return nil, err
	}
	defer o.f.release()

	return o.f.x.ReadRange(o.obj, start, count)
}

// ReadInto copies count values starting at start into dst as little-endian
// element bytes and returns the number of bytes written. String channels
// cannot be copied; use Strings.
func (o *Object) ReadInto(start, count uint64, dst []byte) (int, error) {
	if err := o.f.acquire(); err != nil {
		return 0, err
	}
	defer o.f.release()

	return o.f.x.ReadInto(o.obj, start, count, dst)
}

// Strings reads count values of a string channel starting at start.
func (o *Object) Strings(start, count uint64) ([]string, error) {
	if err := o.f.acquire(); err != nil {
		return nil, err
	}
	defer o.f.release()

	return o.f.x.ReadStrings(o.obj, start, count)
}

// ReadAs reads count values of o starting at start as Go values of type T.
//
// Integer channels convert to any integer type that holds every value and to
// floats; float channels convert to floats only. Timestamp channels read as
// encoding.Timestamp or time.Time.
//
// Example:
//
//	volts, err := tdms.ReadAs[float64](ch, 0, ch.NumValues())
func ReadAs[T encoding.Scalar](o *Object, start, count uint64) ([]T, error) {
	if err := o.f.acquire(); err != nil {
		return nil, err
	}
	defer o.f.release()

	return extract.ReadAs[T](o.f.x, o.obj, start, count)
}

// ReadNumbers appends count values of a numeric channel to dst, converting
// each with a Go conversion. It avoids the per-value overhead of ReadAs.
func ReadNumbers[T encoding.Number](o *Object, start, count uint64, dst []T) ([]T, error) {
	if err := o.f.acquire(); err != nil {
		return dst, err
	}
	defer o.f.release()

	return extract.ReadNumbers(o.f.x, o.obj, start, count, dst)
}
