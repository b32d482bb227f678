package registry

import (
	"sort"

	"github.com/arloliu/tdms/segment"
)

// Contribution is the data one segment adds to one object.
type Contribution struct {
	// Segment is the ordinal of the contributing segment.
	Segment int
	// Start is the logical index of the contribution's first value.
	Start uint64
	// Span locates the values in the file.
	Span segment.Span
}

// End returns the logical index one past the contribution's last value.
func (c Contribution) End() uint64 {
	return c.Start + c.Span.Values
}

// Layout is the ordered list of contributions of one object.
type Layout struct {
	parts []Contribution
	total uint64
}

func (l *Layout) add(ordinal int, span segment.Span) {
	l.parts = append(l.parts, Contribution{Segment: ordinal, Start: l.total, Span: span})
	l.total += span.Values
}

// Total returns the number of logical values.
func (l *Layout) Total() uint64 { return l.total }

// Len returns the number of contributions.
func (l *Layout) Len() int { return len(l.parts) }

// At returns contribution i.
func (l *Layout) At(i int) Contribution { return l.parts[i] }

// Contributions returns the contributions in segment order.
// The slice is shared and must not be modified.
func (l *Layout) Contributions() []Contribution { return l.parts }

// Locate finds the contribution holding logical value i.
//
// Returns:
//   - int: contribution number
//   - uint64: index of the value within that contribution
//   - bool: false when i is not below Total
func (l *Layout) Locate(i uint64) (int, uint64, bool) {
	if i >= l.total {
		return 0, 0, false
	}

	// first contribution whose end lies beyond i; empty contributions are never stored
	c := sort.Search(len(l.parts), func(k int) bool {
		return l.parts[k].End() > i
	})

	return c, i - l.parts[c].Start, true
}
