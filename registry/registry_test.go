package registry

import (
	"bytes"
	"encoding/binary"
	"slices"
	"testing"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/tdmstest"
	"github.com/arloliu/tdms/objpath"
	"github.com/arloliu/tdms/segment"
	"github.com/stretchr/testify/require"
)

var le = binary.LittleEndian

// foldAll parses and folds every segment of img.
func foldAll(t *testing.T, img []byte) (*Registry, error) {
	t.Helper()

	r := New()
	src := bytes.NewReader(img)
	size := int64(len(img))

	var offset int64
	for ordinal := 0; offset < size; ordinal++ {
		d, err := segment.Parse(src, ordinal, offset, size, r.Prior())
		if err != nil {
			return r, err
		}

		if err := r.Fold(d); err != nil {
			return r, err
		}

		offset = d.Next
	}

	return r, nil
}

func twoSegmentImage() []byte {
	return tdmstest.New().
		Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{
				{Path: "/", Index: tdmstest.NoData()},
				{Path: "/'G'", Index: tdmstest.NoData()},
				{Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeI32, 4), Props: []tdmstest.Prop{
					{Name: "unit", Value: tdmstest.Str("V")},
				}},
			},
			Raw: tdmstest.Pack(le, []int32{10, 20, 30, 40}),
		}).
		Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{{Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeI32, 2)}},
			Raw:     tdmstest.Pack(le, []int32{50, 60}),
		}).
		Bytes()
}

func TestFold_OrderAndCounts(t *testing.T) {
	r, err := foldAll(t, twoSegmentImage())
	require.NoError(t, err)

	require.Equal(t, []string{"/", "/'G'", "/'G'/'C'"}, slices.Collect(r.AllPaths()))
	require.Equal(t, 3, r.Len())
	require.Len(t, r.Segments(), 2)
	require.False(t, r.Truncated())

	ch, err := r.ByPath("/'G'/'C'")
	require.NoError(t, err)
	require.Equal(t, format.TypeI32, ch.DataType)
	require.Equal(t, objpath.KindChannel, ch.Parsed.Kind)
	require.Equal(t, uint64(6), ch.Layout.Total())
	require.Equal(t, 2, ch.Layout.Len())
	require.Equal(t, uint64(4), ch.Layout.At(1).Start)

	unit, err := ch.Props.Get("unit")
	require.NoError(t, err)
	require.Equal(t, "V", unit.Interface())

	root, err := r.ByPath("/")
	require.NoError(t, err)
	require.False(t, root.HasData())
	require.Equal(t, format.TypeVoid, root.DataType)

	_, err = r.ByPath("/'missing'")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestFold_PropertyOverwriteVersusReuse(t *testing.T) {
	first := tdmstest.Segment{
		Objects: []tdmstest.Object{{Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeI32, 1), Props: []tdmstest.Prop{
			{Name: "P", Value: tdmstest.I32(1)},
		}}},
		Raw: tdmstest.Pack(le, []int32{7}),
	}

	t.Run("LaterSegmentOverwrites", func(t *testing.T) {
		img := tdmstest.New().Segment(first).Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{{Path: "/'G'/'C'", Index: tdmstest.Reuse(), Props: []tdmstest.Prop{
				{Name: "P", Value: tdmstest.I32(2)},
			}}},
			Raw: tdmstest.Pack(le, []int32{8}),
		}).Bytes()

		r, err := foldAll(t, img)
		require.NoError(t, err)

		ch, _ := r.ByPath("/'G'/'C'")
		p, err := ch.Props.Get("P")
		require.NoError(t, err)
		require.Equal(t, int32(2), p.Interface())
		require.Equal(t, uint64(2), ch.Layout.Total())
	})

	t.Run("ReusedLayoutKeepsProperty", func(t *testing.T) {
		img := tdmstest.New().Segment(first).Segment(tdmstest.Segment{
			NoMetadata: true,
			Raw:        tdmstest.Pack(le, []int32{8}),
		}).Bytes()

		r, err := foldAll(t, img)
		require.NoError(t, err)

		ch, _ := r.ByPath("/'G'/'C'")
		p, err := ch.Props.Get("P")
		require.NoError(t, err)
		require.Equal(t, int32(1), p.Interface())
		require.Equal(t, uint64(2), ch.Layout.Total())
	})
}

func TestFold_TypeMismatch(t *testing.T) {
	img := tdmstest.New().
		Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{{Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeI32, 1)}},
			Raw:     tdmstest.Pack(le, []int32{1}),
		}).
		Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{
				{Path: "/'G'/'New'", Index: tdmstest.NoData()},
				{Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeDoubleFloat, 1)},
			},
			Raw: tdmstest.Pack(le, []float64{1}),
		}).
		Bytes()

	r, err := foldAll(t, img)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	// the rejected delta registered nothing
	require.Equal(t, 1, r.Len())
	require.Len(t, r.Segments(), 1)
}

func TestFold_TypeFromEmptyIndex(t *testing.T) {
	img := tdmstest.New().
		Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{{Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeU16, 0)}},
		}).
		Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{{Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeU16, 2)}},
			Raw:     tdmstest.Pack(le, []uint16{1, 2}),
		}).
		Bytes()

	r, err := foldAll(t, img)
	require.NoError(t, err)

	ch, _ := r.ByPath("/'G'/'C'")
	require.Equal(t, format.TypeU16, ch.DataType)
	require.Equal(t, 1, ch.Layout.Len(), "empty contributions are not stored")
}

func TestFold_Truncated(t *testing.T) {
	img := tdmstest.New().Segment(tdmstest.Segment{
		Objects:     []tdmstest.Object{{Path: "/'G'/'C'", Index: tdmstest.Inline(format.TypeI32, 4)}},
		Raw:         tdmstest.Pack(le, []int32{1, 2, 3}),
		DeclaredRaw: 16,
	}).Bytes()

	r, err := foldAll(t, img)
	require.NoError(t, err)
	require.True(t, r.Truncated())
	require.True(t, r.Segments()[0].Truncated)

	ch, _ := r.ByPath("/'G'/'C'")
	require.Equal(t, uint64(3), ch.Layout.Total())
}

func TestLayout_Locate(t *testing.T) {
	var l Layout
	for i, n := range []uint64{4, 1, 10, 3} {
		l.add(i, segment.Span{Values: n})
	}

	require.Equal(t, uint64(18), l.Total())

	tests := []struct {
		index uint64
		part  int
		local uint64
	}{
		{0, 0, 0}, {3, 0, 3}, {4, 1, 0}, {5, 2, 0}, {14, 2, 9}, {15, 3, 0}, {17, 3, 2},
	}

	for _, tt := range tests {
		part, local, ok := l.Locate(tt.index)
		require.True(t, ok)
		require.Equal(t, tt.part, part, "index %d", tt.index)
		require.Equal(t, tt.local, local, "index %d", tt.index)
	}

	_, _, ok := l.Locate(18)
	require.False(t, ok)

	var empty Layout
	_, _, ok = empty.Locate(0)
	require.False(t, ok)
}
