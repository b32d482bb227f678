package binding

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/tdmstest"
)

func writeImage(t *testing.T) string {
	t.Helper()

	le := binary.LittleEndian
	raw, total := tdmstest.Strings(endian.GetLittleEndianEngine(), "a", "bc")
	img := tdmstest.New().
		Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{
				{Path: "/", Index: tdmstest.NoData(), Props: []tdmstest.Prop{
					{Name: "author", Value: tdmstest.Str("lab")},
				}},
				{Path: "/'G'", Index: tdmstest.NoData()},
				{Path: "/'G'/'Volts'", Index: tdmstest.Inline(format.TypeI32, 3), Props: []tdmstest.Prop{
					{Name: "unit", Value: tdmstest.Str("V")},
					{Name: "gain", Value: tdmstest.F64(2.5)},
				}},
				{Path: "/'G'/'Tags'", Index: tdmstest.StringIndex(2, total)},
			},
			Raw: append(tdmstest.Pack(le, []int32{7, 8, 9}), raw...),
		}).
		Bytes()

	path := filepath.Join(t.TempDir(), "run.tdms")
	require.NoError(t, os.WriteFile(path, img, 0o600))

	return path
}

func openSession(t *testing.T) (*Session, Handle) {
	t.Helper()

	s := NewSession()
	f := s.Open(writeImage(t))
	require.NotZero(t, f, s.LastError())
	t.Cleanup(func() { s.CloseFile(f) })

	return s, f
}

func TestSession_Objects(t *testing.T) {
	s, f := openSession(t)

	ch := s.ObjectByPath(f, "/'G'/'Volts'")
	require.NotZero(t, ch)

	path, ok := s.PathOf(ch)
	require.True(t, ok)
	require.Equal(t, "/'G'/'Volts'", path)

	n, ok := s.NumberValues(ch)
	require.True(t, ok)
	require.Equal(t, uint64(3), n)

	name, ok := s.DataTypeName(ch)
	require.True(t, ok)
	require.Equal(t, "tdsTypeI32", name)

	buf := make([]byte, 12)
	written, ok := s.CopyData(ch, buf)
	require.True(t, ok)
	require.Equal(t, 12, written)
	require.Equal(t, uint32(9), binary.LittleEndian.Uint32(buf[8:]))

	written, ok = s.CopyRange(ch, 1, 1, buf)
	require.True(t, ok)
	require.Equal(t, 4, written)
	require.Equal(t, uint32(8), binary.LittleEndian.Uint32(buf))

	tags := s.ObjectByPath(f, "/'G'/'Tags'")
	strs, ok := s.ReadStrings(tags, 0, 2)
	require.True(t, ok)
	require.Equal(t, []string{"a", "bc"}, strs)

	_, ok = s.CopyData(tags, buf)
	require.False(t, ok)
	require.NotEmpty(t, s.LastError())
}

func TestSession_PathCursor(t *testing.T) {
	s, f := openSession(t)

	c := s.Paths(f)
	require.NotZero(t, c)

	var got []string
	for {
		p, ok := s.NextPath(c)
		if !ok {
			break
		}
		got = append(got, p)
	}

	require.Equal(t, []string{"/", "/'G'", "/'G'/'Volts'", "/'G'/'Tags'"}, got)
	require.Empty(t, s.LastError())
	require.True(t, s.Dispose(c))

	_, ok := s.NextPath(c)
	require.False(t, ok)
	require.Contains(t, s.LastError(), ErrInvalidHandle.Error())
}

func TestSession_PropertyCursor(t *testing.T) {
	s, f := openSession(t)

	c := s.Properties(s.ObjectByPath(f, "/'G'/'Volts'"))
	require.NotZero(t, c)
	require.False(t, s.PropertyOk(c))

	_, ok := s.PropertyName(c)
	require.False(t, ok)
	require.Contains(t, s.LastError(), "not on a property")

	require.True(t, s.PropertyNext(c))
	require.True(t, s.PropertyOk(c))

	name, _ := s.PropertyName(c)
	typ, _ := s.PropertyType(c)
	v, _ := s.PropertyValue(c)
	require.Equal(t, "gain", name)
	require.Equal(t, "tdsTypeDoubleFloat", typ)
	f64, ok := v.Float64()
	require.True(t, ok)
	require.InDelta(t, 2.5, f64, 0)

	require.True(t, s.PropertyNext(c))
	name, _ = s.PropertyName(c)
	require.Equal(t, "unit", name)

	require.False(t, s.PropertyNext(c))
	require.False(t, s.PropertyOk(c))
}

func TestSession_InvalidHandles(t *testing.T) {
	s, f := openSession(t)

	require.Zero(t, s.ObjectByPath(f, "/'missing'"))
	require.Contains(t, s.LastError(), errs.ErrNotFound.Error())

	// a file handle where an object is expected
	_, ok := s.NumberValues(f)
	require.False(t, ok)
	require.Contains(t, s.LastError(), "is a file handle, want object")

	_, ok = s.PathOf(12345)
	require.False(t, ok)

	require.False(t, s.Dispose(f))
	require.False(t, s.Dispose(0))

	require.Zero(t, s.Open(filepath.Join(t.TempDir(), "nope.tdms")))
	require.Contains(t, s.LastError(), errs.ErrIO.Error())

	s.ClearError()
	require.Empty(t, s.LastError())
}

func TestSession_CloseInvalidatesDependents(t *testing.T) {
	s := NewSession()
	f := s.Open(writeImage(t))
	require.NotZero(t, f)

	ch := s.ObjectByPath(f, "/'G'/'Volts'")
	props := s.Properties(ch)
	paths := s.Paths(f)
	require.Equal(t, 4, s.Len())

	segs, ok := s.Segments(f)
	require.True(t, ok)
	require.Len(t, segs, 1)
	require.True(t, segs[0].Final)

	require.True(t, s.CloseFile(f))
	require.Zero(t, s.Len())

	for _, h := range []Handle{ch, props, paths} {
		s.ClearError()
		require.False(t, s.PropertyOk(h))
		require.Contains(t, s.LastError(), errs.ErrUseAfterClose.Error())
	}

	require.False(t, s.CloseFile(f))
	require.Contains(t, s.LastError(), errs.ErrUseAfterClose.Error())

	// dead handles can still be released
	require.True(t, s.Dispose(ch))
	require.False(t, s.Dispose(ch))
}

func TestSession_LastErrorIsPerGoroutine(t *testing.T) {
	s, f := openSession(t)

	require.Zero(t, s.ObjectByPath(f, "/'missing'"))
	require.NotEmpty(t, s.LastError())

	var wg sync.WaitGroup
	msgs := make([]string, 4)
	for i := range msgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := s.ObjectByPath(f, "/'G'/'Volts'")
			if ch == 0 {
				msgs[i] = "open failed"

				return
			}
			msgs[i] = s.LastError()
			s.Dispose(ch)
		}()
	}
	wg.Wait()

	for _, m := range msgs {
		require.Empty(t, m)
	}
	require.NotEmpty(t, s.LastError())
}
