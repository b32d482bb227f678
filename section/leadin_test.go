package section

import (
	"encoding/binary"
	"testing"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/internal/tdmstest"
	"github.com/stretchr/testify/require"
)

func TestParseLeadIn(t *testing.T) {
	t.Run("LittleEndian", func(t *testing.T) {
		img := tdmstest.New().Segment(tdmstest.Segment{Raw: []byte{1, 2, 3, 4}}).Bytes()

		h, err := ParseLeadIn(img)
		require.NoError(t, err)
		require.Equal(t, TagSegment, h.Tag)
		require.Equal(t, uint32(Version4713), h.Version)
		require.True(t, h.ToC.HasMetaData())
		require.True(t, h.ToC.HasRawData())
		require.False(t, h.ToC.IsBigEndian())
		require.Equal(t, uint64(4), h.RawDataOffset) // object count only
		require.Equal(t, uint64(8), h.NextSegmentOffset)
	})

	t.Run("BigEndian", func(t *testing.T) {
		img := tdmstest.New().Segment(tdmstest.Segment{BigEndian: true, Interleaved: true}).Bytes()

		h, err := ParseLeadIn(img)
		require.NoError(t, err)
		require.True(t, h.ToC.IsBigEndian())
		require.True(t, h.ToC.IsInterleaved())
		require.Equal(t, uint64(4), h.RawDataOffset)
		// the ToC mask itself stays little-endian
		require.Equal(t, uint32(h.ToC), binary.LittleEndian.Uint32(img[4:8]))
	})

	t.Run("UnknownLength", func(t *testing.T) {
		img := tdmstest.New().Segment(tdmstest.Segment{UnknownLength: true}).Bytes()

		h, err := ParseLeadIn(img)
		require.NoError(t, err)
		require.True(t, h.HasUnknownLength())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		h := LeadIn{Tag: TagIndex, ToC: TocMetaData | TocBigEndian, Version: Version4712, NextSegmentOffset: 100, RawDataOffset: 60}
		got, err := ParseLeadIn(h.AppendTo(nil))
		require.NoError(t, err)
		require.Equal(t, h, got)
	})
}

func TestParseLeadInErrors(t *testing.T) {
	valid := tdmstest.New().Segment(tdmstest.Segment{}).Bytes()

	t.Run("Short", func(t *testing.T) {
		_, err := ParseLeadIn(valid[:LeadInSize-1])
		require.ErrorIs(t, err, errs.ErrInvalidSegmentHeader)
	})

	t.Run("BadTag", func(t *testing.T) {
		img := tdmstest.New().Segment(tdmstest.Segment{Tag: "XXXX"}).Bytes()
		_, err := ParseLeadIn(img)
		require.ErrorIs(t, err, errs.ErrInvalidSegmentHeader)
	})

	t.Run("BadVersion", func(t *testing.T) {
		img := tdmstest.New().Segment(tdmstest.Segment{Version: 1}).Bytes()
		_, err := ParseLeadIn(img)
		require.ErrorIs(t, err, errs.ErrInvalidSegmentHeader)
	})

	t.Run("RawOffsetBeyondNext", func(t *testing.T) {
		h := LeadIn{Tag: TagSegment, ToC: TocMetaData, Version: Version4713, NextSegmentOffset: 4, RawDataOffset: 8}
		_, err := ParseLeadIn(h.AppendTo(nil))
		require.ErrorIs(t, err, errs.ErrInvalidSegmentHeader)
	})
}

func TestToC_String(t *testing.T) {
	require.Equal(t, "none", ToC(0).String())
	require.Equal(t, "meta|raw|interleaved", ToC(TocMetaData|TocRawData|TocInterleavedData).String())
}
