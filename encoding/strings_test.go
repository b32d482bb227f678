package encoding

import (
	"encoding/binary"
	"testing"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/stretchr/testify/require"
)

func buildStringChunk(values []string) (table []byte, payload []byte) {
	end := uint32(0)
	for _, v := range values {
		end += uint32(len(v)) //nolint:gosec
		table = binary.LittleEndian.AppendUint32(table, end)
		payload = append(payload, v...)
	}

	return table, payload
}

func TestStringIndexRoundTrip(t *testing.T) {
	values := []string{"alpha", "", "βγδ", "日本語", "", "z"}
	table, payload := buildStringChunk(values)

	idx, err := DecodeStringIndex(table, len(values), uint64(len(payload)), endian.GetLittleEndianEngine())
	require.NoError(t, err)
	require.Equal(t, len(values), idx.Len())
	require.Equal(t, uint32(len(payload)), idx.PayloadSize())

	require.Equal(t, values, idx.Slice(payload, 0, 0, len(values), nil))

	t.Run("SubRangeWithBase", func(t *testing.T) {
		start, end := idx.Span(2, 2)
		got := idx.Slice(payload[start:end], start, 2, 2, nil)
		require.Equal(t, []string{"βγδ", "日本語"}, got)
	})

	t.Run("EmptySpan", func(t *testing.T) {
		start, end := idx.Span(3, 0)
		require.Equal(t, start, end)
	})
}

func TestDecodeStringIndexErrors(t *testing.T) {
	le := endian.GetLittleEndianEngine()

	t.Run("ShortTable", func(t *testing.T) {
		_, err := DecodeStringIndex([]byte{1, 0}, 1, 10, le)
		require.ErrorIs(t, err, errs.ErrCorruptMetadata)
	})

	t.Run("Decreasing", func(t *testing.T) {
		table := binary.LittleEndian.AppendUint32(nil, 5)
		table = binary.LittleEndian.AppendUint32(table, 3)
		_, err := DecodeStringIndex(table, 2, 10, le)
		require.ErrorIs(t, err, errs.ErrCorruptMetadata)
	})

	t.Run("BeyondPayload", func(t *testing.T) {
		table := binary.LittleEndian.AppendUint32(nil, 11)
		_, err := DecodeStringIndex(table, 1, 10, le)
		require.ErrorIs(t, err, errs.ErrCorruptMetadata)
	})

	t.Run("BigEndian", func(t *testing.T) {
		table := binary.BigEndian.AppendUint32(nil, 3)
		idx, err := DecodeStringIndex(table, 1, 3, endian.GetBigEndianEngine())
		require.NoError(t, err)
		require.Equal(t, []string{"abc"}, idx.Slice([]byte("abc"), 0, 0, 1, nil))
	})
}
