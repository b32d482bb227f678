package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForSegment(t *testing.T) {
	require.Equal(t, GetLittleEndianEngine(), ForSegment(false))
	require.Equal(t, GetBigEndianEngine(), ForSegment(true))

	require.True(t, IsBigEndian(ForSegment(true)))
	require.False(t, IsBigEndian(ForSegment(false)))
}

func TestEngineDecodesIndependentOfHost(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	require.Equal(t, uint32(0x04030201), ForSegment(false).Uint32(data))
	require.Equal(t, uint32(0x01020304), ForSegment(true).Uint32(data))
}

func TestSwapUnits(t *testing.T) {
	t.Run("Words", func(t *testing.T) {
		buf := binary.BigEndian.AppendUint32(nil, 0xDEADBEEF)
		buf = binary.BigEndian.AppendUint32(buf, 42)

		SwapUnits(buf, 4)

		require.Equal(t, uint32(0xDEADBEEF), binary.LittleEndian.Uint32(buf[0:4]))
		require.Equal(t, uint32(42), binary.LittleEndian.Uint32(buf[4:8]))
	})

	t.Run("SingleByteIsNoop", func(t *testing.T) {
		buf := []byte{1, 2, 3}
		SwapUnits(buf, 1)
		require.Equal(t, []byte{1, 2, 3}, buf)
	})

	t.Run("TrailingPartialWordUntouched", func(t *testing.T) {
		buf := []byte{1, 2, 3, 4, 5}
		SwapUnits(buf, 2)
		require.Equal(t, []byte{2, 1, 4, 3, 5}, buf)
	})
}
