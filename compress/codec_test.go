package compress

import (
	"bytes"
	"io"
	"testing"

	"github.com/arloliu/tdms/format"
	"github.com/stretchr/testify/require"
)

func sampleImage() []byte {
	// lead-in tag followed by compressible filler
	return append([]byte("TDSm"), bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 4096)...)
}

func TestCodecsRoundTrip(t *testing.T) {
	data := sampleImage()

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
		format.CompressionGzip,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := CreateCodec(ct)
			require.NoError(t, err)

			packed, err := codec.Compress(data)
			require.NoError(t, err)
			require.Equal(t, ct, Detect(packed))

			got, err := codec.Decompress(packed)
			require.NoError(t, err)
			require.Equal(t, data, got)

			rc, err := codec.NewReader(bytes.NewReader(packed))
			require.NoError(t, err)
			streamed, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			require.Equal(t, data, streamed)
		})
	}
}

func TestDetect(t *testing.T) {
	require.Equal(t, format.CompressionNone, Detect([]byte("TDSm")))
	require.Equal(t, format.CompressionNone, Detect(nil))
	require.Equal(t, format.CompressionGzip, Detect([]byte{0x1F, 0x8B, 8}))
	require.Equal(t, format.CompressionS2, Detect(magicSnappy))
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	require.IsType(t, ZstdCompressor{}, codec)

	_, err = GetCodec(format.CompressionType(0))
	require.Error(t, err)

	_, err = CreateCodec(format.CompressionType(99))
	require.Error(t, err)
}

func TestDecompressCorrupt(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionGzip, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, _ := GetCodec(ct)
			packed, err := codec.Compress(sampleImage())
			require.NoError(t, err)

			_, err = codec.Decompress(packed[:len(packed)/2])
			require.Error(t, err)
		})
	}
}

func TestDecompressEmpty(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4, format.CompressionGzip} {
		codec, _ := GetCodec(ct)
		got, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Empty(t, got)
	}
}
