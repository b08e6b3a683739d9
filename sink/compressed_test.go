package sink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/feelgood/compress"
	"github.com/arloliu/feelgood/errs"
	"github.com/arloliu/feelgood/format"
)

func TestCompressed_RoundTrip(t *testing.T) {
	data := append([]byte{0xFE, 0xE1, 0x90, 0x0D, 0x00}, make([]byte, 64)...)

	for _, typ := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			mem := NewMemory()
			c, err := NewCompressed(mem, typ)
			require.NoError(t, err)

			require.NoError(t, c.Write("file_0.bin", data))

			stored, ok := mem.Get("file_0.bin" + typ.Extension())
			require.True(t, ok)

			codec, err := compress.CreateCodec(typ)
			require.NoError(t, err)
			restored, err := codec.Decompress(stored)
			require.NoError(t, err)
			require.Equal(t, data, restored)

			stats := c.Stats()
			require.Equal(t, typ, stats.Algorithm)
			require.Equal(t, int64(len(data)), stats.OriginalSize)
			require.Equal(t, int64(len(stored)), stats.CompressedSize)
		})
	}
}

func TestCompressed_StoredName(t *testing.T) {
	mem := NewMemory()
	inner, err := NewCompressed(mem, format.CompressionS2)
	require.NoError(t, err)
	outer, err := NewCompressed(inner, format.CompressionLZ4)
	require.NoError(t, err)

	require.Equal(t, "file_0.bin", StoredName(mem, "file_0.bin"))
	require.Equal(t, "file_0.bin.s2", StoredName(inner, "file_0.bin"))

	want := StoredName(outer, "file_0.bin")
	require.Equal(t, "file_0.bin.lz4.s2", want)
	require.NoError(t, outer.Write("file_0.bin", []byte{0xFE, 0xE1, 0x90, 0x0D, 0x00}))
	require.Equal(t, []string{want}, mem.Names())
}

func TestCompressed_None(t *testing.T) {
	mem := NewMemory()
	c, err := NewCompressed(mem, format.CompressionNone)
	require.NoError(t, err)

	require.NoError(t, c.Write("f.bin", []byte{1, 2, 3}))
	got, ok := mem.Get("f.bin")
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestCompressed_InvalidType(t *testing.T) {
	_, err := NewCompressed(NewMemory(), format.CompressionType(42))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestCompressed_PropagatesSinkError(t *testing.T) {
	c, err := NewCompressed(NewMemory(), format.CompressionS2)
	require.NoError(t, err)

	require.ErrorIs(t, c.Write("../bad", []byte{1}), errs.ErrInvalidFileName)
}
