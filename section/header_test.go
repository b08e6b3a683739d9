package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/feelgood/endian"
	"github.com/arloliu/feelgood/errs"
)

var expectedHeader = []byte{0xFE, 0xE1, 0x90, 0x0D, 0x00}

func TestEncodeHeader(t *testing.T) {
	h := EncodeHeader()

	require.Equal(t, expectedHeader, h)
	require.Len(t, h, HeaderSize)
}

func TestEncodeHeader_Stable(t *testing.T) {
	first := EncodeHeader()
	for range 100 {
		require.Equal(t, first, EncodeHeader())
	}
}

func TestEncodeHeader_FreshSlice(t *testing.T) {
	a := EncodeHeader()
	a[0] = 0x00

	require.Equal(t, expectedHeader, EncodeHeader(), "mutating one header must not affect the next")
}

func TestAppendHeader(t *testing.T) {
	buf := AppendHeader([]byte{0xAA})
	require.Equal(t, append([]byte{0xAA}, expectedHeader...), buf)
}

func TestPutHeader(t *testing.T) {
	buf := make([]byte, HeaderSize+2)
	buf[HeaderSize] = 0x42
	PutHeader(buf)

	require.Equal(t, expectedHeader, buf[:HeaderSize])
	require.Equal(t, byte(0x42), buf[HeaderSize])

	require.Panics(t, func() { PutHeader(make([]byte, HeaderSize-1)) })
}

func TestParseHeader(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h, err := ParseHeader(append(EncodeHeader(), 0x01, 0x02))
		require.NoError(t, err)
		require.Equal(t, Magic, h.Magic)
		require.Equal(t, ReservedByte, h.Reserved)
		require.Equal(t, expectedHeader, h.Bytes())
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ParseHeader(expectedHeader[:4])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("little-endian magic", func(t *testing.T) {
		_, err := ParseHeader([]byte{0x0D, 0x90, 0xE1, 0xFE, 0x00})
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
		require.Contains(t, err.Error(), "byte-swapped")
	})

	t.Run("wrong magic", func(t *testing.T) {
		_, err := ParseHeader([]byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00})
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})

	t.Run("reserved byte set", func(t *testing.T) {
		_, err := ParseHeader([]byte{0xFE, 0xE1, 0x90, 0x0D, 0x03})
		require.ErrorIs(t, err, errs.ErrInvalidReserved)
	})
}

func TestIsSwappedMagic(t *testing.T) {
	swapped := endian.GetLittleEndianEngine().Uint32(EncodeHeader()[:MagicSize])

	require.True(t, isSwappedMagic(swapped))
	require.False(t, isSwappedMagic(Magic))
	require.False(t, isSwappedMagic(0xCAFEBABE))
	require.ErrorContains(t, Header{Magic: swapped}.Validate(), "byte-swapped")
}
