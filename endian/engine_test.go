package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatEngineIsBigEndian(t *testing.T) {
	engine := FormatEngine()

	require.Implements(t, (*EndianEngine)(nil), engine)
	require.Equal(t, binary.BigEndian, engine)
	require.NotEqual(t, GetLittleEndianEngine(), engine)
}

func TestFormatEngineMostSignificantFirst(t *testing.T) {
	engine := FormatEngine()

	buf := engine.AppendUint32(nil, 0xFEE1900D)
	require.Equal(t, []byte{0xFE, 0xE1, 0x90, 0x0D}, buf)
	require.Equal(t, uint32(0xFEE1900D), engine.Uint32(buf))
}

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()
	require.Equal(t, binary.LittleEndian, engine)

	bytes := make([]byte, 2)
	engine.PutUint16(bytes, 0x0102)
	require.Equal(t, byte(0x02), bytes[0], "Little endian should put LSB first")
	require.Equal(t, byte(0x01), bytes[1], "Little endian should put MSB second")
	require.Equal(t, uint16(0x0102), engine.Uint16(bytes))
}

func TestEnginesDisagreeOnMagic(t *testing.T) {
	little := GetLittleEndianEngine().AppendUint32(nil, 0xFEE1900D)
	big := FormatEngine().AppendUint32(nil, 0xFEE1900D)

	require.NotEqual(t, little, big)
	require.Equal(t, []byte{0x0D, 0x90, 0xE1, 0xFE}, little)
}
