// Package endian provides the byte order used by the feelgood file format.
//
// The format fixes a single byte order system-wide: the magic number and every
// odometer-encoded section are written most-significant byte first. Callers
// should obtain the engine through FormatEngine rather than naming
// binary.BigEndian directly, so that header encoding and index mapping can
// never disagree.
//
//	engine := endian.FormatEngine()
//	buf = engine.AppendUint32(buf, section.Magic)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine values are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// FormatEngine returns the byte order of the feelgood file format (big-endian).
func FormatEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
//
// It is not used for encoding. Header validation uses it to recognise files
// written with a byte-swapped magic number.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
