package section

import (
	"fmt"

	"github.com/arloliu/feelgood/endian"
	"github.com/arloliu/feelgood/errs"
)

// Header is the decoded form of the fixed 5-byte file header.
type Header struct {
	// Magic is the format magic number, byte offset 0-3.
	Magic uint32
	// Reserved is the reserved byte, byte offset 4.
	Reserved byte
}

// EncodeHeader returns the fixed 5-byte header shared by every generated file.
//
// The magic number is written in the format byte order (big-endian), so the
// result is always FE E1 90 0D 00. Each call returns a new slice owned by the caller.
func EncodeHeader() []byte {
	return AppendHeader(make([]byte, 0, HeaderSize))
}

// AppendHeader appends the fixed header to dst and returns the extended slice.
func AppendHeader(dst []byte) []byte {
	dst = endian.FormatEngine().AppendUint32(dst, Magic)
	return append(dst, ReservedByte)
}

// PutHeader writes the fixed header into the first HeaderSize bytes of dst.
// It panics if dst is shorter than HeaderSize.
func PutHeader(dst []byte) {
	_ = dst[HeaderSize-1]
	endian.FormatEngine().PutUint32(dst[MagicOffset:ReservedOffset], Magic)
	dst[ReservedOffset] = ReservedByte
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	endian.FormatEngine().PutUint32(b[MagicOffset:ReservedOffset], h.Magic)
	b[ReservedOffset] = h.Reserved

	return b
}

// Validate checks the header fields against the format constants.
func (h Header) Validate() error {
	switch {
	case h.Magic == Magic:
	case isSwappedMagic(h.Magic):
		return fmt.Errorf("%w: byte-swapped magic 0x%08X", errs.ErrInvalidMagic, h.Magic)
	default:
		return fmt.Errorf("%w: 0x%08X", errs.ErrInvalidMagic, h.Magic)
	}

	if h.Reserved != ReservedByte {
		return fmt.Errorf("%w: 0x%02X", errs.ErrInvalidReserved, h.Reserved)
	}

	return nil
}

// isSwappedMagic reports whether magic is Magic written in little-endian order.
func isSwappedMagic(magic uint32) bool {
	var b [ReservedOffset - MagicOffset]byte
	endian.FormatEngine().PutUint32(b[:], magic)

	return endian.GetLittleEndianEngine().Uint32(b[:]) == Magic
}

// ParseHeader parses and validates the header at the start of data.
//
// Returns:
//   - Header: the decoded header
//   - error: ErrInvalidHeaderSize if data is shorter than HeaderSize,
//     ErrInvalidMagic or ErrInvalidReserved if validation fails
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{
		Magic:    endian.FormatEngine().Uint32(data[MagicOffset:ReservedOffset]),
		Reserved: data[ReservedOffset],
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}

	return h, nil
}
