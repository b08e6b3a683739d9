package section

// Header layout.
const (
	Magic        uint32 = 0xFEE1900D // Magic identifies the file format, stored big-endian.
	ReservedByte byte   = 0x00       // ReservedByte is the constant value of header byte 4.

	MagicSize      = 4                        // size of the magic number field in bytes
	ReservedSize   = 1                        // size of the reserved field in bytes
	HeaderSize     = MagicSize + ReservedSize // fixed header size in bytes
	MagicOffset    = 0                        // byte offset of the magic number
	ReservedOffset = MagicOffset + MagicSize  // byte offset of the reserved byte
	PayloadOffset  = HeaderSize               // byte offset of the first section
)

// Section limits.
const (
	// DigitBase is the number of values a single section byte can take.
	DigitBase = 256
	// TLVPrefixSize is the tag and length prefix written before each section in TLV layout.
	TLVPrefixSize = 2
	// MaxTLVSectionLength is the largest section width a one-byte length field can describe.
	MaxTLVSectionLength = 255
	// DefaultSectionLength is the section width used when none is configured.
	// A single 8-byte section spans 2^64 files.
	DefaultSectionLength = 8
)
