package format

import "strings"

type (
	LayoutType      uint8
	CompressionType uint8
)

const (
	LayoutRaw LayoutType = 0x1 // LayoutRaw lays sections out back to back with no framing.
	LayoutTLV LayoutType = 0x2 // LayoutTLV prefixes every section with a tag byte and a length byte.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (l LayoutType) String() string {
	switch l {
	case LayoutRaw:
		return "Raw"
	case LayoutTLV:
		return "TLV"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Extension returns the file name suffix used for files compressed with c.
// CompressionNone and unknown types have no suffix.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseLayout converts a layout name ("raw", "tlv") into a LayoutType.
func ParseLayout(name string) (LayoutType, bool) {
	switch name {
	case "raw", "Raw", "RAW":
		return LayoutRaw, true
	case "tlv", "TLV":
		return LayoutTLV, true
	default:
		return 0, false
	}
}

// ParseCompression converts a compression name ("none", "zstd", "s2", "lz4")
// into a CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "", "none", "None":
		return CompressionNone, true
	case "zstd", "Zstd":
		return CompressionZstd, true
	case "s2", "S2":
		return CompressionS2, true
	case "lz4", "LZ4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

// CompressionFromName returns the compression implied by the extension of a
// file name, or CompressionNone if it has none of the known extensions.
func CompressionFromName(name string) CompressionType {
	for _, c := range []CompressionType{CompressionZstd, CompressionS2, CompressionLZ4} {
		if strings.HasSuffix(name, c.Extension()) {
			return c
		}
	}

	return CompressionNone
}
