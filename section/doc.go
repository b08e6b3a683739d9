// Package section defines the binary layout of feelgood files and the
// index-to-bytes mapping that fills them.
//
// # File Structure
//
//	Offset  Size  Field
//	0       4     Magic number 0xFEE1900D, big-endian (FE E1 90 0D)
//	4       1     Reserved, always 0x00
//	5       L     Section payload(s)
//
// The header is identical in every file. Sections follow at PayloadOffset,
// in the order configured for the run.
//
// # Odometer Encoding
//
// A section of width w holds one point of a space of 256^w byte sequences.
// MapIndex converts an enumeration index into that point with the standard
// base-256 positional encoding, most significant byte first:
//
//	MapIndex(0, 2)     -> 00 00
//	MapIndex(255, 2)   -> 00 FF
//	MapIndex(256, 2)   -> 01 00
//	MapIndex(65535, 2) -> FF FF
//	MapIndex(65536, 2) -> ErrIndexOutOfRange
//
// Because the encoding is a bijection, uniqueness of generated files follows
// from uniqueness of indices; no history of emitted files is kept anywhere.
//
// Odometer is the incremental form of the same mapping. Enumeration code
// keeps one Odometer and calls Increment instead of re-encoding a growing
// integer on every step.
package section
