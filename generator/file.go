package generator

import (
	"fmt"
	"math/big"

	"github.com/arloliu/feelgood/section"
)

// File is one generated file.
//
// A File is an independent value owned by the caller: its Data and Index
// share no memory with the Generator or with other files.
type File struct {
	// Index is the enumeration index the file encodes.
	Index *big.Int
	// Ordinal is the position of the file within its run, starting at zero.
	Ordinal uint64
	// Data is the complete file: header followed by sections.
	Data []byte
}

// Name returns the default sink name of the file, derived from its ordinal.
func (f File) Name() string {
	return fmt.Sprintf("file_%d.bin", f.Ordinal)
}

// Header returns the header portion of Data.
func (f File) Header() []byte {
	return f.Data[:section.HeaderSize]
}

// Payload returns everything after the header, including TLV framing.
func (f File) Payload() []byte {
	return f.Data[section.PayloadOffset:]
}

// Size returns the file size in bytes.
func (f File) Size() int {
	return len(f.Data)
}
