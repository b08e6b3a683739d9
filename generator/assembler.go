package generator

import (
	"fmt"
	"math/big"

	"github.com/arloliu/feelgood/errs"
	"github.com/arloliu/feelgood/format"
	"github.com/arloliu/feelgood/section"
)

// Assemble concatenates header and sections into a single new buffer.
//
// The buffer is allocated once at exactly the summed input length and every
// input is copied exactly once. Inputs are not retained.
func Assemble(header []byte, sections ...[]byte) []byte {
	size := len(header)
	for _, s := range sections {
		size += len(s)
	}

	buf := make([]byte, size)
	n := copy(buf, header)
	for _, s := range sections {
		n += copy(buf[n:], s)
	}

	return buf
}

// AssembleTLV is Assemble with every section prefixed by its tag byte and a
// one-byte length.
//
// Returns:
//   - []byte: the framed file
//   - error: ErrInvalidSectionTag if tags and sections differ in count,
//     ErrSectionTooLong if a section is longer than 255 bytes
func AssembleTLV(header []byte, tags []byte, sections ...[]byte) ([]byte, error) {
	if len(tags) != len(sections) {
		return nil, fmt.Errorf("%w: %d tags for %d sections", errs.ErrInvalidSectionTag, len(tags), len(sections))
	}

	size := len(header) + section.TLVPrefixSize*len(sections)
	for i, s := range sections {
		if len(s) > section.MaxTLVSectionLength {
			return nil, fmt.Errorf("section %d: %w: %d", i, errs.ErrSectionTooLong, len(s))
		}
		size += len(s)
	}

	buf := make([]byte, size)
	n := copy(buf, header)
	for i, s := range sections {
		buf[n] = tags[i]
		buf[n+1] = byte(len(s))
		n += section.TLVPrefixSize
		n += copy(buf[n:], s)
	}

	return buf, nil
}

// Assembler builds files for one configuration from the odometer payload.
//
// The payload is the whole-file index encoded into L bytes. It is split
// contiguously: section 0 receives the most significant SectionLengths[0]
// digits, section 1 the next SectionLengths[1], and so on. The split is
// therefore the same bijection as the single-section encoding of width L.
type Assembler struct {
	widths []int
	tags   []byte
	layout format.LayoutType
	size   int
	total  int
}

// NewAssembler creates an Assembler for cfg.
//
// Returns:
//   - *Assembler: the assembler
//   - error: a configuration error if cfg is invalid
func NewAssembler(cfg Config) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()

	a := &Assembler{
		widths: cfg.SectionLengths,
		layout: cfg.Layout,
		size:   cfg.FileSize(),
		total:  cfg.TotalLength(),
	}
	if a.layout == format.LayoutTLV {
		a.tags = cfg.tags()
	}

	return a, nil
}

// Size returns the size of every assembled file.
func (a *Assembler) Size() int {
	return a.size
}

// PayloadLength returns L, the number of odometer bytes one file carries.
func (a *Assembler) PayloadLength() int {
	return a.total
}

// AssemblePayload returns a new file made of the header followed by payload
// split into the configured sections.
// It panics if len(payload) differs from PayloadLength.
func (a *Assembler) AssemblePayload(payload []byte) []byte {
	if len(payload) != a.total {
		panic(fmt.Sprintf("AssemblePayload: payload length %d, want %d", len(payload), a.total))
	}

	buf := make([]byte, a.size)
	section.PutHeader(buf)
	n := section.PayloadOffset
	if a.layout != format.LayoutTLV {
		copy(buf[n:], payload)
		return buf
	}

	for i, w := range a.widths {
		buf[n] = a.tags[i]
		buf[n+1] = byte(w)
		n += section.TLVPrefixSize
		n += copy(buf[n:], payload[:w])
		payload = payload[w:]
	}

	return buf
}

// Sections splits an assembled file back into its section bytes.
// The returned slices alias data.
//
// Returns:
//   - [][]byte: one slice per configured section
//   - error: a header error, ErrInvalidFileSize if data has the wrong size or
//     ErrInvalidFraming if its TLV framing does not match the configuration
func (a *Assembler) Sections(data []byte) ([][]byte, error) {
	if _, err := section.ParseHeader(data); err != nil {
		return nil, err
	}
	if len(data) != a.size {
		return nil, fmt.Errorf("%w: file is %d bytes, want %d", errs.ErrInvalidFileSize, len(data), a.size)
	}

	out := make([][]byte, len(a.widths))
	off := section.PayloadOffset
	for i, w := range a.widths {
		if a.layout == format.LayoutTLV {
			if data[off] != a.tags[i] || int(data[off+1]) != w {
				return nil, fmt.Errorf("%w: section %d", errs.ErrInvalidFraming, i)
			}
			off += section.TLVPrefixSize
		}
		out[i] = data[off : off+w]
		off += w
	}

	return out, nil
}

// Index recovers the enumeration index that produced an assembled file.
func (a *Assembler) Index(data []byte) (*big.Int, error) {
	sections, err := a.Sections(data)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, a.total)
	for _, s := range sections {
		payload = append(payload, s...)
	}

	return section.IndexOf(payload), nil
}
