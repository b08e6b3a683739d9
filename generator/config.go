package generator

import (
	"fmt"
	"math/big"

	"github.com/arloliu/feelgood/errs"
	"github.com/arloliu/feelgood/format"
	"github.com/arloliu/feelgood/internal/options"
	"github.com/arloliu/feelgood/section"
)

// Config describes one generation run.
//
// The zero value is not valid; use DefaultConfig or fill SectionLengths.
// A Config is copied by New, so later changes do not affect a running Generator.
type Config struct {
	// SectionLengths holds the width in bytes of every section, in file order.
	// The enumeration space has 256^L points where L is their sum.
	SectionLengths []int
	// Count is the requested number of files (the cap). It is clamped to the
	// space remaining after StartIndex.
	Count uint64
	// StartIndex is the first enumeration index. Nil means zero.
	StartIndex *big.Int
	// Layout selects how sections are framed. Zero means format.LayoutRaw.
	Layout format.LayoutType
	// SectionTags holds the tag byte written before each section in TLV layout.
	// Nil means the section ordinal.
	SectionTags []byte
}

// Option configures a Config.
type Option = options.Option[*Config]

// DefaultConfig returns a single DefaultSectionLength-byte section, raw
// layout, starting at index zero, with the given count.
func DefaultConfig(count uint64) Config {
	return Config{
		SectionLengths: []int{section.DefaultSectionLength},
		Count:          count,
		Layout:         format.LayoutRaw,
	}
}

// WithSectionLengths sets the width of every section, in file order.
func WithSectionLengths(lengths ...int) Option {
	return options.NoError(func(c *Config) {
		c.SectionLengths = append([]int(nil), lengths...)
	})
}

// WithUniformSections configures count sections of the same width.
func WithUniformSections(count, width int) Option {
	return options.New(func(c *Config) error {
		if count <= 0 {
			return errs.ErrNoSections
		}
		c.SectionLengths = make([]int, count)
		for i := range c.SectionLengths {
			c.SectionLengths[i] = width
		}

		return nil
	})
}

// WithCount sets the requested number of files.
func WithCount(count uint64) Option {
	return options.NoError(func(c *Config) {
		c.Count = count
	})
}

// WithStartIndex sets the first enumeration index.
func WithStartIndex(index *big.Int) Option {
	return options.New(func(c *Config) error {
		if index != nil && index.Sign() < 0 {
			return errs.ErrStartIndexOutOfRange
		}
		if index != nil {
			index = new(big.Int).Set(index)
		}
		c.StartIndex = index

		return nil
	})
}

// WithStartUint64 is WithStartIndex for indices that fit in a uint64.
func WithStartUint64(index uint64) Option {
	return WithStartIndex(new(big.Int).SetUint64(index))
}

// WithRawLayout lays sections out back to back without framing.
func WithRawLayout() Option {
	return options.NoError(func(c *Config) {
		c.Layout = format.LayoutRaw
	})
}

// WithTLVLayout prefixes every section with a tag byte and a length byte.
func WithTLVLayout() Option {
	return options.NoError(func(c *Config) {
		c.Layout = format.LayoutTLV
	})
}

// WithSectionTags sets the TLV tag byte of every section, in file order.
func WithSectionTags(tags ...byte) Option {
	return options.NoError(func(c *Config) {
		c.SectionTags = append([]byte(nil), tags...)
	})
}

// TotalLength returns L, the summed width of all sections.
func (c Config) TotalLength() int {
	total := 0
	for _, w := range c.SectionLengths {
		total += w
	}

	return total
}

// FileSize returns the size in bytes of every file produced by this configuration.
func (c Config) FileSize() int {
	size := section.HeaderSize + c.TotalLength()
	if c.layout() == format.LayoutTLV {
		size += section.TLVPrefixSize * len(c.SectionLengths)
	}

	return size
}

// Validate reports configuration errors. Every returned error matches
// errs.ErrInvalidConfig.
func (c Config) Validate() error {
	if len(c.SectionLengths) == 0 {
		return errs.ErrNoSections
	}

	layout := c.layout()
	switch layout {
	case format.LayoutRaw, format.LayoutTLV:
	default:
		return fmt.Errorf("%w: %s", errs.ErrInvalidLayout, layout)
	}

	for i, w := range c.SectionLengths {
		if w <= 0 {
			return fmt.Errorf("section %d: %w: %d", i, errs.ErrInvalidSectionLength, w)
		}
		if layout == format.LayoutTLV && w > section.MaxTLVSectionLength {
			return fmt.Errorf("section %d: %w: %d", i, errs.ErrSectionTooLong, w)
		}
	}

	if c.SectionTags != nil && len(c.SectionTags) != len(c.SectionLengths) {
		return fmt.Errorf("%w: %d tags for %d sections", errs.ErrInvalidSectionTag, len(c.SectionTags), len(c.SectionLengths))
	}

	if c.StartIndex != nil && !section.InRange(c.StartIndex, c.TotalLength()) {
		return fmt.Errorf("%w: %v", errs.ErrStartIndexOutOfRange, c.StartIndex)
	}

	return nil
}

func (c Config) layout() format.LayoutType {
	if c.Layout == 0 {
		return format.LayoutRaw
	}

	return c.Layout
}

func (c Config) tags() []byte {
	if c.SectionTags != nil {
		return c.SectionTags
	}

	tags := make([]byte, len(c.SectionLengths))
	for i := range tags {
		tags[i] = byte(i)
	}

	return tags
}

func (c Config) clone() Config {
	out := c
	out.SectionLengths = append([]int(nil), c.SectionLengths...)
	if c.SectionTags != nil {
		out.SectionTags = append([]byte(nil), c.SectionTags...)
	}
	if c.StartIndex != nil {
		out.StartIndex = new(big.Int).Set(c.StartIndex)
	}
	out.Layout = c.layout()

	return out
}
