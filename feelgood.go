// Package feelgood generates bounded sequences of structurally unique binary
// files.
//
// Every file starts with the constant 5-byte header FE E1 90 0D 00 followed by
// one or more payload sections. The payload of the n-th file is the base-256,
// most-significant-byte-first encoding of its enumeration index, split across
// the configured sections, so two files differ exactly when their indices do.
// Generation is lazy and deterministic: a generator holds a single odometer
// register and its memory does not grow with the number of files produced.
//
// # Basic Usage
//
// Generating files in memory:
//
//	g, _ := feelgood.NewGenerator(3, generator.WithSectionLengths(1))
//	for _, f := range g.All() {
//	    fmt.Printf("%s % X\n", f.Name(), f.Data)
//	}
//	// file_0.bin FE E1 90 0D 00 00
//	// file_1.bin FE E1 90 0D 00 01
//	// file_2.bin FE E1 90 0D 00 02
//
// Writing files into a directory:
//
//	report, err := feelgood.GenerateToDir(ctx, "./output", 1000)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the section,
// generator, sink and runner packages for the most common use cases. For
// fine-grained control, use those packages directly.
package feelgood

import (
	"context"
	"math/big"

	"github.com/arloliu/feelgood/generator"
	"github.com/arloliu/feelgood/runner"
	"github.com/arloliu/feelgood/section"
	"github.com/arloliu/feelgood/sink"
)

// DefaultSectionLength is the width of the single section used when no
// section layout is given: 8 bytes, an enumeration space of 2^64 files.
const DefaultSectionLength = section.DefaultSectionLength

// Header returns a fresh copy of the 5-byte file header.
func Header() []byte {
	return section.EncodeHeader()
}

// MapIndex returns the width-byte payload of index.
func MapIndex(index *big.Int, width int) ([]byte, error) {
	return section.MapIndex(index, width)
}

// NewGenerator creates a generator for count files with one
// DefaultSectionLength-byte section, modified by opts.
func NewGenerator(count uint64, opts ...generator.Option) (*generator.Generator, error) {
	return generator.New(generator.DefaultConfig(count), opts...)
}

// NewUniformGenerator creates a generator for count files with sections
// payload sections of width bytes each.
func NewUniformGenerator(sections, width int, count uint64, opts ...generator.Option) (*generator.Generator, error) {
	opts = append([]generator.Option{generator.WithUniformSections(sections, width)}, opts...)

	return generator.New(generator.DefaultConfig(count), opts...)
}

// GenerateToDir writes count files with the default section layout into
// dir, creating it if needed. Files are written atomically.
func GenerateToDir(ctx context.Context, dir string, count uint64, opts ...runner.Option) (runner.Report, error) {
	g, err := NewGenerator(count)
	if err != nil {
		return runner.Report{}, err
	}

	s, err := sink.NewDir(sink.DirOptions{OutputDir: dir})
	if err != nil {
		return runner.Report{}, err
	}

	return runner.Run(ctx, g, s, opts...)
}
