package generator

import (
	"iter"
	"math/big"

	"github.com/arloliu/feelgood/internal/options"
	"github.com/arloliu/feelgood/section"
)

// Generator is the bounded enumeration driver.
//
// It produces files for consecutive enumeration indices starting at the
// configured start index, one per call to Next, until either the requested
// count has been produced or the index reaches 256^L. Nothing is computed
// ahead of a pull and no produced file is remembered: the generator holds one
// odometer of L bytes and a counter, so its memory does not grow with the
// number of files.
//
// A Generator is not safe for concurrent use. Files it returns are.
type Generator struct {
	cfg       Config
	assembler *Assembler
	odometer  *section.Odometer
	limit     uint64
	produced  uint64
	clamped   bool
	exhausted bool
}

// New creates a generator for cfg with opts applied on top of it.
//
// Configuration is validated eagerly; a Count larger than the space left
// after StartIndex is clamped silently and reported by Clamped.
//
// Returns:
//   - *Generator: a generator in the Ready(StartIndex) state
//   - error: a configuration error, matching errs.ErrInvalidConfig
func New(cfg Config, opts ...Option) (*Generator, error) {
	cfg = cfg.clone()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()

	assembler, err := NewAssembler(cfg)
	if err != nil {
		return nil, err
	}

	odometer, err := section.NewOdometer(cfg.TotalLength(), cfg.StartIndex)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:       cfg,
		assembler: assembler,
		odometer:  odometer,
	}
	g.limit, g.clamped = clampCount(cfg)
	g.exhausted = g.limit == 0

	return g, nil
}

// clampCount returns min(cfg.Count, 256^L - start) and whether clamping happened.
func clampCount(cfg Config) (uint64, bool) {
	space, _ := section.SpaceSize(cfg.TotalLength())
	remaining := space
	if cfg.StartIndex != nil {
		remaining = new(big.Int).Sub(space, cfg.StartIndex)
	}

	if remaining.IsUint64() && remaining.Uint64() < cfg.Count {
		return remaining.Uint64(), true
	}

	return cfg.Count, false
}

// Next produces the next file.
//
// It returns false once the generator is exhausted; every later call also
// returns false until Reset.
func (g *Generator) Next() (File, bool) {
	if g.exhausted {
		return File{}, false
	}

	f := File{
		Index:   g.odometer.Index(),
		Ordinal: g.produced,
		Data:    g.assembler.AssemblePayload(g.odometer.Bytes()),
	}
	g.produced++

	// Increment fails exactly when the index just emitted was 256^L - 1.
	if g.produced == g.limit || !g.odometer.Increment() {
		g.exhausted = true
	}

	return f, true
}

// All returns an iterator over the remaining files, keyed by ordinal.
//
// Breaking out of the loop stops generation; the generator keeps its position
// and a later call to All or Next continues from there.
func (g *Generator) All() iter.Seq2[int, File] {
	return func(yield func(int, File) bool) {
		for {
			f, ok := g.Next()
			if !ok {
				return
			}
			if !yield(int(f.Ordinal), f) {
				return
			}
		}
	}
}

// Reset returns the generator to its initial Ready(StartIndex) state.
func (g *Generator) Reset() {
	_ = g.odometer.Set(g.cfg.StartIndex)
	g.produced = 0
	g.exhausted = g.limit == 0
}

// Exhausted reports whether the generator reached its terminal state.
func (g *Generator) Exhausted() bool {
	return g.exhausted
}

// Clamped reports whether the requested count exceeded the remaining space
// and was reduced to it.
func (g *Generator) Clamped() bool {
	return g.clamped
}

// Limit returns the number of files the run will produce in total:
// min(Count, 256^L - StartIndex).
func (g *Generator) Limit() uint64 {
	return g.limit
}

// Produced returns the number of files produced since creation or the last Reset.
func (g *Generator) Produced() uint64 {
	return g.produced
}

// Remaining returns the number of files still to be produced.
func (g *Generator) Remaining() uint64 {
	if g.exhausted {
		return 0
	}

	return g.limit - g.produced
}

// Config returns a copy of the validated configuration.
func (g *Generator) Config() Config {
	return g.cfg.clone()
}

// Assembler returns the assembler used for this run, for decoding produced files.
func (g *Generator) Assembler() *Assembler {
	return g.assembler
}
